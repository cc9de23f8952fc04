package controllers

import (
	"context"
	"log"
	"net/http"

	"gasdelivery/models"
	"gasdelivery/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the persistence the handlers need. *store.Store implements it.
type Store interface {
	Ping(ctx context.Context) error

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (models.Supplier, error)
	CreateSupplier(ctx context.Context, s *models.Supplier) error
	UpdateSupplier(ctx context.Context, id uuid.UUID, upd models.SupplierUpdate) (models.Supplier, error)

	ListCylinders(ctx context.Context) ([]models.GasCylinder, error)
	GetCylinder(ctx context.Context, id uuid.UUID) (models.GasCylinder, error)
	CreateCylinder(ctx context.Context, c *models.GasCylinder) error
	UpdateCylinder(ctx context.Context, id uuid.UUID, upd models.CylinderUpdate) (models.GasCylinder, error)

	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, change models.StatusChange) error
}

var (
	db          Store
	deliveryFee = decimal.NewFromInt(5)
)

func SetStore(s Store) {
	db = s
}

// SetDeliveryFee sets the flat fee added to every new order.
func SetDeliveryFee(fee decimal.Decimal) {
	deliveryFee = fee
}

func Health(w http.ResponseWriter, r *http.Request) {
	if err := db.Ping(r.Context()); err != nil {
		log.Println(utils.ErrorWithTrace(err, "health check: database unreachable"))
		utils.SendJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "ERROR",
			"message": "Database unavailable",
		})
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Gas Cylinder Delivery API is running",
	})
}

// pathID parses the {id} path segment, answering 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// decodeRequest decodes and validates the JSON body into req, answering 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := utils.DecodeJSON(r, req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := utils.Validate(req); err != nil {
		utils.HandleError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
