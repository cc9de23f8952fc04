package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"gasdelivery/models"
	"gasdelivery/store"
	"gasdelivery/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createCylinderRequest struct {
	Name          string           `json:"name" validate:"required"`
	Description   string           `json:"description"`
	WeightKg      decimal.Decimal  `json:"weightKg"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity int              `json:"stockQuantity" validate:"gte=0,lte=2147483647"`
	SupplierID    uuid.UUID        `json:"supplierId"`
	IsActive      *bool            `json:"isActive"`
}

// Nil fields are left unchanged.
type updateCylinderRequest struct {
	Name          *string          `json:"name" validate:"omitnil,min=1"`
	Description   *string          `json:"description"`
	WeightKg      *decimal.Decimal `json:"weightKg"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stockQuantity" validate:"omitnil,gte=0,lte=2147483647"`
	SupplierID    *uuid.UUID       `json:"supplierId"`
	IsActive      *bool            `json:"isActive"`
}

func GetAllCylinders(w http.ResponseWriter, r *http.Request) {
	cylinders, err := db.ListCylinders(r.Context())
	if err != nil {
		log.Println(utils.ErrorWithTrace(err, "listing gas cylinders"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch gas cylinders")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, cylinders)
}

func GetCylinderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cylinder, err := db.GetCylinder(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.HandleError(w, http.StatusNotFound, "Gas cylinder not found")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "fetching gas cylinder"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch gas cylinder")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, cylinder)
}

func CreateCylinder(w http.ResponseWriter, r *http.Request) {
	var req createCylinderRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Price == nil {
		utils.HandleError(w, http.StatusBadRequest, "price is required")
		return
	}
	if err := checkCylinderAmounts(req.Price, &req.WeightKg); err != nil {
		utils.HandleError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SupplierID == uuid.Nil {
		utils.HandleError(w, http.StatusBadRequest, "supplierId is required")
		return
	}

	supplier, ok := resolveSupplier(w, r, req.SupplierID)
	if !ok {
		return
	}

	cylinder := models.GasCylinder{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		WeightKg:      req.WeightKg,
		Price:         *req.Price,
		StockQuantity: req.StockQuantity,
		SupplierID:    supplier.ID,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}

	if err := db.CreateCylinder(r.Context(), &cylinder); err != nil {
		if errors.Is(err, store.ErrBadReference) {
			utils.HandleError(w, http.StatusBadRequest, "Supplier not found")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "creating gas cylinder"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create gas cylinder")
		return
	}
	cylinder.Supplier = &supplier

	utils.SendJSONResponse(w, http.StatusCreated, cylinder)
}

func UpdateCylinder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateCylinderRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := checkCylinderAmounts(req.Price, req.WeightKg); err != nil {
		utils.HandleError(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := models.CylinderUpdate{
		Description:   req.Description,
		WeightKg:      req.WeightKg,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		SupplierID:    req.SupplierID,
		IsActive:      req.IsActive,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.HandleError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		upd.Name = &name
	}

	cylinder, err := db.UpdateCylinder(r.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.HandleError(w, http.StatusNotFound, "Gas cylinder not found")
		case errors.Is(err, store.ErrBadReference):
			utils.HandleError(w, http.StatusBadRequest, "Supplier not found")
		default:
			log.Println(utils.ErrorWithTrace(err, "updating gas cylinder"))
			utils.HandleError(w, http.StatusInternalServerError, "Failed to update gas cylinder")
		}
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, cylinder)
}

// checkCylinderAmounts bounds the optional price and weight to their columns.
func checkCylinderAmounts(price, weightKg *decimal.Decimal) error {
	if price != nil {
		if err := models.CheckAmount("price", *price, models.MaxAmount); err != nil {
			return err
		}
	}
	if weightKg != nil {
		if err := models.CheckAmount("weightKg", *weightKg, models.MaxWeightKg); err != nil {
			return err
		}
	}
	return nil
}

func resolveSupplier(w http.ResponseWriter, r *http.Request, id uuid.UUID) (models.Supplier, bool) {
	supplier, err := db.GetSupplier(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.HandleError(w, http.StatusBadRequest, "Supplier not found")
			return models.Supplier{}, false
		}
		log.Println(utils.ErrorWithTrace(err, "fetching supplier"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch supplier")
		return models.Supplier{}, false
	}
	return supplier, true
}
