package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"gasdelivery/models"
	"gasdelivery/store"
	"gasdelivery/utils"

	"github.com/google/uuid"
)

type orderItemRequest struct {
	CylinderID uuid.UUID `json:"cylinderId"`
	Quantity   int       `json:"quantity" validate:"min=1,max=2147483647"`
}

type createOrderRequest struct {
	CustomerID          uuid.UUID          `json:"customerId"`
	Items               []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress     string             `json:"deliveryAddress" validate:"required"`
	DeliveryLatitude    *float64           `json:"deliveryLatitude" validate:"omitempty,latitude"`
	DeliveryLongitude   *float64           `json:"deliveryLongitude" validate:"omitempty,longitude"`
	SpecialInstructions *string            `json:"specialInstructions"`
}

type updateStatusRequest struct {
	Status   models.OrderStatus `json:"status" validate:"required"`
	DriverID *uuid.UUID         `json:"driverId"`
}

func GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := db.ListOrders(r.Context())
	if err != nil {
		log.Println(utils.ErrorWithTrace(err, "listing orders"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, orders)
}

func GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	order, err := db.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.HandleError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "fetching order"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, order)
}

func CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.CustomerID == uuid.Nil {
		utils.HandleError(w, http.StatusBadRequest, "customerId is required")
		return
	}
	for i, it := range req.Items {
		if it.CylinderID == uuid.Nil {
			utils.HandleError(w, http.StatusBadRequest, fmt.Sprintf("items[%d].cylinderId is required", i))
			return
		}
	}

	customer, err := db.GetUser(r.Context(), req.CustomerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.HandleError(w, http.StatusBadRequest, "Customer not found")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "fetching customer"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	// Resolve every line and check stock before writing anything. The same
	// cylinder may appear on several lines, so stock is checked against the
	// running total requested for it.
	cylinders := make(map[uuid.UUID]models.GasCylinder, len(req.Items))
	requested := make(map[uuid.UUID]int, len(req.Items))
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		cylinder, seen := cylinders[it.CylinderID]
		if !seen {
			cylinder, err = db.GetCylinder(r.Context(), it.CylinderID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					utils.HandleError(w, http.StatusBadRequest, fmt.Sprintf("Gas cylinder %s not found", it.CylinderID))
					return
				}
				log.Println(utils.ErrorWithTrace(err, "fetching gas cylinder"))
				utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
				return
			}
			cylinders[it.CylinderID] = cylinder
		}

		if !cylinder.IsActive {
			utils.HandleError(w, http.StatusBadRequest, fmt.Sprintf("Gas cylinder %s is not available", cylinder.Name))
			return
		}
		requested[cylinder.ID] += it.Quantity
		if cylinder.StockQuantity < requested[cylinder.ID] {
			utils.HandleError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", cylinder.Name))
			return
		}

		items = append(items, models.NewOrderItem(cylinder, it.Quantity))
	}

	total := models.OrderTotal(items, deliveryFee)
	if total.GreaterThan(models.MaxAmount) {
		utils.HandleError(w, http.StatusBadRequest, "Order total must be at most "+models.MaxAmount.StringFixed(2))
		return
	}

	order := models.Order{
		CustomerID:          customer.ID,
		Status:              models.StatusPending,
		DeliveryFee:         deliveryFee,
		TotalAmount:         total,
		DeliveryAddress:     strings.TrimSpace(req.DeliveryAddress),
		DeliveryLatitude:    req.DeliveryLatitude,
		DeliveryLongitude:   req.DeliveryLongitude,
		SpecialInstructions: req.SpecialInstructions,
		Items:               items,
	}

	if err := db.CreateOrder(r.Context(), &order); err != nil {
		if stockErr, ok := store.IsInsufficientStock(err); ok {
			utils.HandleError(w, http.StatusBadRequest, stockErr.Error())
			return
		}
		if errors.Is(err, store.ErrBadReference) {
			utils.HandleError(w, http.StatusBadRequest, "Customer or gas cylinder no longer exists")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "creating order"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	complete, err := db.GetOrder(r.Context(), order.ID)
	if err != nil {
		log.Println(utils.ErrorWithTrace(err, "reloading order "+order.OrderNumber))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	log.Printf("order %s created for customer %s: %d item(s), total %s",
		complete.OrderNumber, customer.ID, len(complete.Items), complete.TotalAmount)

	utils.SendJSONResponse(w, http.StatusCreated, complete)
}

func UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	order, err := db.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.HandleError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "fetching order"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	change := models.StatusChange{
		OrderID: order.ID,
		From:    order.Status,
		To:      req.Status,
	}

	if req.DriverID != nil {
		driver, err := db.GetUser(r.Context(), *req.DriverID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.HandleError(w, http.StatusBadRequest, "Driver not found")
				return
			}
			log.Println(utils.ErrorWithTrace(err, "fetching driver"))
			utils.HandleError(w, http.StatusInternalServerError, "Failed to update order status")
			return
		}
		if driver.Role != models.RoleDriver {
			utils.HandleError(w, http.StatusBadRequest, fmt.Sprintf("User %s is not a driver", driver.ID))
			return
		}
		change.DriverID = &driver.ID
	}

	if err := models.CheckTransition(order.Status, req.Status); err != nil {
		utils.HandleError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Status == models.StatusAssigned && change.DriverID == nil && order.DriverID == nil {
		utils.HandleError(w, http.StatusBadRequest, "driverId is required to assign an order")
		return
	}

	if req.Status == models.StatusDelivered {
		now := time.Now().UTC()
		change.ActualDeliveryTime = &now
	}

	if err := db.UpdateOrderStatus(r.Context(), change); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.HandleError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, store.ErrStatusConflict):
			utils.HandleError(w, http.StatusBadRequest, "Order status changed concurrently")
		case errors.Is(err, store.ErrBadReference):
			utils.HandleError(w, http.StatusBadRequest, "Driver not found")
		default:
			log.Println(utils.ErrorWithTrace(err, "updating order status"))
			utils.HandleError(w, http.StatusInternalServerError, "Failed to update order status")
		}
		return
	}

	updated, err := db.GetOrder(r.Context(), id)
	if err != nil {
		log.Println(utils.ErrorWithTrace(err, "reloading order"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, updated)
}
