package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"gasdelivery/models"
	"gasdelivery/store"
	"gasdelivery/utils"
)

type createSupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	IsActive      *bool  `json:"isActive"`
}

// Nil fields are left unchanged.
type updateSupplierRequest struct {
	Name          *string `json:"name" validate:"omitnil,min=1"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	IsActive      *bool   `json:"isActive"`
}

func GetAllSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := db.ListSuppliers(r.Context())
	if err != nil {
		log.Println(utils.ErrorWithTrace(err, "listing suppliers"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch suppliers")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, suppliers)
}

func GetSupplierByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	supplier, err := db.GetSupplier(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.HandleError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "fetching supplier"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch supplier")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, supplier)
}

func CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req createSupplierRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	supplier := models.Supplier{
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}

	if err := db.CreateSupplier(r.Context(), &supplier); err != nil {
		log.Println(utils.ErrorWithTrace(err, "creating supplier"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create supplier")
		return
	}
	utils.SendJSONResponse(w, http.StatusCreated, supplier)
}

func UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateSupplierRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	upd := models.SupplierUpdate{
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
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

	supplier, err := db.UpdateSupplier(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.HandleError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "updating supplier"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update supplier")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, supplier)
}
