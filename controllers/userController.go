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

type createUserRequest struct {
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=6"`
	FirstName string      `json:"firstName" validate:"required"`
	LastName  string      `json:"lastName" validate:"required"`
	Phone     string      `json:"phone"`
	Role      models.Role `json:"role" validate:"omitempty,oneof=customer driver admin"`
	Address   string      `json:"address"`
	Latitude  *float64    `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64    `json:"longitude" validate:"omitempty,longitude"`
}

func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := db.ListUsers(r.Context())
	if err != nil {
		log.Println(utils.ErrorWithTrace(err, "listing users"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, users)
}

func GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := db.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.HandleError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "fetching user"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	utils.SendJSONResponse(w, http.StatusOK, user)
}

func CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if the email is already registered
	if _, err := db.GetUserByEmail(r.Context(), email); err == nil {
		utils.HandleError(w, http.StatusBadRequest, "Email already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Println(utils.ErrorWithTrace(err, "looking up email"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Println(utils.ErrorWithTrace(err, "hashing password"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := models.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     req.Phone,
		Role:      role,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsActive:  true,
	}

	if err := db.CreateUser(r.Context(), &user); err != nil {
		// Lost a race with a concurrent signup for the same email
		if errors.Is(err, store.ErrDuplicateEmail) {
			utils.HandleError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		log.Println(utils.ErrorWithTrace(err, "creating user"))
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, user)
}
