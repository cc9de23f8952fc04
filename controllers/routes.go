package controllers

import "github.com/go-michi/michi"

func RegisterRoutes(r *michi.Router) {
	r.HandleFunc("GET /health", Health)

	r.HandleFunc("GET /api/users", GetAllUsers)
	r.HandleFunc("POST /api/users", CreateUser)
	r.HandleFunc("GET /api/users/{id}", GetUserByID)

	r.HandleFunc("GET /api/suppliers", GetAllSuppliers)
	r.HandleFunc("POST /api/suppliers", CreateSupplier)
	r.HandleFunc("GET /api/suppliers/{id}", GetSupplierByID)
	r.HandleFunc("PUT /api/suppliers/{id}", UpdateSupplier)

	r.HandleFunc("GET /api/gas-cylinders", GetAllCylinders)
	r.HandleFunc("POST /api/gas-cylinders", CreateCylinder)
	r.HandleFunc("GET /api/gas-cylinders/{id}", GetCylinderByID)
	r.HandleFunc("PUT /api/gas-cylinders/{id}", UpdateCylinder)

	r.HandleFunc("GET /api/orders", GetAllOrders)
	r.HandleFunc("POST /api/orders", CreateOrder)
	r.HandleFunc("GET /api/orders/{id}", GetOrderByID)
	r.HandleFunc("PUT /api/orders/{id}/status", UpdateOrderStatus)
}
