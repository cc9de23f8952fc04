package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Phone     string    `json:"phone" db:"phone"`
	Role      Role      `json:"role" db:"role"`
	Address   string    `json:"address" db:"address"`
	Latitude  *float64  `json:"latitude" db:"latitude"`
	Longitude *float64  `json:"longitude" db:"longitude"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Supplier struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	ContactPerson string    `json:"contactPerson" db:"contact_person"`
	Email         string    `json:"email" db:"email"`
	Phone         string    `json:"phone" db:"phone"`
	Address       string    `json:"address" db:"address"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

type GasCylinder struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	WeightKg      decimal.Decimal `json:"weightKg" db:"weight_kg"`
	Price         decimal.Decimal `json:"price" db:"price"`
	StockQuantity int             `json:"stockQuantity" db:"stock_quantity"`
	SupplierID    uuid.UUID       `json:"supplierId" db:"supplier_id"`
	IsActive      bool            `json:"isActive" db:"is_active"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" db:"-"`
}

type Order struct {
	ID                  uuid.UUID       `json:"id" db:"id"`
	OrderNumber         string          `json:"orderNumber" db:"order_number"`
	CustomerID          uuid.UUID       `json:"customerId" db:"customer_id"`
	DriverID            *uuid.UUID      `json:"driverId" db:"driver_id"`
	Status              OrderStatus     `json:"status" db:"status"`
	TotalAmount         decimal.Decimal `json:"totalAmount" db:"total_amount"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee" db:"delivery_fee"`
	DeliveryAddress     string          `json:"deliveryAddress" db:"delivery_address"`
	DeliveryLatitude    *float64        `json:"deliveryLatitude" db:"delivery_latitude"`
	DeliveryLongitude   *float64        `json:"deliveryLongitude" db:"delivery_longitude"`
	SpecialInstructions *string         `json:"specialInstructions" db:"special_instructions"`
	ActualDeliveryTime  *time.Time      `json:"actualDeliveryTime" db:"actual_delivery_time"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time       `json:"updatedAt" db:"updated_at"`

	Customer *User       `json:"customer,omitempty" db:"-"`
	Driver   *User       `json:"driver" db:"-"`
	Items    []OrderItem `json:"items" db:"-"`
}

type OrderItem struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	OrderID       uuid.UUID       `json:"orderId" db:"order_id"`
	LineNo        int             `json:"lineNo" db:"line_no"`
	GasCylinderID uuid.UUID       `json:"gasCylinderId" db:"gas_cylinder_id"`
	Quantity      int             `json:"quantity" db:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice" db:"unit_price"`
	TotalPrice    decimal.Decimal `json:"totalPrice" db:"total_price"`

	GasCylinder *GasCylinder `json:"gasCylinder,omitempty" db:"-"`
}

// StatusChange is a validated status update about to be written for one order.
type StatusChange struct {
	OrderID            uuid.UUID
	From               OrderStatus
	To                 OrderStatus
	DriverID           *uuid.UUID
	ActualDeliveryTime *time.Time
}

// SupplierUpdate is a partial supplier update. Nil fields are left unchanged.
type SupplierUpdate struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	IsActive      *bool
}

// CylinderUpdate is a partial gas cylinder update. Nil fields are left
// unchanged, so stock is only written when StockQuantity is set.
type CylinderUpdate struct {
	Name          *string
	Description   *string
	WeightKg      *decimal.Decimal
	Price         *decimal.Decimal
	StockQuantity *int
	SupplierID    *uuid.UUID
	IsActive      *bool
}
