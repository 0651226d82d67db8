package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type InitializeStockRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (req *InitializeStockRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ProductID, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}

type ReserveStockRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (req *ReserveStockRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ProductID, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type ConfirmReservationRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (req *ConfirmReservationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ProductID, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type AddStockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (req *AddStockRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}
