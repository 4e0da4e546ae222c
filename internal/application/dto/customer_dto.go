package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest registro de un cliente del programa de fidelización.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// RedeemPointsRequest canje de puntos por descuento.
type RedeemPointsRequest struct {
	Points int64 `json:"points"`
}

// RedeemPointsResponse resultado del canje.
type RedeemPointsResponse struct {
	Discount        decimal.Decimal `json:"discount"`
	RemainingPoints int64           `json:"remaining_points"`
}
