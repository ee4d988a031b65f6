package dto

import "ecocart/model"

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// QuantityRequest sets an item's quantity. Zero removes the item.
type QuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (r QuantityRequest) Change() (model.QuantityChange, error) {
	return model.ParseQuantityChange(*r.Quantity)
}
