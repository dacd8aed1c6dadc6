package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateRaffleRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TotalNumbers int     `json:"total_numbers"`
	Price        float64 `json:"price"`
	PixName      string  `json:"pix_name"`
	PixKey       string  `json:"pix_key"`
}

func (req *CreateRaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 120)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.TotalNumbers, validation.Required, validation.Min(10), validation.Max(1000)),
		validation.Field(&req.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&req.PixKey, validation.Required),
		validation.Field(&req.PixName, validation.Length(0, 120)),
	)
}

// UpdateRaffleRequest patches display fields only. Pointer fields distinguish
// "leave unchanged" from "set to zero value".
type UpdateRaffleRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	PixName     *string  `json:"pix_name"`
	PixKey      *string  `json:"pix_key"`
}

func (req *UpdateRaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(2, 120)),
		validation.Field(&req.Price, validation.Min(0.01)),
		validation.Field(&req.PixKey, validation.NilOrNotEmpty),
	)
}
