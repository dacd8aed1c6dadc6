package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var phoneExp = regexp.MustCompile(`^\+?[0-9()\s-]{8,20}$`)

// ReserveRequest is assembled from the multipart reservation form; the proof
// image travels alongside it as a file part.
type ReserveRequest struct {
	Numbers    []int  `json:"numbers"`
	BuyerName  string `json:"buyer_name"`
	BuyerPhone string `json:"buyer_phone"`
}

func (req *ReserveRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Numbers, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.BuyerName, validation.Required, validation.Length(2, 120)),
		validation.Field(&req.BuyerPhone, validation.Required, validation.Match(phoneExp)),
	)
}

type BulkTicketsRequest struct {
	TicketIDs []uint `json:"ticket_ids"`
}

func (req *BulkTicketsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketIDs, validation.Required, validation.Length(1, 0)),
	)
}

type ConfirmManualRequest struct {
	Number    int    `json:"number"`
	BuyerName string `json:"buyer_name"`
}

func (req *ConfirmManualRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Number, validation.Required, validation.Min(1)),
		validation.Field(&req.BuyerName, validation.Required, validation.Length(2, 120)),
	)
}
