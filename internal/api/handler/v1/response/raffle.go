package response

import "github.com/rifaamiga/raffle-api/internal/domain"

// ReservationResponse tells the buyer exactly which numbers were secured and
// which were lost to a concurrent reservation.
type ReservationResponse struct {
	Reserved   []int  `json:"reserved"`
	Conflicted []int  `json:"conflicted"`
	ProofURL   string `json:"proof_url"`
}

type BulkResponse struct {
	Processed int `json:"processed"`
}

type WinnerResponse struct {
	Number    int    `json:"number"`
	BuyerName string `json:"buyer_name"`
}

func NewWinnerResponse(ticket domain.Ticket) WinnerResponse {
	return WinnerResponse{
		Number:    ticket.Number,
		BuyerName: ticket.BuyerName,
	}
}
