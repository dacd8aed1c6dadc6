package domain

import (
	"sort"
	"time"
)

const (
	TicketStatusAvailable = "available"
	TicketStatusReserved  = "reserved"
	TicketStatusConfirmed = "confirmed"
)

type Ticket struct {
	ID          uint       `json:"id"`
	RaffleID    uint       `json:"raffle_id"`
	Number      int        `json:"number"`
	Status      string     `json:"status"`
	BuyerName   string     `json:"buyer_name,omitempty"`
	BuyerPhone  string     `json:"buyer_phone,omitempty"`
	ProofURL    string     `json:"proof_url,omitempty"`
	ReservedAt  *time.Time `json:"reserved_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// ReservationResult reports, per requested number, whether the conditional
// available -> reserved update won or lost the race against other buyers.
type ReservationResult struct {
	Reserved   []int `json:"reserved"`
	Conflicted []int `json:"conflicted"`
}

// RaffleSummary is the read model projected from the full ticket set of a
// raffle. It is recomputed on every read.
type RaffleSummary struct {
	Total            int     `json:"total"`
	Available        int     `json:"available"`
	Reserved         int     `json:"reserved"`
	Confirmed        int     `json:"confirmed"`
	AvailableNumbers []int   `json:"available_numbers"`
	Revenue          float64 `json:"revenue"`
	Progress         float64 `json:"progress"`
}

// Summarize derives counts, availability and revenue from a ticket set.
func Summarize(tickets []Ticket, price float64) RaffleSummary {
	summary := RaffleSummary{
		Total:            len(tickets),
		AvailableNumbers: []int{},
	}

	for _, t := range tickets {
		switch t.Status {
		case TicketStatusAvailable:
			summary.Available++
			summary.AvailableNumbers = append(summary.AvailableNumbers, t.Number)
		case TicketStatusReserved:
			summary.Reserved++
		case TicketStatusConfirmed:
			summary.Confirmed++
		}
	}

	sort.Ints(summary.AvailableNumbers)

	summary.Revenue = float64(summary.Confirmed) * price
	if summary.Total > 0 {
		summary.Progress = float64(summary.Confirmed) / float64(summary.Total)
	}

	return summary
}
