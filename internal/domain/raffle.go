package domain

import "time"

const (
	RaffleStatusActive   = "active"
	RaffleStatusFinished = "finished"
)

type Raffle struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TotalNumbers int       `json:"total_numbers"`
	Price        float64   `json:"price"`
	PixName      string    `json:"pix_name"`
	PixKey       string    `json:"pix_key"`
	Status       string    `json:"status"`
	WinnerNumber *int      `json:"winner_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r Raffle) IsActive() bool {
	return r.Status == RaffleStatusActive
}

func (r Raffle) IsFinished() bool {
	return r.Status == RaffleStatusFinished
}

// RafflePatch carries the fields an administrator may change while a raffle
// is active. Status, winner number and total numbers are deliberately absent.
type RafflePatch struct {
	Title       *string
	Description *string
	Price       *float64
	PixName     *string
	PixKey      *string
}

func (p RafflePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil &&
		p.PixName == nil && p.PixKey == nil
}
