package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrTicketNotFound = errors.New("ticket not found")

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	RaffleID uint   `gorm:"not null;uniqueIndex:idx_tickets_raffle_number"`
	Number   int    `gorm:"not null;uniqueIndex:idx_tickets_raffle_number"`
	Status   string `gorm:"not null;index"`

	BuyerName  string
	BuyerPhone string
	ProofURL   string

	ReservedAt  *time.Time
	ConfirmedAt *time.Time
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

func (d *TicketDAO) FindByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) FindByRaffleID(ctx context.Context, raffleID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ?", raffleID).
		Order("number").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindByRaffleIDAndStatus(ctx context.Context, raffleID uint, status string) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ? AND status = ?", raffleID, status).
		Order("number").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindByRaffleIDAndNumber(ctx context.Context, raffleID uint, number int) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).
		First(&ticket, "raffle_id = ? AND number = ?", raffleID, number)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

// ReserveByNumber performs the conditional available -> reserved update. The
// returned bool reports whether this caller won the compare-and-swap; false
// means another buyer took the number between read and write.
func (d *TicketDAO) ReserveByNumber(ctx context.Context, raffleID uint, number int, buyerName, buyerPhone, proofURL string, reservedAt time.Time) (bool, error) {
	result := d.db.WithContext(ctx).Model(&Ticket{}).
		Where("raffle_id = ? AND number = ? AND status = ?", raffleID, number, "available").
		Updates(map[string]interface{}{
			"status":      "reserved",
			"buyer_name":  buyerName,
			"buyer_phone": buyerPhone,
			"proof_url":   proofURL,
			"reserved_at": reservedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Confirm marks a ticket confirmed. It is idempotent on already confirmed
// tickets.
func (d *TicketDAO) Confirm(ctx context.Context, id uint, confirmedAt time.Time) error {
	result := d.db.WithContext(ctx).Model(&Ticket{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       "confirmed",
			"confirmed_at": confirmedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}

	return nil
}

// Reject releases a ticket back to available, clearing all buyer data.
func (d *TicketDAO) Reject(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Model(&Ticket{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       "available",
			"buyer_name":   nil,
			"buyer_phone":  nil,
			"proof_url":    nil,
			"reserved_at":  nil,
			"confirmed_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}

	return nil
}

// ConfirmByNumber performs the direct available -> confirmed transition used
// for in-person payments. Conditional like ReserveByNumber so it cannot
// clobber a reservation made in the meantime.
func (d *TicketDAO) ConfirmByNumber(ctx context.Context, raffleID uint, number int, buyerName string, confirmedAt time.Time) (bool, error) {
	result := d.db.WithContext(ctx).Model(&Ticket{}).
		Where("raffle_id = ? AND number = ? AND status = ?", raffleID, number, "available").
		Updates(map[string]interface{}{
			"status":       "confirmed",
			"buyer_name":   buyerName,
			"confirmed_at": confirmedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
