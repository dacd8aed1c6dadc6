package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRaffleNotFound     = errors.New("raffle not found")
	ErrActiveRaffleExists = errors.New("an active raffle already exists")
	ErrRaffleNotActive    = errors.New("raffle is not active")
)

// ticketBatchSize keeps bulk ticket inserts under the backend payload limit.
const ticketBatchSize = 500

type Raffle struct {
	ID uint `gorm:"primaryKey"`

	Title        string  `gorm:"not null"`
	Description  string
	TotalNumbers int     `gorm:"not null"`
	Price        float64 `gorm:"not null"`
	PixName      string
	PixKey       string `gorm:"not null"`

	// The partial unique index guarantees at most one active raffle at the
	// data layer, not just by UI discipline.
	Status       string `gorm:"not null;index:idx_raffles_one_active,unique,where:status = 'active'"`
	WinnerNumber *int

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RaffleDAO struct {
	db *gorm.DB
}

func NewRaffleDAO(db *gorm.DB) *RaffleDAO {
	return &RaffleDAO{
		db: db,
	}
}

// InsertWithTickets creates the raffle row and all of its ticket rows in one
// transaction. A failed batch rolls everything back, so a raffle is never
// left partially ticketed.
func (d *RaffleDAO) InsertWithTickets(ctx context.Context, raffle Raffle) (Raffle, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&raffle); result.Error != nil {
			return result.Error
		}

		tickets := make([]Ticket, 0, raffle.TotalNumbers)
		for number := 1; number <= raffle.TotalNumbers; number++ {
			tickets = append(tickets, Ticket{
				RaffleID: raffle.ID,
				Number:   number,
				Status:   "available",
			})
		}

		return tx.CreateInBatches(&tickets, ticketBatchSize).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Raffle{}, ErrActiveRaffleExists
		}

		return Raffle{}, err
	}

	return raffle, nil
}

func (d *RaffleDAO) FindByID(ctx context.Context, id uint) (Raffle, error) {
	var raffle Raffle

	result := d.db.WithContext(ctx).First(&raffle, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Raffle{}, ErrRaffleNotFound
		}

		return Raffle{}, result.Error
	}

	return raffle, nil
}

func (d *RaffleDAO) FindActive(ctx context.Context) (Raffle, error) {
	var raffle Raffle

	result := d.db.WithContext(ctx).First(&raffle, "status = ?", "active")
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Raffle{}, ErrRaffleNotFound
		}

		return Raffle{}, result.Error
	}

	return raffle, nil
}

func (d *RaffleDAO) CountActive(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Raffle{}).Where("status = ?", "active").Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Update patches mutable display fields. The update is conditional on the
// raffle still being active.
func (d *RaffleDAO) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := d.db.WithContext(ctx).Model(&Raffle{}).
		Where("id = ? AND status = ?", id, "active").
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRaffleNotActive
	}

	return nil
}

// SetWinner records the drawn number and finishes the raffle. Conditional on
// status so a second draw can never overwrite the first.
func (d *RaffleDAO) SetWinner(ctx context.Context, id uint, winnerNumber int) error {
	result := d.db.WithContext(ctx).Model(&Raffle{}).
		Where("id = ? AND status = ?", id, "active").
		Updates(map[string]interface{}{
			"winner_number": winnerNumber,
			"status":        "finished",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRaffleNotActive
	}

	return nil
}
