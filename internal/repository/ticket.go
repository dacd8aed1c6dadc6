package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rifaamiga/raffle-api/internal/domain"
	"github.com/rifaamiga/raffle-api/internal/repository/dao"
)

var ErrTicketNotFound = dao.ErrTicketNotFound

type TicketDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Ticket, error)
	FindByRaffleID(ctx context.Context, raffleID uint) ([]dao.Ticket, error)
	FindByRaffleIDAndStatus(ctx context.Context, raffleID uint, status string) ([]dao.Ticket, error)
	FindByRaffleIDAndNumber(ctx context.Context, raffleID uint, number int) (dao.Ticket, error)
	ReserveByNumber(ctx context.Context, raffleID uint, number int, buyerName, buyerPhone, proofURL string, reservedAt time.Time) (bool, error)
	Confirm(ctx context.Context, id uint, confirmedAt time.Time) error
	Reject(ctx context.Context, id uint) error
	ConfirmByNumber(ctx context.Context, raffleID uint, number int, buyerName string, confirmedAt time.Time) (bool, error)
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

func (r *TicketRepository) FindByID(ctx context.Context, id uint) (domain.Ticket, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TicketRepository) FindByRaffleID(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRaffleID -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *TicketRepository) FindByRaffleIDAndStatus(ctx context.Context, raffleID uint, status string) ([]domain.Ticket, error) {
	found, err := r.dao.FindByRaffleIDAndStatus(ctx, raffleID, status)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRaffleIDAndStatus -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *TicketRepository) FindByRaffleIDAndNumber(ctx context.Context, raffleID uint, number int) (domain.Ticket, error) {
	found, err := r.dao.FindByRaffleIDAndNumber(ctx, raffleID, number)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindByRaffleIDAndNumber -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// Reserve attempts the conditional available -> reserved transition and
// reports whether it won the race.
func (r *TicketRepository) Reserve(ctx context.Context, raffleID uint, number int, buyerName, buyerPhone, proofURL string, reservedAt time.Time) (bool, error) {
	reserved, err := r.dao.ReserveByNumber(ctx, raffleID, number, buyerName, buyerPhone, proofURL, reservedAt)
	if err != nil {
		return false, fmt.Errorf("r.dao.ReserveByNumber -> %w", err)
	}

	return reserved, nil
}

func (r *TicketRepository) Confirm(ctx context.Context, id uint, confirmedAt time.Time) error {
	if err := r.dao.Confirm(ctx, id, confirmedAt); err != nil {
		return fmt.Errorf("r.dao.Confirm -> %w", err)
	}

	return nil
}

func (r *TicketRepository) Reject(ctx context.Context, id uint) error {
	if err := r.dao.Reject(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Reject -> %w", err)
	}

	return nil
}

func (r *TicketRepository) ConfirmByNumber(ctx context.Context, raffleID uint, number int, buyerName string, confirmedAt time.Time) (bool, error) {
	confirmed, err := r.dao.ConfirmByNumber(ctx, raffleID, number, buyerName, confirmedAt)
	if err != nil {
		return false, fmt.Errorf("r.dao.ConfirmByNumber -> %w", err)
	}

	return confirmed, nil
}

func (r *TicketRepository) daoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:          t.ID,
		RaffleID:    t.RaffleID,
		Number:      t.Number,
		Status:      t.Status,
		BuyerName:   t.BuyerName,
		BuyerPhone:  t.BuyerPhone,
		ProofURL:    t.ProofURL,
		ReservedAt:  t.ReservedAt,
		ConfirmedAt: t.ConfirmedAt,
	}
}

func (r *TicketRepository) daoToDomainSlice(tickets []dao.Ticket) []domain.Ticket {
	converted := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		converted = append(converted, r.daoToDomain(t))
	}

	return converted
}
