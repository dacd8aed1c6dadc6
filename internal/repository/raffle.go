package repository

import (
	"context"
	"fmt"

	"github.com/rifaamiga/raffle-api/internal/domain"
	"github.com/rifaamiga/raffle-api/internal/repository/dao"
)

var (
	ErrRaffleNotFound     = dao.ErrRaffleNotFound
	ErrActiveRaffleExists = dao.ErrActiveRaffleExists
	ErrRaffleNotActive    = dao.ErrRaffleNotActive
)

type RaffleDAO interface {
	InsertWithTickets(ctx context.Context, raffle dao.Raffle) (dao.Raffle, error)
	FindByID(ctx context.Context, id uint) (dao.Raffle, error)
	FindActive(ctx context.Context) (dao.Raffle, error)
	CountActive(ctx context.Context) (int64, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	SetWinner(ctx context.Context, id uint, winnerNumber int) error
}

type RaffleRepository struct {
	dao RaffleDAO
}

func NewRaffleRepository(dao RaffleDAO) *RaffleRepository {
	return &RaffleRepository{
		dao: dao,
	}
}

// Create persists the raffle and its full ticket set atomically.
func (r *RaffleRepository) Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	created, err := r.dao.InsertWithTickets(ctx, dao.Raffle{
		Title:        raffle.Title,
		Description:  raffle.Description,
		TotalNumbers: raffle.TotalNumbers,
		Price:        raffle.Price,
		PixName:      raffle.PixName,
		PixKey:       raffle.PixKey,
		Status:       domain.RaffleStatusActive,
	})
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.InsertWithTickets -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RaffleRepository) FindByID(ctx context.Context, id uint) (domain.Raffle, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RaffleRepository) FindActive(ctx context.Context) (domain.Raffle, error) {
	found, err := r.dao.FindActive(ctx)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RaffleRepository) HasActive(ctx context.Context) (bool, error) {
	count, err := r.dao.CountActive(ctx)
	if err != nil {
		return false, fmt.Errorf("r.dao.CountActive -> %w", err)
	}

	return count > 0, nil
}

func (r *RaffleRepository) Update(ctx context.Context, id uint, patch domain.RafflePatch) error {
	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.PixName != nil {
		fields["pix_name"] = *patch.PixName
	}
	if patch.PixKey != nil {
		fields["pix_key"] = *patch.PixKey
	}

	if err := r.dao.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("r.dao.Update -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) SetWinner(ctx context.Context, id uint, winnerNumber int) error {
	if err := r.dao.SetWinner(ctx, id, winnerNumber); err != nil {
		return fmt.Errorf("r.dao.SetWinner -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) daoToDomain(raffle dao.Raffle) domain.Raffle {
	return domain.Raffle{
		ID:           raffle.ID,
		Title:        raffle.Title,
		Description:  raffle.Description,
		TotalNumbers: raffle.TotalNumbers,
		Price:        raffle.Price,
		PixName:      raffle.PixName,
		PixKey:       raffle.PixKey,
		Status:       raffle.Status,
		WinnerNumber: raffle.WinnerNumber,
		CreatedAt:    raffle.CreatedAt,
		UpdatedAt:    raffle.UpdatedAt,
	}
}
