package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rifaamiga/raffle-api/internal/cache"
	"github.com/rifaamiga/raffle-api/internal/domain"
	"github.com/rifaamiga/raffle-api/internal/metrics"
	"github.com/rifaamiga/raffle-api/internal/repository"
)

const (
	// Bounds an administrator can pick the pool size from.
	MinTotalNumbers = 10
	MaxTotalNumbers = 1000

	activeRaffleCacheTTL = 10 * time.Second
	ticketsCacheTTL      = 5 * time.Second

	activeRaffleCacheKey = "raffle:active"
)

var (
	ErrRaffleNotFound     = repository.ErrRaffleNotFound
	ErrActiveRaffleExists = repository.ErrActiveRaffleExists
	ErrRaffleNotActive    = repository.ErrRaffleNotActive
	ErrTicketNotFound     = repository.ErrTicketNotFound

	ErrMissingTitle        = errors.New("raffle title is required")
	ErrMissingPixKey       = errors.New("pix key is required")
	ErrInvalidTotalNumbers = fmt.Errorf("total numbers must be between %d and %d", MinTotalNumbers, MaxTotalNumbers)
	ErrInvalidPrice        = errors.New("price must be greater than zero")
	ErrEmptyPatch          = errors.New("no fields to update")
	ErrNoNumbersSelected   = errors.New("no numbers selected")
	ErrNumberOutOfRange    = errors.New("number outside the raffle range")
	ErrNumberUnavailable   = errors.New("number is no longer available")
	ErrNoConfirmedTickets  = errors.New("no confirmed tickets to draw from")
	ErrNoWinnerYet         = errors.New("raffle has no winner yet")
)

type RaffleRepository interface {
	Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	FindByID(ctx context.Context, id uint) (domain.Raffle, error)
	FindActive(ctx context.Context) (domain.Raffle, error)
	HasActive(ctx context.Context) (bool, error)
	Update(ctx context.Context, id uint, patch domain.RafflePatch) error
	SetWinner(ctx context.Context, id uint, winnerNumber int) error
}

type TicketRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Ticket, error)
	FindByRaffleID(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	FindByRaffleIDAndStatus(ctx context.Context, raffleID uint, status string) ([]domain.Ticket, error)
	FindByRaffleIDAndNumber(ctx context.Context, raffleID uint, number int) (domain.Ticket, error)
	Reserve(ctx context.Context, raffleID uint, number int, buyerName, buyerPhone, proofURL string, reservedAt time.Time) (bool, error)
	Confirm(ctx context.Context, id uint, confirmedAt time.Time) error
	Reject(ctx context.Context, id uint) error
	ConfirmByNumber(ctx context.Context, raffleID uint, number int, buyerName string, confirmedAt time.Time) (bool, error)
}

// RaffleService owns the ticket state machine: available -> reserved ->
// confirmed, reserved -> available on rejection, and the one-shot draw that
// finishes a raffle.
type RaffleService struct {
	repo    RaffleRepository
	tickets TicketRepository
	cache   cache.Store

	// Injectable for deterministic draw tests.
	randIntn func(n int) int
}

func NewRaffleService(repo RaffleRepository, tickets TicketRepository, store cache.Store) *RaffleService {
	return &RaffleService{
		repo:     repo,
		tickets:  tickets,
		cache:    store,
		randIntn: rand.Intn,
	}
}

type CreateRaffleInput struct {
	Title        string
	Description  string
	TotalNumbers int
	Price        float64
	PixName      string
	PixKey       string
}

// CreateRaffle validates the input, rejects creation while another raffle is
// active, and persists the raffle together with its full ticket set.
func (s *RaffleService) CreateRaffle(ctx context.Context, input CreateRaffleInput) (domain.Raffle, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.Raffle{}, ErrMissingTitle
	}
	if strings.TrimSpace(input.PixKey) == "" {
		return domain.Raffle{}, ErrMissingPixKey
	}
	if input.TotalNumbers < MinTotalNumbers || input.TotalNumbers > MaxTotalNumbers {
		return domain.Raffle{}, ErrInvalidTotalNumbers
	}
	if input.Price <= 0 {
		return domain.Raffle{}, ErrInvalidPrice
	}

	hasActive, err := s.repo.HasActive(ctx)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.HasActive -> %w", err)
	}
	if hasActive {
		return domain.Raffle{}, ErrActiveRaffleExists
	}

	created, err := s.repo.Create(ctx, domain.Raffle{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		TotalNumbers: input.TotalNumbers,
		Price:        input.Price,
		PixName:      strings.TrimSpace(input.PixName),
		PixKey:       strings.TrimSpace(input.PixKey),
	})
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.invalidateRaffle(ctx, created.ID)

	return created, nil
}

// UpdateRaffle patches mutable display fields of an active raffle. Status,
// winner number and total numbers cannot be reached through this path.
func (s *RaffleService) UpdateRaffle(ctx context.Context, raffleID uint, patch domain.RafflePatch) (domain.Raffle, error) {
	if patch.IsEmpty() {
		return domain.Raffle{}, ErrEmptyPatch
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return domain.Raffle{}, ErrInvalidPrice
	}

	if err := s.repo.Update(ctx, raffleID, patch); err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.invalidateRaffle(ctx, raffleID)

	updated, err := s.repo.FindByID(ctx, raffleID)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return updated, nil
}

// GetActiveRaffle returns the currently active raffle, served from the
// short-TTL cache when possible. Availability read from here may be a few
// seconds stale; the conditional update in Reserve stays authoritative.
func (s *RaffleService) GetActiveRaffle(ctx context.Context) (domain.Raffle, error) {
	if data, err := s.cache.Get(ctx, activeRaffleCacheKey); err == nil {
		var raffle domain.Raffle
		if err = json.Unmarshal(data, &raffle); err == nil {
			return raffle, nil
		}
	}

	raffle, err := s.repo.FindActive(ctx)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	s.cacheSet(ctx, activeRaffleCacheKey, raffle, activeRaffleCacheTTL)

	return raffle, nil
}

func (s *RaffleService) GetRaffle(ctx context.Context, raffleID uint) (domain.Raffle, error) {
	raffle, err := s.repo.FindByID(ctx, raffleID)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return raffle, nil
}

// GetTickets returns all tickets of a raffle ordered by number. The unfiltered
// set is cached briefly to keep the public grid cheap to render.
func (s *RaffleService) GetTickets(ctx context.Context, raffleID uint, status string) ([]domain.Ticket, error) {
	if status != "" {
		tickets, err := s.tickets.FindByRaffleIDAndStatus(ctx, raffleID, status)
		if err != nil {
			return nil, fmt.Errorf("s.tickets.FindByRaffleIDAndStatus -> %w", err)
		}

		return tickets, nil
	}

	key := ticketsCacheKey(raffleID)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var tickets []domain.Ticket
		if err = json.Unmarshal(data, &tickets); err == nil {
			return tickets, nil
		}
	}

	tickets, err := s.tickets.FindByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("s.tickets.FindByRaffleID -> %w", err)
	}

	s.cacheSet(ctx, key, tickets, ticketsCacheTTL)

	return tickets, nil
}

// GetSummary projects counts, availability and revenue from the current
// ticket set. Recomputed on every call.
func (s *RaffleService) GetSummary(ctx context.Context, raffleID uint) (domain.RaffleSummary, error) {
	raffle, err := s.repo.FindByID(ctx, raffleID)
	if err != nil {
		return domain.RaffleSummary{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	tickets, err := s.tickets.FindByRaffleID(ctx, raffleID)
	if err != nil {
		return domain.RaffleSummary{}, fmt.Errorf("s.tickets.FindByRaffleID -> %w", err)
	}

	return domain.Summarize(tickets, raffle.Price), nil
}

// Reserve transitions each requested number available -> reserved through a
// conditional update, and reports which numbers were lost to a concurrent
// buyer instead of silently skipping them.
func (s *RaffleService) Reserve(ctx context.Context, raffleID uint, numbers []int, buyerName, buyerPhone, proofURL string) (domain.ReservationResult, error) {
	timer := metrics.NewReserveTimer()

	raffle, err := s.repo.FindByID(ctx, raffleID)
	if err != nil {
		timer.Done("error")
		return domain.ReservationResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !raffle.IsActive() {
		timer.Done("error")
		return domain.ReservationResult{}, ErrRaffleNotActive
	}

	if len(numbers) == 0 {
		timer.Done("error")
		return domain.ReservationResult{}, ErrNoNumbersSelected
	}
	for _, number := range numbers {
		if number < 1 || number > raffle.TotalNumbers {
			timer.Done("error")
			return domain.ReservationResult{}, fmt.Errorf("%w: %d", ErrNumberOutOfRange, number)
		}
	}

	result := domain.ReservationResult{
		Reserved:   []int{},
		Conflicted: []int{},
	}
	now := time.Now().UTC()

	for _, number := range numbers {
		won, err := s.tickets.Reserve(ctx, raffleID, number, buyerName, buyerPhone, proofURL, now)
		if err != nil {
			timer.Done("error")
			return result, fmt.Errorf("s.tickets.Reserve -> %w", err)
		}

		if won {
			result.Reserved = append(result.Reserved, number)
		} else {
			result.Conflicted = append(result.Conflicted, number)
		}
	}

	metrics.ReservedTickets.Add(float64(len(result.Reserved)))
	metrics.ConflictedTickets.Add(float64(len(result.Conflicted)))
	if len(result.Conflicted) > 0 {
		zap.L().Info("reservation lost numbers to concurrent buyers",
			zap.Uint("raffle_id", raffleID),
			zap.Ints("conflicted", result.Conflicted))
	}

	s.invalidateRaffle(ctx, raffleID)
	timer.Done("success")

	return result, nil
}

// ConfirmTicket marks a single reservation as paid. Idempotent when the
// ticket is already confirmed.
func (s *RaffleService) ConfirmTicket(ctx context.Context, ticketID uint) (domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.FindByID -> %w", err)
	}

	if err = s.tickets.Confirm(ctx, ticketID, time.Now().UTC()); err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.Confirm -> %w", err)
	}

	s.invalidateRaffle(ctx, ticket.RaffleID)

	confirmed, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.FindByID -> %w", err)
	}

	return confirmed, nil
}

// RejectTicket discards a pending reservation, releasing the number and
// clearing every buyer field.
func (s *RaffleService) RejectTicket(ctx context.Context, ticketID uint) (domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.FindByID -> %w", err)
	}

	if err = s.tickets.Reject(ctx, ticketID); err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.Reject -> %w", err)
	}

	s.invalidateRaffle(ctx, ticket.RaffleID)

	released, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.FindByID -> %w", err)
	}

	return released, nil
}

// ConfirmBulk confirms each ticket in the list. Each update is atomic on its
// own; the whole operation is not, so the processed count is returned even
// when a later update fails.
func (s *RaffleService) ConfirmBulk(ctx context.Context, ticketIDs []uint) (int, error) {
	processed := 0
	for _, id := range ticketIDs {
		if _, err := s.ConfirmTicket(ctx, id); err != nil {
			return processed, fmt.Errorf("s.ConfirmTicket(%d) -> %w", id, err)
		}
		processed++
	}

	return processed, nil
}

// RejectBulk rejects each ticket in the list with the same partial-application
// semantics as ConfirmBulk.
func (s *RaffleService) RejectBulk(ctx context.Context, ticketIDs []uint) (int, error) {
	processed := 0
	for _, id := range ticketIDs {
		if _, err := s.RejectTicket(ctx, id); err != nil {
			return processed, fmt.Errorf("s.RejectTicket(%d) -> %w", id, err)
		}
		processed++
	}

	return processed, nil
}

// ConfirmManual confirms a number directly, bypassing reservation and proof,
// for buyers who paid in person. The update is conditional on the number
// still being available so it cannot clobber a concurrent reservation.
func (s *RaffleService) ConfirmManual(ctx context.Context, raffleID uint, number int, buyerName string) (domain.Ticket, error) {
	raffle, err := s.repo.FindByID(ctx, raffleID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !raffle.IsActive() {
		return domain.Ticket{}, ErrRaffleNotActive
	}
	if number < 1 || number > raffle.TotalNumbers {
		return domain.Ticket{}, fmt.Errorf("%w: %d", ErrNumberOutOfRange, number)
	}

	won, err := s.tickets.ConfirmByNumber(ctx, raffleID, number, buyerName, time.Now().UTC())
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.ConfirmByNumber -> %w", err)
	}
	if !won {
		return domain.Ticket{}, ErrNumberUnavailable
	}

	s.invalidateRaffle(ctx, raffleID)

	ticket, err := s.tickets.FindByRaffleIDAndNumber(ctx, raffleID, number)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.FindByRaffleIDAndNumber -> %w", err)
	}

	return ticket, nil
}

// DrawWinner picks one ticket uniformly at random among the confirmed ones,
// records its number on the raffle and finishes it. A finished raffle can
// never be drawn again.
func (s *RaffleService) DrawWinner(ctx context.Context, raffleID uint) (domain.Ticket, error) {
	raffle, err := s.repo.FindByID(ctx, raffleID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if raffle.IsFinished() {
		return domain.Ticket{}, ErrRaffleNotActive
	}

	confirmed, err := s.tickets.FindByRaffleIDAndStatus(ctx, raffleID, domain.TicketStatusConfirmed)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.FindByRaffleIDAndStatus -> %w", err)
	}
	if len(confirmed) == 0 {
		return domain.Ticket{}, ErrNoConfirmedTickets
	}

	winner := confirmed[s.randIntn(len(confirmed))]

	if err = s.repo.SetWinner(ctx, raffleID, winner.Number); err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.SetWinner -> %w", err)
	}

	metrics.DrawsTotal.Inc()
	zap.L().Info("raffle winner drawn",
		zap.Uint("raffle_id", raffleID),
		zap.Int("winner_number", winner.Number))

	s.invalidateRaffle(ctx, raffleID)

	return winner, nil
}

// GetWinnerTicket returns the winning ticket of a finished raffle.
func (s *RaffleService) GetWinnerTicket(ctx context.Context, raffleID uint) (domain.Ticket, error) {
	raffle, err := s.repo.FindByID(ctx, raffleID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if raffle.WinnerNumber == nil {
		return domain.Ticket{}, ErrNoWinnerYet
	}

	ticket, err := s.tickets.FindByRaffleIDAndNumber(ctx, raffleID, *raffle.WinnerNumber)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.tickets.FindByRaffleIDAndNumber -> %w", err)
	}

	return ticket, nil
}

func ticketsCacheKey(raffleID uint) string {
	return fmt.Sprintf("raffle:%d:tickets", raffleID)
}

func (s *RaffleService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err = s.cache.Set(ctx, key, data, ttl); err != nil {
		zap.L().Warn("failed to populate cache", zap.String("key", key), zap.Error(err))
	}
}

// invalidateRaffle drops the cached entries touched by a mutation so the next
// public read sees fresh state.
func (s *RaffleService) invalidateRaffle(ctx context.Context, raffleID uint) {
	for _, key := range []string{activeRaffleCacheKey, ticketsCacheKey(raffleID)} {
		if err := s.cache.Delete(ctx, key); err != nil {
			zap.L().Warn("failed to invalidate cache", zap.String("key", key), zap.Error(err))
		}
	}
}
