package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rifaamiga/raffle-api/internal/api/handler/v1/response"
	"github.com/rifaamiga/raffle-api/internal/domain"
	"github.com/rifaamiga/raffle-api/internal/service"
)

type stubTicketService struct {
	confirmTicket func(ctx context.Context, ticketID uint) (domain.Ticket, error)
	rejectTicket  func(ctx context.Context, ticketID uint) (domain.Ticket, error)
	confirmBulk   func(ctx context.Context, ticketIDs []uint) (int, error)
	rejectBulk    func(ctx context.Context, ticketIDs []uint) (int, error)
	confirmManual func(ctx context.Context, raffleID uint, number int, buyerName string) (domain.Ticket, error)
}

func (s *stubTicketService) ConfirmTicket(ctx context.Context, ticketID uint) (domain.Ticket, error) {
	return s.confirmTicket(ctx, ticketID)
}

func (s *stubTicketService) RejectTicket(ctx context.Context, ticketID uint) (domain.Ticket, error) {
	return s.rejectTicket(ctx, ticketID)
}

func (s *stubTicketService) ConfirmBulk(ctx context.Context, ticketIDs []uint) (int, error) {
	return s.confirmBulk(ctx, ticketIDs)
}

func (s *stubTicketService) RejectBulk(ctx context.Context, ticketIDs []uint) (int, error) {
	return s.rejectBulk(ctx, ticketIDs)
}

func (s *stubTicketService) ConfirmManual(ctx context.Context, raffleID uint, number int, buyerName string) (domain.Ticket, error) {
	return s.confirmManual(ctx, raffleID, number, buyerName)
}

func newTicketRouter(svc *stubTicketService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewTicketHandler(svc)
	router := gin.New()
	router.POST("/tickets/:ticketID/confirm", handler.HandleConfirmTicket)
	router.POST("/tickets/:ticketID/reject", handler.HandleRejectTicket)
	router.POST("/raffles/:raffleID/tickets/confirm-bulk", handler.HandleConfirmBulk)
	router.POST("/raffles/:raffleID/tickets/reject-bulk", handler.HandleRejectBulk)
	router.POST("/raffles/:raffleID/tickets/confirm-manual", handler.HandleConfirmManual)

	return router
}

func TestHandleConfirmTicket(t *testing.T) {
	t.Run("confirms the ticket", func(t *testing.T) {
		svc := &stubTicketService{
			confirmTicket: func(_ context.Context, ticketID uint) (domain.Ticket, error) {
				assert.Equal(t, uint(12), ticketID)
				return domain.Ticket{ID: 12, Status: domain.TicketStatusConfirmed}, nil
			},
		}
		router := newTicketRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tickets/12/confirm", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("404 on unknown ticket", func(t *testing.T) {
		svc := &stubTicketService{
			confirmTicket: func(context.Context, uint) (domain.Ticket, error) {
				return domain.Ticket{}, service.ErrTicketNotFound
			},
		}
		router := newTicketRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tickets/99/confirm", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("400 on a malformed ticket ID", func(t *testing.T) {
		router := newTicketRouter(&stubTicketService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tickets/abc/confirm", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleConfirmBulk(t *testing.T) {
	t.Run("returns the processed count", func(t *testing.T) {
		svc := &stubTicketService{
			confirmBulk: func(_ context.Context, ticketIDs []uint) (int, error) {
				assert.Equal(t, []uint{1, 2, 3}, ticketIDs)
				return 3, nil
			},
		}
		router := newTicketRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/raffles/1/tickets/confirm-bulk", strings.NewReader(`{"ticket_ids":[1,2,3]}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp response.BulkResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Processed)
	})

	t.Run("rejects an empty list", func(t *testing.T) {
		router := newTicketRouter(&stubTicketService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/raffles/1/tickets/confirm-bulk", strings.NewReader(`{"ticket_ids":[]}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleConfirmManual(t *testing.T) {
	t.Run("confirms the number", func(t *testing.T) {
		svc := &stubTicketService{
			confirmManual: func(_ context.Context, raffleID uint, number int, buyerName string) (domain.Ticket, error) {
				assert.Equal(t, uint(1), raffleID)
				assert.Equal(t, 7, number)
				assert.Equal(t, "Carlos", buyerName)
				return domain.Ticket{Number: 7, Status: domain.TicketStatusConfirmed, BuyerName: "Carlos"}, nil
			},
		}
		router := newTicketRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/raffles/1/tickets/confirm-manual", strings.NewReader(`{"number":7,"buyer_name":"Carlos"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("409 when the number was taken in the meantime", func(t *testing.T) {
		svc := &stubTicketService{
			confirmManual: func(context.Context, uint, int, string) (domain.Ticket, error) {
				return domain.Ticket{}, service.ErrNumberUnavailable
			},
		}
		router := newTicketRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/raffles/1/tickets/confirm-manual", strings.NewReader(`{"number":7,"buyer_name":"Carlos"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("400 on an out-of-range number", func(t *testing.T) {
		svc := &stubTicketService{
			confirmManual: func(context.Context, uint, int, string) (domain.Ticket, error) {
				return domain.Ticket{}, service.ErrNumberOutOfRange
			},
		}
		router := newTicketRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/raffles/1/tickets/confirm-manual", strings.NewReader(`{"number":5000,"buyer_name":"Carlos"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
