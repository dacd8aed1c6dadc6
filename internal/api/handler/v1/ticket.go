package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rifaamiga/raffle-api/internal/api/handler/v1/request"
	"github.com/rifaamiga/raffle-api/internal/api/handler/v1/response"
	"github.com/rifaamiga/raffle-api/internal/domain"
	"github.com/rifaamiga/raffle-api/internal/service"
)

type TicketService interface {
	ConfirmTicket(ctx context.Context, ticketID uint) (domain.Ticket, error)
	RejectTicket(ctx context.Context, ticketID uint) (domain.Ticket, error)
	ConfirmBulk(ctx context.Context, ticketIDs []uint) (int, error)
	RejectBulk(ctx context.Context, ticketIDs []uint) (int, error)
	ConfirmManual(ctx context.Context, raffleID uint, number int, buyerName string) (domain.Ticket, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{
		svc: svc,
	}
}

// HandleConfirmTicket godoc
// @Summary      Confirm payment of a reserved ticket
// @Tags         tickets
// @Produce      json
// @Param        ticketID  path  int  true  "Ticket ID"
// @Success      200  {object}  domain.Ticket
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets/{ticketID}/confirm [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleConfirmTicket(ctx *gin.Context) {
	ticketID, ok := parseTicketID(ctx)
	if !ok {
		return
	}

	ticket, err := h.svc.ConfirmTicket(ctx.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "id", ticketID))

			return
		}

		err = fmt.Errorf("v1.HandleConfirmTicket -> h.svc.ConfirmTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleRejectTicket godoc
// @Summary      Reject a reservation, releasing the number
// @Tags         tickets
// @Produce      json
// @Param        ticketID  path  int  true  "Ticket ID"
// @Success      200  {object}  domain.Ticket
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets/{ticketID}/reject [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleRejectTicket(ctx *gin.Context) {
	ticketID, ok := parseTicketID(ctx)
	if !ok {
		return
	}

	ticket, err := h.svc.RejectTicket(ctx.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "id", ticketID))

			return
		}

		err = fmt.Errorf("v1.HandleRejectTicket -> h.svc.RejectTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleConfirmBulk godoc
// @Summary      Confirm a list of reserved tickets
// @Description  Each ticket update is atomic on its own; the list as a whole is not. The processed count is returned even on partial application.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        raffleID  path  int                         true  "Raffle ID"
// @Param        request   body  request.BulkTicketsRequest  true  "Ticket IDs"
// @Success      200  {object}  response.BulkResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/tickets/confirm-bulk [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleConfirmBulk(ctx *gin.Context) {
	req, ok := bindBulkRequest(ctx)
	if !ok {
		return
	}

	processed, err := h.svc.ConfirmBulk(ctx.Request.Context(), req.TicketIDs)
	if err != nil {
		err = fmt.Errorf("v1.HandleConfirmBulk -> h.svc.ConfirmBulk -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.BulkResponse{Processed: processed})
}

// HandleRejectBulk godoc
// @Summary      Reject a list of reserved tickets
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        raffleID  path  int                         true  "Raffle ID"
// @Param        request   body  request.BulkTicketsRequest  true  "Ticket IDs"
// @Success      200  {object}  response.BulkResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/tickets/reject-bulk [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleRejectBulk(ctx *gin.Context) {
	req, ok := bindBulkRequest(ctx)
	if !ok {
		return
	}

	processed, err := h.svc.RejectBulk(ctx.Request.Context(), req.TicketIDs)
	if err != nil {
		err = fmt.Errorf("v1.HandleRejectBulk -> h.svc.RejectBulk -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.BulkResponse{Processed: processed})
}

// HandleConfirmManual godoc
// @Summary      Confirm a number directly for an in-person payment
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        raffleID  path  int                           true  "Raffle ID"
// @Param        request   body  request.ConfirmManualRequest  true  "Number and buyer name"
// @Success      200  {object}  domain.Ticket
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/tickets/confirm-manual [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleConfirmManual(ctx *gin.Context) {
	raffleID, ok := parseRaffleID(ctx)
	if !ok {
		return
	}

	var req request.ConfirmManualRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticket, err := h.svc.ConfirmManual(ctx.Request.Context(), raffleID, req.Number, req.BuyerName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))
		case errors.Is(err, service.ErrRaffleNotActive):
			response.RenderErr(ctx, response.ErrPreconditionFailed(service.ErrRaffleNotActive))
		case errors.Is(err, service.ErrNumberOutOfRange):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrNumberUnavailable):
			ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": service.ErrNumberUnavailable.Error()})
		default:
			err = fmt.Errorf("v1.HandleConfirmManual -> h.svc.ConfirmManual -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

func bindBulkRequest(ctx *gin.Context) (request.BulkTicketsRequest, bool) {
	var req request.BulkTicketsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return req, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return req, false
	}

	return req, true
}

func parseTicketID(ctx *gin.Context) (uint, bool) {
	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ticket ID: %w", err)))

		return 0, false
	}

	return uint(ticketID), true
}
