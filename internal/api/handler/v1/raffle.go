package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rifaamiga/raffle-api/internal/api/handler/v1/request"
	"github.com/rifaamiga/raffle-api/internal/api/handler/v1/response"
	"github.com/rifaamiga/raffle-api/internal/domain"
	"github.com/rifaamiga/raffle-api/internal/service"
	"github.com/rifaamiga/raffle-api/internal/storage"
)

type RaffleService interface {
	CreateRaffle(ctx context.Context, input service.CreateRaffleInput) (domain.Raffle, error)
	UpdateRaffle(ctx context.Context, raffleID uint, patch domain.RafflePatch) (domain.Raffle, error)
	GetActiveRaffle(ctx context.Context) (domain.Raffle, error)
	GetRaffle(ctx context.Context, raffleID uint) (domain.Raffle, error)
	GetTickets(ctx context.Context, raffleID uint, status string) ([]domain.Ticket, error)
	GetSummary(ctx context.Context, raffleID uint) (domain.RaffleSummary, error)
	Reserve(ctx context.Context, raffleID uint, numbers []int, buyerName, buyerPhone, proofURL string) (domain.ReservationResult, error)
	GetWinnerTicket(ctx context.Context, raffleID uint) (domain.Ticket, error)
	DrawWinner(ctx context.Context, raffleID uint) (domain.Ticket, error)
}

type RaffleHandler struct {
	svc    RaffleService
	proofs storage.Store
}

func NewRaffleHandler(svc RaffleService, proofs storage.Store) *RaffleHandler {
	return &RaffleHandler{
		svc:    svc,
		proofs: proofs,
	}
}

// HandleGetActiveRaffle godoc
// @Summary      Get the currently active raffle
// @Tags         raffles
// @Produce      json
// @Success      200  {object}  domain.Raffle
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/active [get]
func (h *RaffleHandler) HandleGetActiveRaffle(ctx *gin.Context) {
	raffle, err := h.svc.GetActiveRaffle(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "status", "active"))

			return
		}

		err = fmt.Errorf("v1.HandleGetActiveRaffle -> h.svc.GetActiveRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleGetTickets godoc
// @Summary      List tickets of a raffle ordered by number
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path   int     true   "Raffle ID"
// @Param        status    query  string  false  "Filter by status (available, reserved, confirmed)"
// @Success      200  {array}   domain.Ticket
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/tickets [get]
func (h *RaffleHandler) HandleGetTickets(ctx *gin.Context) {
	raffleID, ok := parseRaffleID(ctx)
	if !ok {
		return
	}

	status := ctx.Query("status")
	switch status {
	case "", domain.TicketStatusAvailable, domain.TicketStatusReserved, domain.TicketStatusConfirmed:
	default:
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid status filter: %q", status)))

		return
	}

	tickets, err := h.svc.GetTickets(ctx.Request.Context(), raffleID, status)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTickets -> h.svc.GetTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetSummary godoc
// @Summary      Get sales counts, availability and revenue for a raffle
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path  int  true  "Raffle ID"
// @Success      200  {object}  domain.RaffleSummary
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/summary [get]
func (h *RaffleHandler) HandleGetSummary(ctx *gin.Context) {
	raffleID, ok := parseRaffleID(ctx)
	if !ok {
		return
	}

	summary, err := h.svc.GetSummary(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))

			return
		}

		err = fmt.Errorf("v1.HandleGetSummary -> h.svc.GetSummary -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// HandleGetWinner godoc
// @Summary      Get the winning ticket of a finished raffle
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path  int  true  "Raffle ID"
// @Success      200  {object}  response.WinnerResponse
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/winner [get]
func (h *RaffleHandler) HandleGetWinner(ctx *gin.Context) {
	raffleID, ok := parseRaffleID(ctx)
	if !ok {
		return
	}

	winner, err := h.svc.GetWinnerTicket(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) || errors.Is(err, service.ErrNoWinnerYet) {
			response.RenderErr(ctx, response.ErrNotFound("winner", "raffleID", raffleID))

			return
		}

		err = fmt.Errorf("v1.HandleGetWinner -> h.svc.GetWinnerTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewWinnerResponse(winner))
}

// HandleReserve godoc
// @Summary      Reserve numbers for a buyer
// @Description  Multipart form: numbers (comma separated), buyer_name, buyer_phone and a proof image. Numbers already taken are reported back as conflicted.
// @Tags         raffles
// @Accept       mpfd
// @Produce      json
// @Param        raffleID     path      int     true  "Raffle ID"
// @Param        numbers      formData  string  true  "Comma separated ticket numbers"
// @Param        buyer_name   formData  string  true  "Buyer full name"
// @Param        buyer_phone  formData  string  true  "Buyer phone"
// @Param        proof        formData  file    true  "Payment proof image"
// @Success      201  {object}  response.ReservationResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      412  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/reservations [post]
func (h *RaffleHandler) HandleReserve(ctx *gin.Context) {
	raffleID, ok := parseRaffleID(ctx)
	if !ok {
		return
	}

	numbers, err := parseNumbers(ctx.PostForm("numbers"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	req := request.ReserveRequest{
		Numbers:    numbers,
		BuyerName:  strings.TrimSpace(ctx.PostForm("buyer_name")),
		BuyerPhone: strings.TrimSpace(ctx.PostForm("buyer_phone")),
	}
	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	fileHeader, err := ctx.FormFile("proof")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("payment proof image is required")))

		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		err = fmt.Errorf("v1.HandleReserve -> fileHeader.Open -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}
	defer file.Close()

	proofURL, err := h.saveProof(ctx, raffleID, req.Numbers[0], fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrTooLarge) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleReserve -> h.saveProof -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	result, err := h.svc.Reserve(ctx.Request.Context(), raffleID, req.Numbers, req.BuyerName, req.BuyerPhone, proofURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))
		case errors.Is(err, service.ErrRaffleNotActive):
			response.RenderErr(ctx, response.ErrPreconditionFailed(service.ErrRaffleNotActive))
		case errors.Is(err, service.ErrNoNumbersSelected), errors.Is(err, service.ErrNumberOutOfRange):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleReserve -> h.svc.Reserve -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, response.ReservationResponse{
		Reserved:   result.Reserved,
		Conflicted: result.Conflicted,
		ProofURL:   proofURL,
	})
}

// HandleCreateRaffle godoc
// @Summary      Create a raffle and its full ticket set
// @Tags         raffles
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateRaffleRequest  true  "Raffle details"
// @Success      201  {object}  domain.Raffle
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      412  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleCreateRaffle(ctx *gin.Context) {
	var req request.CreateRaffleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	raffle, err := h.svc.CreateRaffle(ctx.Request.Context(), service.CreateRaffleInput{
		Title:        req.Title,
		Description:  req.Description,
		TotalNumbers: req.TotalNumbers,
		Price:        req.Price,
		PixName:      req.PixName,
		PixKey:       req.PixKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActiveRaffleExists):
			response.RenderErr(ctx, response.ErrPreconditionFailed(service.ErrActiveRaffleExists))
		case errors.Is(err, service.ErrMissingTitle),
			errors.Is(err, service.ErrMissingPixKey),
			errors.Is(err, service.ErrInvalidTotalNumbers),
			errors.Is(err, service.ErrInvalidPrice):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateRaffle -> h.svc.CreateRaffle -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, raffle)
}

// HandleUpdateRaffle godoc
// @Summary      Update display fields of the active raffle
// @Tags         raffles
// @Accept       json
// @Produce      json
// @Param        raffleID  path      int                          true  "Raffle ID"
// @Param        request   body      request.UpdateRaffleRequest  true  "Fields to update"
// @Success      200  {object}  domain.Raffle
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      412  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID} [patch]
// @Security     BearerAuth
func (h *RaffleHandler) HandleUpdateRaffle(ctx *gin.Context) {
	raffleID, ok := parseRaffleID(ctx)
	if !ok {
		return
	}

	var req request.UpdateRaffleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	raffle, err := h.svc.UpdateRaffle(ctx.Request.Context(), raffleID, domain.RafflePatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		PixName:     req.PixName,
		PixKey:      req.PixKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotActive):
			response.RenderErr(ctx, response.ErrPreconditionFailed(service.ErrRaffleNotActive))
		case errors.Is(err, service.ErrEmptyPatch), errors.Is(err, service.ErrInvalidPrice):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateRaffle -> h.svc.UpdateRaffle -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleDrawWinner godoc
// @Summary      Draw the winning number among confirmed tickets
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path  int  true  "Raffle ID"
// @Success      200  {object}  response.WinnerResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      412  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/draw [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleDrawWinner(ctx *gin.Context) {
	raffleID, ok := parseRaffleID(ctx)
	if !ok {
		return
	}

	winner, err := h.svc.DrawWinner(ctx.Request.Context(), raffleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "id", raffleID))
		case errors.Is(err, service.ErrRaffleNotActive), errors.Is(err, service.ErrNoConfirmedTickets):
			response.RenderErr(ctx, response.ErrPreconditionFailed(err))
		default:
			err = fmt.Errorf("v1.HandleDrawWinner -> h.svc.DrawWinner -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.NewWinnerResponse(winner))
}

func (h *RaffleHandler) saveProof(ctx *gin.Context, raffleID uint, firstNumber int, filename, contentType string, size int64, file io.Reader) (string, error) {
	return h.proofs.Save(ctx.Request.Context(), raffleID, firstNumber, filename, contentType, size, file)
}

func parseRaffleID(ctx *gin.Context) (uint, bool) {
	raffleID, err := strconv.ParseUint(ctx.Param("raffleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid raffle ID: %w", err)))

		return 0, false
	}

	return uint(raffleID), true
}

func parseNumbers(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("no numbers selected")
	}

	parts := strings.Split(raw, ",")
	numbers := make([]int, 0, len(parts))
	seen := make(map[int]struct{}, len(parts))

	for _, part := range parts {
		number, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", strings.TrimSpace(part))
		}
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}
		numbers = append(numbers, number)
	}

	return numbers, nil
}
