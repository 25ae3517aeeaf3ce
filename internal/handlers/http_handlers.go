package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"rafflehub/internal/events"
	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CallerHeader = "X-Caller"
	callerKey    = "caller"
)

// IdentityResolver turns the gateway supplied caller into an account id.
type IdentityResolver func(string) (raffle.AccountID, error)

// PlainIdentity accepts any non-empty identity as is.
func PlainIdentity(value string) (raffle.AccountID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("empty identity")
	}
	return raffle.AccountID(value), nil
}

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	engine      *raffle.Engine
	hub         *events.Hub
	identity    IdentityResolver
	directSales bool
}

// NewHTTPHandler builds the handler. directSales exposes ticket purchases
// that take the payment from the request body; it is only safe when the
// ledger holds no deposits, otherwise tickets are sold by the tracker from
// verified on-chain payments.
func NewHTTPHandler(engine *raffle.Engine, hub *events.Hub, identity IdentityResolver, directSales bool) *HTTPHandler {
	if identity == nil {
		identity = PlainIdentity
	}
	return &HTTPHandler{
		engine:      engine,
		hub:         hub,
		identity:    identity,
		directSales: directSales,
	}
}

// RegisterPublicRoutes registers the read-only routes.
func (h *HTTPHandler) RegisterPublicRoutes(router gin.IRouter) {
	router.GET("/raffles/:id", h.GetRaffle)
	router.GET("/raffles/:id/participants", h.GetParticipants)
	router.GET("/raffles/:id/participants/:account", h.HasParticipated)
	router.GET("/platform", h.GetPlatform)
	router.GET("/events", h.StreamEvents)
}

// RegisterCallerRoutes registers the routes acting on behalf of a caller.
// They expect CallerMiddleware in front of them.
func (h *HTTPHandler) RegisterCallerRoutes(router gin.IRouter) {
	router.POST("/raffles", h.CreateRaffle)
	if h.directSales {
		router.POST("/raffles/:id/tickets", h.BuyTicket)
	}
	router.POST("/raffles/:id/close", h.CloseRaffle)
	router.POST("/raffles/:id/claim", h.ClaimPrize)
	router.PUT("/platform/fee-account", h.UpdateFeeAccount)
}

// CallerMiddleware resolves the identity forwarded by the authenticating
// gateway and stores it in the context.
func (h *HTTPHandler) CallerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := h.identity(c.GetHeader(CallerHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "InvalidCaller"})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

func caller(c *gin.Context) raffle.AccountID {
	return c.MustGet(callerKey).(raffle.AccountID)
}

type createRaffleRequest struct {
	Title        string `json:"title" binding:"required"`
	MaxTickets   uint32 `json:"max_tickets"`
	TicketPrice  string `json:"ticket_price" binding:"required"`
	FeePercent   uint8  `json:"fee_percent"`
	StakePercent uint8  `json:"stake_percent"`
}

func (h *HTTPHandler) CreateRaffle(c *gin.Context) {
	var request createRaffleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidParameters"})
		return
	}

	ticketPrice, err := raffle.ParseAmount(request.TicketPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidParameters"})
		return
	}

	raffleID, err := h.engine.CreateRaffle(c.Request.Context(), caller(c), raffle.CreateParams{
		Title:        request.Title,
		MaxTickets:   request.MaxTickets,
		TicketPrice:  ticketPrice,
		FeePercent:   request.FeePercent,
		StakePercent: request.StakePercent,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"raffle_id": raffleID})
}

type buyTicketRequest struct {
	Payment string `json:"payment" binding:"required"`
}

func (h *HTTPHandler) BuyTicket(c *gin.Context) {
	raffleID, ok := raffleIDParam(c)
	if !ok {
		return
	}

	var request buyTicketRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidParameters"})
		return
	}

	// an unparsable payment cannot equal the ticket price
	payment, err := raffle.ParseAmount(request.Payment)
	if err != nil {
		h.fail(c, raffle.ErrInsufficientFunds)
		return
	}

	ticketNumber, err := h.engine.BuyTicket(c.Request.Context(), raffle.Call{Caller: caller(c), Value: payment}, raffleID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket_number": ticketNumber})
}

func (h *HTTPHandler) CloseRaffle(c *gin.Context) {
	raffleID, ok := raffleIDParam(c)
	if !ok {
		return
	}

	winner, err := h.engine.CloseRaffle(c.Request.Context(), caller(c), raffleID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"winner": winner})
}

func (h *HTTPHandler) ClaimPrize(c *gin.Context) {
	raffleID, ok := raffleIDParam(c)
	if !ok {
		return
	}

	prize, err := h.engine.ClaimPrize(c.Request.Context(), caller(c), raffleID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prize_amount": prize})
}

type updateFeeAccountRequest struct {
	FeeAccount string `json:"fee_account" binding:"required"`
}

func (h *HTTPHandler) UpdateFeeAccount(c *gin.Context) {
	var request updateFeeAccountRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidParameters"})
		return
	}

	feeAccount, err := h.identity(request.FeeAccount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidParameters"})
		return
	}

	if err := h.engine.UpdatePlatformFeeAccount(c.Request.Context(), caller(c), feeAccount); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) GetRaffle(c *gin.Context) {
	raffleID, ok := raffleIDParam(c)
	if !ok {
		return
	}

	info, err := h.engine.RaffleInfo(c.Request.Context(), raffleID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if info == nil {
		h.fail(c, raffle.ErrRaffleNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"raffle_id": raffleID, "raffle": info})
}

func (h *HTTPHandler) GetParticipants(c *gin.Context) {
	raffleID, ok := raffleIDParam(c)
	if !ok {
		return
	}

	participants, err := h.engine.RaffleParticipants(c.Request.Context(), raffleID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"raffle_id": raffleID, "participants": participants})
}

func (h *HTTPHandler) HasParticipated(c *gin.Context) {
	raffleID, ok := raffleIDParam(c)
	if !ok {
		return
	}

	account, err := h.identity(c.Param("account"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"participated": false})
		return
	}

	participated, err := h.engine.HasUserParticipated(c.Request.Context(), raffleID, account)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participated": participated})
}

func (h *HTTPHandler) GetPlatform(c *gin.Context) {
	ctx := c.Request.Context()

	authority, err := h.engine.PlatformAuthority(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	feeAccount, err := h.engine.PlatformFeeAccount(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	count, err := h.engine.RaffleCount(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authority":    authority,
		"fee_account":  feeAccount,
		"raffle_count": count,
	})
}

// StreamEvents relays hub events as server-sent events until the client
// goes away.
func (h *HTTPHandler) StreamEvents(c *gin.Context) {
	if h.hub == nil {
		c.Status(http.StatusNotFound)
		return
	}

	ch, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(event.Name(), event)
			return true
		}
	})
}

func raffleIDParam(c *gin.Context) (uint32, bool) {
	raffleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		// ids outside the u32 range can never exist
		c.JSON(http.StatusNotFound, gin.H{"error": "RaffleNotFound"})
		return 0, false
	}
	return uint32(raffleID), true
}

func (h *HTTPHandler) fail(c *gin.Context, err error) {
	kind := raffle.Kind(err)
	if kind == "" {
		logger.Error("http: operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal"})
		return
	}

	c.JSON(statusOf(err), gin.H{"error": kind})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, raffle.ErrRaffleNotFound):
		return http.StatusNotFound
	case errors.Is(err, raffle.ErrOnlyOrganizer),
		errors.Is(err, raffle.ErrOnlyWinner),
		errors.Is(err, raffle.ErrOnlyPlatformAuthority):
		return http.StatusForbidden
	case errors.Is(err, raffle.ErrRaffleClosed),
		errors.Is(err, raffle.ErrNoTicketsAvailable),
		errors.Is(err, raffle.ErrAlreadyParticipated),
		errors.Is(err, raffle.ErrNoPrizeToClaim):
		return http.StatusConflict
	case errors.Is(err, raffle.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, raffle.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
