package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/avdeenkov/homebook-checkout/internal/checkout"
	"github.com/avdeenkov/homebook-checkout/internal/domain"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	service checkout.CheckoutUseCase
}

func NewCheckoutHandler(service checkout.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

func (h *CheckoutHandler) Register(router *gin.RouterGroup) {
	router.POST("/sessions", h.start)
	router.GET("/sessions/:id", h.get)
	router.PUT("/sessions/:id/form", h.updateForm)
	router.POST("/sessions/:id/advance", h.advance)
	router.POST("/sessions/:id/retreat", h.retreat)
	router.POST("/sessions/:id/pay", h.pay)
	router.POST("/sessions/:id/dismiss-cancellation", h.dismissCancellation)
	router.GET("/return", h.returnTrip)
}

type startSessionRequest struct {
	CartKey string `json:"cart_key"`
}

type sessionResponse struct {
	ID            string              `json:"id"`
	Step          string              `json:"step"`
	Form          domain.CheckoutForm `json:"form"`
	Authenticated bool                `json:"authenticated"`
	CancelNotice  bool                `json:"cancel_notice"`
	Confirmed     bool                `json:"confirmed"`
	BookingID     string              `json:"booking_id,omitempty"`
}

func toSessionResponse(s *domain.CheckoutSession) sessionResponse {
	resp := sessionResponse{
		ID:            s.ID,
		Step:          string(s.Step),
		Form:          s.Form,
		Authenticated: s.Authenticated(),
		CancelNotice:  s.CancelNotice,
		Confirmed:     s.Confirmed,
		BookingID:     s.BookingID,
	}
	resp.Form.Password = ""
	return resp
}

func (h *CheckoutHandler) start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.service.Start(c.Request.Context(), bearerToken(c), req.CartKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(session))
}

func (h *CheckoutHandler) get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *CheckoutHandler) updateForm(c *gin.Context) {
	var form domain.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.service.UpdateForm(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *CheckoutHandler) advance(c *gin.Context) {
	session, err := h.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *CheckoutHandler) retreat(c *gin.Context) {
	session, err := h.service.Retreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *CheckoutHandler) pay(c *gin.Context) {
	redirectURL, err := h.service.Pay(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect_url": redirectURL})
}

func (h *CheckoutHandler) dismissCancellation(c *gin.Context) {
	session, err := h.service.DismissCancellation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

// returnTrip is the URL the external payment page redirects back to.
// The outcome comes purely from the query flags.
func (h *CheckoutHandler) returnTrip(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	outcome := domain.ParseOutcome(c.Request.URL.Query())
	session, err := h.service.Reconcile(c.Request.Context(), sessionID, outcome)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func respondError(c *gin.Context, err error) {
	var (
		authErr *domain.AuthError
		initErr *domain.InitiationError
	)
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateAccount):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &initErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
