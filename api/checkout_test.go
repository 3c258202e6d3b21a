package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCheckoutUseCase is a mock implementation of checkout.CheckoutUseCase
type MockCheckoutUseCase struct {
	mock.Mock
}

func (m *MockCheckoutUseCase) Start(ctx context.Context, bearer, cartKey string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, bearer, cartKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutUseCase) Get(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutUseCase) UpdateForm(ctx context.Context, id string, form domain.CheckoutForm) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, id, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutUseCase) Advance(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutUseCase) Retreat(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutUseCase) Pay(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockCheckoutUseCase) Reconcile(ctx context.Context, id string, outcome domain.PaymentOutcome) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, id, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutUseCase) DismissCancellation(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func newTestRouter(service *MockCheckoutUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewCheckoutHandler(service).Register(router.Group("/checkout"))
	return router
}

func TestCheckoutHandler_start(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	router := newTestRouter(mockService)

	session := &domain.CheckoutSession{ID: "s-1", Step: domain.StepDetails}
	mockService.On("Start", mock.Anything, "tok-1", "ck-1").Return(session, nil)

	body, _ := json.Marshal(startSessionRequest{CartKey: "ck-1"})
	req := httptest.NewRequest("POST", "/checkout/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp sessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s-1", resp.ID)
	assert.Equal(t, "DETAILS", resp.Step)
}

func TestCheckoutHandler_advanceValidationError(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Advance", mock.Anything, "s-1").
		Return(nil, domain.NewValidationError("please fill in your name, email and password"))

	req := httptest.NewRequest("POST", "/checkout/sessions/s-1/advance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name, email and password")
}

func TestCheckoutHandler_payDuplicateAccount(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Pay", mock.Anything, "s-1").Return("", domain.ErrDuplicateAccount)

	req := httptest.NewRequest("POST", "/checkout/sessions/s-1/pay", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutHandler_pay(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Pay", mock.Anything, "s-1").Return("https://pay.example/cs_1", nil)

	req := httptest.NewRequest("POST", "/checkout/sessions/s-1/pay", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://pay.example/cs_1")
}

func TestCheckoutHandler_returnTripSuccess(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	router := newTestRouter(mockService)

	confirmed := &domain.CheckoutSession{ID: "s-1", Step: domain.StepPayment, Confirmed: true, BookingID: "bk_1"}
	mockService.On("Reconcile", mock.Anything, "s-1", domain.OutcomeSuccess).Return(confirmed, nil)

	req := httptest.NewRequest("GET", "/checkout/return?session_id=s-1&success=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp sessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Confirmed)
	assert.Equal(t, "bk_1", resp.BookingID)
}

func TestCheckoutHandler_returnTripCanceled(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	router := newTestRouter(mockService)

	canceled := &domain.CheckoutSession{ID: "s-1", Step: domain.StepPayment, CancelNotice: true}
	mockService.On("Reconcile", mock.Anything, "s-1", domain.OutcomeCanceled).Return(canceled, nil)

	req := httptest.NewRequest("GET", "/checkout/return?session_id=s-1&canceled=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp sessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.CancelNotice)
	assert.Equal(t, "PAYMENT", resp.Step)
}

func TestCheckoutHandler_returnTripRequiresSession(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	router := newTestRouter(mockService)

	req := httptest.NewRequest("GET", "/checkout/return?success=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_getNotFound(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Get", mock.Anything, "missing").Return(nil, domain.ErrSessionNotFound)

	req := httptest.NewRequest("GET", "/checkout/sessions/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutHandler_passwordNeverEchoed(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	router := newTestRouter(mockService)

	session := &domain.CheckoutSession{
		ID:   "s-1",
		Step: domain.StepDetails,
		Form: domain.CheckoutForm{Name: "Jane", Password: "secret123"},
	}
	mockService.On("Get", mock.Anything, "s-1").Return(session, nil)

	req := httptest.NewRequest("GET", "/checkout/sessions/s-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret123")
}
