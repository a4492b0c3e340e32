package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/paygate/payment-gateway/internal/payment/application"
	"github.com/paygate/payment-gateway/internal/payment/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("payment-http"),
	}
}

type createPaymentReq struct {
	CardNumber  string `json:"card_number"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	Cvv         string `json:"cvv"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
}

type rejectedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/payments", h.createPayment)
	r.Get("/payments/{id}", h.getPayment)
	r.Get("/healthz", h.healthz)

	return r
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreatePayment")
	defer span.End()

	var req createPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	proj, err := h.service.CreatePayment(ctx, application.CreatePaymentInput{
		CardNumber:  req.CardNumber,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		Cvv:         req.Cvv,
		Currency:    req.Currency,
		Amount:      req.Amount,
	})

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, rejectedResponse{
			Status:  domain.StatusRejected.String(),
			Message: verr.Message,
		})
	case errors.Is(err, application.ErrBankUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Message: "acquiring bank unavailable"})
	case err != nil:
		h.log.Error("create payment failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	default:
		writeJSON(w, http.StatusOK, proj)
	}
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetPayment")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "payment not found"})
		return
	}

	proj, err := h.service.GetPayment(ctx, id)
	switch {
	case errors.Is(err, application.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "payment not found"})
	case err != nil:
		h.log.Error("get payment failed", "payment_id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	default:
		writeJSON(w, http.StatusOK, proj)
	}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
