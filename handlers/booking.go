package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"salon-booking/metrics"
	"salon-booking/models"
	"salon-booking/services"
	"salon-booking/sessions"
	"salon-booking/storage"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"
)

// BookingHandler serves the booking form submission, payment and receipts
type BookingHandler struct {
	service  *services.BookingService
	sessions *sessions.Manager
	bookings *storage.BookingRepository
	metrics  *metrics.Metrics
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(svc *services.BookingService, sm *sessions.Manager, bookings *storage.BookingRepository, m *metrics.Metrics) *BookingHandler {
	return &BookingHandler{
		service:  svc,
		sessions: sm,
		bookings: bookings,
		metrics:  m,
	}
}

// Book handles POST /book - stores the form as the pending draft
func (h *BookingHandler) Book(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logRequest(ctx, "error", "Invalid booking form", zap.Error(err))
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	draft, err := h.service.BuildDraft(ctx, sessions.ID(r), models.DraftForm{
		Fullname: r.PostFormValue("fullName"),
		Email:    r.PostFormValue("email"),
		Phone:    r.PostFormValue("phone"),
		Service:  r.PostFormValue("service"),
		Date:     r.PostFormValue("date"),
		Time:     r.PostFormValue("time"),
		Notes:    r.PostFormValue("notes"),
	})
	switch {
	case err == nil:
		h.metrics.DraftsCreated.Inc()
		logRequest(ctx, "info", "Booking draft stored", zap.String("draft_id", draft.ID), zap.String("service", draft.Service))
		http.Redirect(w, r, "/payment", http.StatusSeeOther)
	case errors.Is(err, services.ErrUnauthenticated):
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashWarning, "Please log in to book an appointment.", "/login")
	case errors.Is(err, services.ErrMissingField):
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashDanger, "Please fill in "+missingField(err)+".", "/dashboard")
	default:
		logRequest(ctx, "error", "Failed to store draft", zap.Error(err))
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashDanger, "Could not save your booking, please try again.", "/dashboard")
	}
}

// PaymentPage handles GET /payment - shows the pending draft
func (h *BookingHandler) PaymentPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.PendingDraft(ctx, sessions.ID(r))
	if errors.Is(err, services.ErrNoDraft) {
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashWarning, "Please book an appointment first.", "/")
		return
	}
	if err != nil {
		serverError(ctx, w, "Failed to load draft", err)
		return
	}

	state, err := loadPage(ctx, h.sessions, w, r)
	if err != nil {
		serverError(ctx, w, "Failed to load session", err)
		return
	}
	if err := render(w, http.StatusOK, "payment", pageData{
		Title:   "Payment",
		User:    state.User,
		Flashes: state.Flashes,
		Draft:   &draft,
	}); err != nil {
		logRequest(ctx, "error", "Failed to render page", zap.Error(err))
	}
}

// Pay handles POST /payment - turns the draft into a booking
func (h *BookingHandler) Pay(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logRequest(ctx, "error", "Invalid payment form", zap.Error(err))
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	booking, err := h.service.Finalize(ctx, sessions.ID(r), models.PaymentForm{
		PaymentMethod: r.PostFormValue("payment_method"),
		TransactionID: r.PostFormValue("transaction_id"),
	})
	switch {
	case err == nil:
		h.metrics.BookingsFinalized.WithLabelValues(metrics.PaymentMethodLabel(booking.PaymentMethod)).Inc()
		logRequest(ctx, "info", "Booking confirmed", zap.Int("booking_id", booking.ID), zap.Int("user_id", booking.UserID))
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashSuccess, "Payment successful! Your appointment is confirmed.", "/")
	case errors.Is(err, services.ErrNoDraft):
		h.metrics.FinalizeFailures.WithLabelValues("no_draft").Inc()
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashWarning, "Please book an appointment first.", "/")
	case errors.Is(err, services.ErrUnauthenticated):
		h.metrics.FinalizeFailures.WithLabelValues("unauthenticated").Inc()
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashWarning, "Please log in to book an appointment.", "/login")
	case errors.Is(err, services.ErrMissingField):
		h.metrics.FinalizeFailures.WithLabelValues("invalid").Inc()
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashDanger, "Please choose a payment method.", "/payment")
	default:
		h.metrics.FinalizeFailures.WithLabelValues("storage").Inc()
		logRequest(ctx, "error", "Failed to finalize booking", zap.Error(err))
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashDanger, "Payment could not be recorded, please try again.", "/payment")
	}
}

// BookingDetail handles GET /bookings/{id} - receipt for one of the caller's bookings
func (h *BookingHandler) BookingDetail(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, err := requireIdentity(ctx, h.sessions, r)
	if errors.Is(err, sessions.ErrUnauthenticated) {
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashWarning, "Please log in to view your bookings.", "/login")
		return
	}
	if err != nil {
		serverError(ctx, w, "Failed to load session", err)
		return
	}

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid booking ID", zap.String("id", idStr))
		http.NotFound(w, r)
		return
	}

	booking, err := h.bookings.GetForUser(ctx, id, user.UserID)
	if storage.IsNotFound(err) {
		logRequest(ctx, "info", "Booking not found", zap.Int("booking_id", id), zap.Int("user_id", user.UserID))
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(ctx, w, "Failed to load booking", err)
		return
	}

	state, err := loadPage(ctx, h.sessions, w, r)
	if err != nil {
		serverError(ctx, w, "Failed to load session", err)
		return
	}
	if err := render(w, http.StatusOK, "booking", pageData{
		Title:   "Booking #" + idStr,
		User:    &user,
		Flashes: state.Flashes,
		Booking: &booking,
	}); err != nil {
		logRequest(ctx, "error", "Failed to render page", zap.Error(err))
	}
}

// ListBookings handles GET /api/bookings - the caller's bookings as JSON.
// The route is registered with session auth, so the user comes from the request auth.
func (h *BookingHandler) ListBookings(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	auth := httpserver.GetRequestAuth(ctx)
	if auth == nil {
		logRequest(ctx, "error", "No request auth")
		writeJSON(w, http.StatusUnauthorized, errs.NewAuthenticationError("Not logged in"))
		return
	}
	userID, err := strconv.Atoi(auth.Client)
	if err != nil {
		logRequest(ctx, "error", "Invalid auth client", zap.String("client", auth.Client))
		writeJSON(w, http.StatusUnauthorized, errs.NewAuthenticationError("Not logged in"))
		return
	}

	bookings, err := h.bookings.ListByUser(ctx, userID)
	if err != nil {
		logRequest(ctx, "error", "Failed to list bookings", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Database error"))
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}

	logRequest(ctx, "info", "Bookings retrieved successfully", zap.Int("count", len(bookings)))
	writeJSON(w, http.StatusOK, bookings)
}
