package handlers

import (
	"context"
	"errors"
	"net/http"

	"salon-booking/sessions"
	"salon-booking/storage"

	"go.uber.org/zap"
)

// PageHandler serves the landing page and the dashboard
type PageHandler struct {
	sessions *sessions.Manager
	bookings *storage.BookingRepository
}

// NewPageHandler creates a new page handler
func NewPageHandler(sm *sessions.Manager, bookings *storage.BookingRepository) *PageHandler {
	return &PageHandler{
		sessions: sm,
		bookings: bookings,
	}
}

// Index handles GET / - shows login state
func (h *PageHandler) Index(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	state, err := loadPage(ctx, h.sessions, w, r)
	if err != nil {
		serverError(ctx, w, "Failed to load session", err)
		return
	}

	if err := render(w, http.StatusOK, "index", pageData{
		Title:   "Home",
		User:    state.User,
		Flashes: state.Flashes,
	}); err != nil {
		logRequest(ctx, "error", "Failed to render page", zap.Error(err))
	}
}

// Dashboard handles GET /dashboard - requires a signed-in user
func (h *PageHandler) Dashboard(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, err := requireIdentity(ctx, h.sessions, r)
	if errors.Is(err, sessions.ErrUnauthenticated) {
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashWarning, "Please log in to access the dashboard.", "/login")
		return
	}
	if err != nil {
		serverError(ctx, w, "Failed to load session", err)
		return
	}

	state, err := loadPage(ctx, h.sessions, w, r)
	if err != nil {
		serverError(ctx, w, "Failed to load session", err)
		return
	}

	bookings, err := h.bookings.ListByUser(ctx, user.UserID)
	if err != nil {
		logRequest(ctx, "error", "Failed to list bookings", zap.Error(err), zap.Int("user_id", user.UserID))
		state.Flashes = append(state.Flashes, sessions.Flash{Category: sessions.FlashDanger, Message: "Could not load your bookings."})
	}

	logRequest(ctx, "debug", "Dashboard", zap.Int("user_id", user.UserID), zap.Int("bookings", len(bookings)))
	if err := render(w, http.StatusOK, "dashboard", pageData{
		Title:    "Dashboard",
		User:     &user,
		Flashes:  state.Flashes,
		Bookings: bookings,
	}); err != nil {
		logRequest(ctx, "error", "Failed to render page", zap.Error(err))
	}
}
