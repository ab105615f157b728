package handlers

import (
	"context"
	"errors"
	"net/http"

	"salon-booking/metrics"
	"salon-booking/models"
	"salon-booking/services"
	"salon-booking/sessions"

	"go.uber.org/zap"
)

// AuthHandler serves registration, login and logout
type AuthHandler struct {
	creds    *services.CredentialStore
	sessions *sessions.Manager
	metrics  *metrics.Metrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(creds *services.CredentialStore, sm *sessions.Manager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		creds:    creds,
		sessions: sm,
		metrics:  m,
	}
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	state, err := loadPage(ctx, h.sessions, w, r)
	if err != nil {
		serverError(ctx, w, "Failed to load session", err)
		return
	}
	h.renderForm(ctx, w, http.StatusOK, "register", "Register", state, map[string]string{})
}

// Register handles POST /register
func (h *AuthHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logRequest(ctx, "error", "Invalid register form", zap.Error(err))
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := models.RegisterRequest{
		Fullname: r.PostFormValue("fullname"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Phone:    r.PostFormValue("phone"),
	}
	form := map[string]string{"fullname": req.Fullname, "email": req.Email, "phone": req.Phone}

	logRequest(ctx, "info", "Registering user", zap.String("email", req.Email))

	userID, err := h.creds.Register(ctx, req)
	switch {
	case err == nil:
		h.metrics.Registrations.WithLabelValues("ok").Inc()
		logRequest(ctx, "info", "User registered", zap.Int("user_id", userID))
		flashAndRedirect(ctx, h.sessions, w, r, sessions.FlashSuccess, "Registration successful! Please log in.", "/login")
	case errors.Is(err, services.ErrDuplicateEmail):
		h.metrics.Registrations.WithLabelValues("duplicate").Inc()
		logRequest(ctx, "info", "Duplicate email", zap.String("email", req.Email))
		h.reshowForm(ctx, w, r, http.StatusConflict, "register", "Register", "Email already exists!", form)
	case errors.Is(err, services.ErrMissingField):
		h.metrics.Registrations.WithLabelValues("invalid").Inc()
		h.reshowForm(ctx, w, r, http.StatusBadRequest, "register", "Register", "Please fill in "+missingField(err)+".", form)
	default:
		h.metrics.Registrations.WithLabelValues("error").Inc()
		logRequest(ctx, "error", "Registration failed", zap.Error(err))
		h.reshowForm(ctx, w, r, http.StatusInternalServerError, "register", "Register", "Registration failed, please try again.", form)
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	state, err := loadPage(ctx, h.sessions, w, r)
	if err != nil {
		serverError(ctx, w, "Failed to load session", err)
		return
	}
	h.renderForm(ctx, w, http.StatusOK, "login", "Login", state, map[string]string{})
}

// Login handles POST /login. A successful login starts a fresh session token.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logRequest(ctx, "error", "Invalid login form", zap.Error(err))
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	form := map[string]string{"email": email}

	user, err := h.creds.Authenticate(ctx, email, r.PostFormValue("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.metrics.Logins.WithLabelValues("invalid").Inc()
		logRequest(ctx, "info", "Invalid credentials", zap.String("email", email))
		h.reshowForm(ctx, w, r, http.StatusUnauthorized, "login", "Login", "Invalid email or password.", form)
		return
	}
	if err != nil {
		h.metrics.Logins.WithLabelValues("error").Inc()
		logRequest(ctx, "error", "Login failed", zap.Error(err))
		h.reshowForm(ctx, w, r, http.StatusInternalServerError, "login", "Login", "Login failed, please try again.", form)
		return
	}

	sess, err := h.rotateSession(ctx, sessions.ID(r), user)
	if err != nil {
		h.metrics.Logins.WithLabelValues("error").Inc()
		serverError(ctx, w, "Failed to save session", err)
		return
	}
	h.sessions.SetCookie(w, sess.ID)

	h.metrics.Logins.WithLabelValues("ok").Inc()
	logRequest(ctx, "info", "Login successful", zap.Int("user_id", user.ID))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// rotateSession moves the visitor onto a fresh session id. The old session is
// locked until it is destroyed so a payment running on it cannot leave its
// draft behind in the new one.
func (h *AuthHandler) rotateSession(ctx context.Context, oldID string, user models.User) (*sessions.Session, error) {
	sess := &sessions.Session{ID: sessions.NewID()}
	if oldID != "" {
		unlock, err := h.sessions.Lock(ctx, oldID)
		if err != nil {
			return nil, err
		}
		defer unlock()

		if prev, err := h.sessions.Load(ctx, oldID); err == nil {
			// same user logging in again keeps an unpaid draft
			sess.User, sess.Draft = prev.User, prev.Draft
		}
	}
	sess.SignIn(sessions.Identity{UserID: user.ID, Fullname: user.Fullname, Email: user.Email})
	sess.AddFlash(sessions.FlashSuccess, "Welcome back, "+user.Fullname+"!")
	if err := h.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if err := h.sessions.Destroy(ctx, oldID); err != nil {
		logRequest(ctx, "error", "Failed to drop previous session", zap.Error(err))
	}
	return sess, nil
}

// Logout handles GET /logout. The session, and any unpaid draft, is discarded.
func (h *AuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(ctx, sessions.ID(r)); err != nil {
		logRequest(ctx, "error", "Failed to destroy session", zap.Error(err))
	}

	sess := &sessions.Session{ID: sessions.NewID()}
	sess.AddFlash(sessions.FlashInfo, "You have been logged out.")
	if err := h.sessions.Save(ctx, sess); err != nil {
		logRequest(ctx, "error", "Failed to save session", zap.Error(err))
		h.sessions.ClearCookie(w)
	} else {
		h.sessions.SetCookie(w, sess.ID)
	}

	logRequest(ctx, "info", "Logged out")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) reshowForm(ctx context.Context, w http.ResponseWriter, r *http.Request, status int, page, title, message string, form map[string]string) {
	state, err := loadPage(ctx, h.sessions, w, r)
	if err != nil {
		serverError(ctx, w, "Failed to load session", err)
		return
	}
	state.Flashes = append(state.Flashes, sessions.Flash{Category: sessions.FlashDanger, Message: message})
	h.renderForm(ctx, w, status, page, title, state, form)
}

func (h *AuthHandler) renderForm(ctx context.Context, w http.ResponseWriter, status int, page, title string, state pageState, form map[string]string) {
	err := render(w, status, page, pageData{
		Title:   title,
		User:    state.User,
		Flashes: state.Flashes,
		Form:    form,
	})
	if err != nil {
		logRequest(ctx, "error", "Failed to render page", zap.String("page", page), zap.Error(err))
	}
}

func missingField(err error) string {
	var mf *services.MissingFieldError
	if errors.As(err, &mf) && mf.Field != "" {
		return mf.Field
	}
	return "all required fields"
}
