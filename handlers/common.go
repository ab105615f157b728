package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"salon-booking/sessions"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// logRequest logs with the route details the httpserver put on ctx
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// pageState is what every page needs from the session: who is signed in and
// which flash messages to show. Reading it consumes the flashes.
type pageState struct {
	SessionID string
	User      *sessions.Identity
	Flashes   []sessions.Flash
}

// loadPage resolves the visitor's session, issuing a cookie on first contact,
// and pops pending flash messages.
func loadPage(ctx context.Context, sm *sessions.Manager, w http.ResponseWriter, r *http.Request) (pageState, error) {
	id := sm.Ensure(w, r)
	state := pageState{SessionID: id}

	sess, err := sm.Load(ctx, id)
	if err != nil {
		return state, err
	}
	state.User = sess.User
	if len(sess.Flashes) == 0 {
		return state, nil
	}

	sess, err = sm.Update(ctx, id, func(s *sessions.Session) error {
		state.Flashes = s.PopFlashes()
		return nil
	})
	if err != nil {
		return state, err
	}
	state.User = sess.User
	return state, nil
}

// flashAndRedirect queues a flash for the next page and redirects there.
func flashAndRedirect(ctx context.Context, sm *sessions.Manager, w http.ResponseWriter, r *http.Request, category, message, to string) {
	id := sm.Ensure(w, r)
	if _, err := sm.Update(ctx, id, func(s *sessions.Session) error {
		s.AddFlash(category, message)
		return nil
	}); err != nil {
		logRequest(ctx, "error", "Failed to store flash", zap.Error(err))
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// SessionAuth is the httpserver auth callback for "session" routes: the
// request must carry the cookie of a signed-in session.
func SessionAuth(sm *sessions.Manager) httpserver.AuthCallback {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		sess, err := sm.Load(r.Context(), sessions.ID(r))
		if err != nil || sess.User == nil {
			return false, httpserver.RequestAuth{}
		}
		return true, httpserver.RequestAuth{
			Type:   "session",
			Client: strconv.Itoa(sess.User.UserID),
			Claims: map[string]interface{}{"email": sess.User.Email},
		}
	}
}

// requireIdentity is the guard for protected pages: it returns the signed-in
// identity or sessions.ErrUnauthenticated.
func requireIdentity(ctx context.Context, sm *sessions.Manager, r *http.Request) (sessions.Identity, error) {
	sess, err := sm.Load(ctx, sessions.ID(r))
	if err != nil {
		return sessions.Identity{}, err
	}
	return sessions.RequireUser(sess)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func serverError(ctx context.Context, w http.ResponseWriter, message string, err error) {
	logRequest(ctx, "error", message, zap.Error(err))
	http.Error(w, "Something went wrong, please try again.", http.StatusInternalServerError)
}
