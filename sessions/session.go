package sessions

import (
	"errors"

	"salon-booking/models"
)

// ErrUnauthenticated is returned by RequireUser when nobody is signed in.
var ErrUnauthenticated = errors.New("not authenticated")

// Flash categories, rendered as alert styles.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Identity is the signed-in user as remembered by the session.
type Identity struct {
	UserID   int    `json:"user_id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the server-side state behind one session_id cookie.
// It holds at most one identity and at most one unpaid draft.
type Session struct {
	ID      string        `json:"-"`
	User    *Identity     `json:"user,omitempty"`
	Draft   *models.Draft `json:"draft,omitempty"`
	Flashes []Flash       `json:"flashes,omitempty"`
}

// SignIn records the identity. A draft left by a different user is dropped.
func (s *Session) SignIn(id Identity) {
	if s.User != nil && s.User.UserID != id.UserID {
		s.Draft = nil
	}
	s.User = &id
}

func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns pending flashes and forgets them.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// RequireUser is the authorization guard used by every protected operation.
func RequireUser(s *Session) (Identity, error) {
	if s == nil || s.User == nil {
		return Identity{}, ErrUnauthenticated
	}
	return *s.User, nil
}
