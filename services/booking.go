package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"salon-booking/models"
	"salon-booking/sessions"

	"github.com/google/uuid"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// BookingStore is the persistence the finalizer needs.
type BookingStore interface {
	Create(ctx context.Context, b models.Booking) (int, error)
}

// BookingService builds drafts in the session and turns them into bookings.
type BookingService struct {
	sessions *sessions.Manager
	bookings BookingStore
	now      func() time.Time
}

func NewBookingService(sm *sessions.Manager, bookings BookingStore) *BookingService {
	return &BookingService{
		sessions: sm,
		bookings: bookings,
		now:      time.Now,
	}
}

// BuildDraft stores the booking form as the session's pending draft,
// replacing any earlier unpaid one. Values are only checked for presence.
func (s *BookingService) BuildDraft(ctx context.Context, sessionID string, form models.DraftForm) (models.Draft, error) {
	var draft models.Draft
	_, err := s.sessions.Update(ctx, sessionID, func(sess *sessions.Session) error {
		user, err := sessions.RequireUser(sess)
		if err != nil {
			return err
		}

		d, err := s.newDraft(user, form)
		if err != nil {
			return err
		}
		sess.Draft = &d
		draft = d
		return nil
	})
	if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrMissingField) {
		return models.Draft{}, err
	}
	if err != nil {
		return models.Draft{}, persistenceError("save draft", err)
	}
	return draft, nil
}

func (s *BookingService) newDraft(user sessions.Identity, form models.DraftForm) (models.Draft, error) {
	d := models.Draft{
		ID:        uuid.New().String(),
		Fullname:  strings.TrimSpace(form.Fullname),
		Email:     strings.TrimSpace(form.Email),
		Phone:     strings.TrimSpace(form.Phone),
		Service:   strings.TrimSpace(form.Service),
		Date:      strings.TrimSpace(form.Date),
		Time:      strings.TrimSpace(form.Time),
		Notes:     strings.TrimSpace(form.Notes),
		CreatedAt: s.now(),
	}
	if d.Fullname == "" {
		d.Fullname = user.Fullname
	}
	if d.Email == "" {
		d.Email = user.Email
	}

	switch {
	case d.Service == "":
		return models.Draft{}, &MissingFieldError{Field: "service"}
	case d.Date == "":
		return models.Draft{}, &MissingFieldError{Field: "date"}
	case d.Time == "":
		return models.Draft{}, &MissingFieldError{Field: "time"}
	}
	return d, nil
}

// PendingDraft returns the session's unpaid draft.
func (s *BookingService) PendingDraft(ctx context.Context, sessionID string) (models.Draft, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return models.Draft{}, persistenceError("load session", err)
	}
	if sess.Draft == nil {
		return models.Draft{}, ErrNoDraft
	}
	return *sess.Draft, nil
}

// Finalize turns the session's draft into a booking. The read, insert and
// draft removal run under the session lock, so a draft yields at most one
// booking. A failed insert leaves the draft in place for another try.
func (s *BookingService) Finalize(ctx context.Context, sessionID string, form models.PaymentForm) (models.Booking, error) {
	form.PaymentMethod = strings.TrimSpace(form.PaymentMethod)
	form.TransactionID = strings.TrimSpace(form.TransactionID)

	unlock, err := s.sessions.Lock(ctx, sessionID)
	if err != nil {
		return models.Booking{}, persistenceError("lock session", err)
	}
	defer unlock()

	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return models.Booking{}, persistenceError("load session", err)
	}
	if sess.Draft == nil {
		return models.Booking{}, ErrNoDraft
	}
	user, err := sessions.RequireUser(sess)
	if err != nil {
		return models.Booking{}, err
	}
	if form.PaymentMethod == "" {
		return models.Booking{}, &MissingFieldError{Field: "payment_method"}
	}

	booking := models.NewBooking(user.UserID, *sess.Draft, form)
	id, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return models.Booking{}, persistenceError("create booking", err)
	}
	booking.ID = id

	draftID := sess.Draft.ID
	sess.Draft = nil
	if err := s.sessions.Save(ctx, sess); err != nil {
		// booking is stored; the caller still gets success
		logger.Error("Failed to clear draft after booking",
			zap.Error(err), zap.Int("booking_id", id), zap.String("draft_id", draftID))
	}
	return booking, nil
}
