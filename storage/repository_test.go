package storage

import (
	"context"
	"errors"
	"testing"

	"salon-booking/database"
	"salon-booking/models"

	"github.com/jmoiron/sqlx"
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dbConn, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	t.Cleanup(func() { dbConn.Close() })
	return dbConn
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openDB(t))

	id, err := users.Create(ctx, models.User{Fullname: "Alice", Email: "a@x.com", Password: "hash", Phone: "555"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	_, err = users.Create(ctx, models.User{Fullname: "Other", Email: "a@x.com", Password: "hash2"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	n, err := users.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 user, got %d", n)
	}
}

func TestUserEmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openDB(t))

	if _, err := users.Create(ctx, models.User{Fullname: "Alice", Email: "a@x.com", Password: "h"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := users.Create(ctx, models.User{Fullname: "Alice", Email: "A@x.com", Password: "h"}); err != nil {
		t.Fatalf("expected differently cased email to be accepted, got %v", err)
	}
	if _, err := users.GetByEmail(ctx, "A@X.COM"); !IsNotFound(err) {
		t.Fatalf("expected not found for other casing, got %v", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openDB(t))

	if _, err := users.GetByEmail(ctx, "missing@x.com"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	id, err := users.Create(ctx, models.User{Fullname: "Bob", Email: "b@x.com", Password: "hash"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	user, err := users.GetByEmail(ctx, "b@x.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if user.ID != id || user.Fullname != "Bob" || user.Password != "hash" || user.Phone != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestBookingCreateAndOwnership(t *testing.T) {
	ctx := context.Background()
	dbConn := openDB(t)
	users := NewUserRepository(dbConn)
	bookings := NewBookingRepository(dbConn)

	alice, err := users.Create(ctx, models.User{Fullname: "Alice", Email: "a@x.com", Password: "h"})
	if err != nil {
		t.Fatalf("Create alice: %v", err)
	}
	bob, err := users.Create(ctx, models.User{Fullname: "Bob", Email: "b@x.com", Password: "h"})
	if err != nil {
		t.Fatalf("Create bob: %v", err)
	}

	draft := models.Draft{Fullname: "Alice", Email: "a@x.com", Service: "Haircut", Date: "2024-01-01", Time: "10:00"}
	id, err := bookings.Create(ctx, models.NewBooking(alice, draft, models.PaymentForm{PaymentMethod: "cash"}))
	if err != nil {
		t.Fatalf("Create booking: %v", err)
	}

	got, err := bookings.GetForUser(ctx, id, alice)
	if err != nil {
		t.Fatalf("GetForUser failed: %v", err)
	}
	if got.Service != "Haircut" || got.PaymentMethod != "cash" || got.UserID != alice {
		t.Fatalf("unexpected booking: %+v", got)
	}

	if _, err := bookings.GetForUser(ctx, id, bob); !IsNotFound(err) {
		t.Fatalf("expected not found for non-owner, got %v", err)
	}

	list, err := bookings.ListByUser(ctx, bob)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no bookings for bob, got %d", len(list))
	}

	all, err := bookings.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != id {
		t.Fatalf("unexpected ListAll result: %+v", all)
	}
}
