package storage

import (
	"context"
	"database/sql"
	"errors"

	"salon-booking/models"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, user_id, fullname, email, COALESCE(phone, '') AS phone, service, date, time,
	COALESCE(notes, '') AS notes, payment_method, COALESCE(transaction_id, '') AS transaction_id`

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create writes the booking in a single INSERT and returns the new id.
func (r *BookingRepository) Create(ctx context.Context, b models.Booking) (int, error) {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO tbl_booking
			(user_id, fullname, email, phone, service, date, time, notes, payment_method, transaction_id)
		VALUES
			(:user_id, :fullname, :email, :phone, :service, :date, :time, :notes, :payment_method, :transaction_id)`, b)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// GetForUser returns the booking only if userID owns it.
func (r *BookingRepository) GetForUser(ctx context.Context, id, userID int) (models.Booking, error) {
	var b models.Booking
	err := r.db.GetContext(ctx, &b,
		"SELECT "+bookingColumns+" FROM tbl_booking WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, ErrNotFound
	}
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.SelectContext(ctx, &bookings,
		"SELECT "+bookingColumns+" FROM tbl_booking WHERE user_id = ? ORDER BY id DESC", userID)
	return bookings, err
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.SelectContext(ctx, &bookings, "SELECT "+bookingColumns+" FROM tbl_booking ORDER BY id")
	return bookings, err
}

func (r *BookingRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM tbl_booking")
	return n, err
}
