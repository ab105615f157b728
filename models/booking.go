package models

import "time"

// Draft is a booking that has been filled in but not paid for yet.
// It only ever lives in the session.
type Draft struct {
	ID        string    `json:"id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// DraftForm is the raw /book form
type DraftForm struct {
	Fullname string
	Email    string
	Phone    string
	Service  string
	Date     string
	Time     string
	Notes    string
}

// PaymentForm is the raw /payment form
type PaymentForm struct {
	PaymentMethod string
	TransactionID string
}

// Booking is a paid appointment as stored in tbl_booking.
// Contact fields are a snapshot of the draft, not of the user record.
type Booking struct {
	ID            int    `json:"id" db:"id"`
	UserID        int    `json:"user_id" db:"user_id"`
	Fullname      string `json:"fullname" db:"fullname"`
	Email         string `json:"email" db:"email"`
	Phone         string `json:"phone" db:"phone"`
	Service       string `json:"service" db:"service"`
	Date          string `json:"date" db:"date"`
	Time          string `json:"time" db:"time"`
	Notes         string `json:"notes" db:"notes"`
	PaymentMethod string `json:"payment_method" db:"payment_method"`
	TransactionID string `json:"transaction_id" db:"transaction_id"`
}

// NewBooking snapshots a draft into a booking owned by userID.
func NewBooking(userID int, d Draft, p PaymentForm) Booking {
	return Booking{
		UserID:        userID,
		Fullname:      d.Fullname,
		Email:         d.Email,
		Phone:         d.Phone,
		Service:       d.Service,
		Date:          d.Date,
		Time:          d.Time,
		Notes:         d.Notes,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
	}
}
