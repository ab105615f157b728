package models

// User represents a registered customer
// Password is stored hashed (bcrypt); never return plain in JSON responses
type User struct {
	ID       int    `json:"id" db:"id"`
	Fullname string `json:"fullname" db:"fullname"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password_hash"`
	Phone    string `json:"phone,omitempty" db:"phone"`
}

// RegisterRequest carries the /register form
type RegisterRequest struct {
	Fullname string
	Email    string
	Password string // Plaintext; hashed before storage
	Phone    string
}

// LoginRequest carries the /login form
type LoginRequest struct {
	Email    string
	Password string
}
