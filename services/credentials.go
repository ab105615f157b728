package services

import (
	"context"
	"errors"
	"strings"

	"salon-booking/models"
	"salon-booking/storage"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for new passwords.
const PasswordCost = 12

// CredentialStore registers users and verifies their passwords.
type CredentialStore struct {
	users *storage.UserRepository
	cost  int
	// compared against when the email is unknown so both failures cost the same
	dummyHash []byte
}

func NewCredentialStore(users *storage.UserRepository, cost int) (*CredentialStore, error) {
	if cost == 0 {
		cost = PasswordCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("salon-booking-dummy"), cost)
	if err != nil {
		return nil, err
	}
	return &CredentialStore{users: users, cost: cost, dummyHash: dummy}, nil
}

// Register stores a new user with a bcrypt-hashed password.
func (s *CredentialStore) Register(ctx context.Context, req models.RegisterRequest) (int, error) {
	req.Fullname = strings.TrimSpace(req.Fullname)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	switch {
	case req.Fullname == "":
		return 0, &MissingFieldError{Field: "fullname"}
	case req.Email == "":
		return 0, &MissingFieldError{Field: "email"}
	case req.Password == "":
		return 0, &MissingFieldError{Field: "password"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return 0, err
	}

	id, err := s.users.Create(ctx, models.User{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: string(hashed),
		Phone:    req.Phone,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return 0, ErrDuplicateEmail
	}
	if err != nil {
		return 0, persistenceError("create user", err)
	}
	return id, nil
}

// Authenticate returns the user for a matching email and password. Unknown
// email and wrong password both yield ErrInvalidCredentials.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if storage.IsNotFound(err) {
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, persistenceError("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
