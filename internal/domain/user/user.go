package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrNameRequired        = errors.New("user: first and last name are required")
	ErrInvalidRole         = errors.New("user: invalid role")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
	ErrNotFound            = errors.New("user: not found")
)

type ID string

type Role string

const (
	RoleUser       Role = "user"
	RoleHotelOwner Role = "hotel owner"
	RoleAdmin      Role = "admin"
)

// ClickedHotelsLimit bounds the per-user click log consumed by the
// recommendation heuristic.
const ClickedHotelsLimit = 20

type User struct {
	ID           ID
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	// ClickedHotels is an append-only, deduplicated log of hotel IDs the
	// user opened, capped at ClickedHotelsLimit (oldest dropped first).
	ClickedHotels []string
	EmailOTP      string
	OTPExpires    time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id ID) error
	List(ctx context.Context) ([]*User, error)
}

type CreateParams struct {
	ID           ID
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func NewUser(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	first := strings.TrimSpace(params.FirstName)
	last := strings.TrimSpace(params.LastName)
	if first == "" || last == "" {
		return nil, ErrNameRequired
	}
	role, err := normalizeRole(params.Role)
	if err != nil {
		return nil, err
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &User{
		ID:           ID(id),
		Email:        email,
		FirstName:    first,
		LastName:     last,
		PasswordHash: params.PasswordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) HasRole(role Role) bool {
	return u.Role == role
}

// IssueOTP stores a login verification code that expires after ttl.
func (u *User) IssueOTP(code string, ttl time.Duration, now time.Time) {
	u.EmailOTP = code
	u.OTPExpires = now.UTC().Add(ttl)
	u.touch(now)
}

// ConsumeOTP clears the pending code after a successful verification.
func (u *User) ConsumeOTP(now time.Time) {
	u.EmailOTP = ""
	u.OTPExpires = time.Time{}
	u.touch(now)
}

func (u *User) OTPValid(code string, now time.Time) bool {
	if u.EmailOTP == "" || u.OTPExpires.IsZero() {
		return false
	}
	if !u.OTPExpires.After(now.UTC()) {
		return false
	}
	return u.EmailOTP == code
}

// RecordClick appends a hotel to the click log, skipping duplicates and
// evicting the oldest entries beyond ClickedHotelsLimit.
func (u *User) RecordClick(hotelID string, now time.Time) bool {
	hotelID = strings.TrimSpace(hotelID)
	if hotelID == "" {
		return false
	}
	for _, id := range u.ClickedHotels {
		if id == hotelID {
			return false
		}
	}
	u.ClickedHotels = append(u.ClickedHotels, hotelID)
	if len(u.ClickedHotels) > ClickedHotelsLimit {
		u.ClickedHotels = u.ClickedHotels[len(u.ClickedHotels)-ClickedHotelsLimit:]
	}
	u.touch(now)
	return true
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func normalizeRole(role Role) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(string(role)))) {
	case RoleUser, "":
		return RoleUser, nil
	case RoleHotelOwner:
		return RoleHotelOwner, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
