// File: internal/auth/models.go
package auth

import "time"

// User is the auth-service user entity.
type User struct {
	ID              int64      `json:"id" db:"id"`
	FirstName       string     `json:"firstName" db:"first_name"`
	LastName        string     `json:"lastName" db:"last_name"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	ShippingAddress string     `json:"shippingAddress" db:"shipping_address"`
	BirthDate       *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// RefreshToken is the persisted record for one issued refresh token,
// keyed by jti. The raw token is never stored, only its digest.
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	JTI       string    `json:"jti" db:"jti"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsExpired reports whether the token is past its expiry.
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsValid reports whether the token can still be redeemed.
func (rt *RefreshToken) IsValid() bool {
	return !rt.Revoked && !rt.IsExpired()
}

// UserDTO is the outward-facing user representation.
type UserDTO struct {
	ID              int64      `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	ShippingAddress string     `json:"shippingAddress"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		ShippingAddress: u.ShippingAddress,
		BirthDate:       u.BirthDate,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	TokenType    string  `json:"tokenType"`
	ExpiresIn    int64   `json:"expiresIn"`
	User         UserDTO `json:"user"`
}

type RegisterRequest struct {
	FirstName       string     `json:"firstName" binding:"required"`
	LastName        string     `json:"lastName" binding:"required"`
	Email           string     `json:"email" binding:"required,email"`
	Password        string     `json:"password" binding:"required,min=8"`
	ShippingAddress string     `json:"shippingAddress"`
	BirthDate       *time.Time `json:"birthDate"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UpdateUserRequest struct {
	FirstName       *string    `json:"firstName"`
	LastName        *string    `json:"lastName"`
	Email           *string    `json:"email"`
	ShippingAddress *string    `json:"shippingAddress"`
	BirthDate       *time.Time `json:"birthDate"`
}
