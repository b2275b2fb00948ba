package structs

import (
	"pizzeria_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

type ArgonParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

type AuthClaims struct {
	Sub   uuid.UUID `json:"sub"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Iat   time.Time `json:"iat"`
	Exp   time.Time `json:"exp"`
	Jti   uuid.UUID `json:"jti"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=100"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Postcode  string `json:"postcode" validate:"required,len=5,numeric"`
	Gender    string `json:"gender" validate:"required,oneof=male female other"`
}

type AuthResponse struct {
	Customer     *tables.Customer `json:"customer"`
	AccessToken  string           `json:"-"`
	RefreshToken string           `json:"-"`
}
