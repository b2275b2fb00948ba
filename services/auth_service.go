package services

import (
	"context"
	"pizzeria_server/database"
	"pizzeria_server/lib"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type AuthService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	repo         database.CustomerRepository
	cacheService *CacheService
	argonParams  *structs.ArgonParams
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, repo database.CustomerRepository, cacheService *CacheService) *AuthService {
	return &AuthService{
		logger:       logger,
		cfg:          cfg,
		repo:         repo,
		cacheService: cacheService,
		argonParams:  lib.DefaultArgonParams,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *AuthService) Signin(ctx context.Context, req *structs.SigninRequest) (*structs.AuthResponse, error) {
	startTime := time.Now()
	email := normalizeEmail(req.Email)

	customer, err := as.repo.GetCustomerByEmail(ctx, email)
	if err != nil {
		// Only log as error if it's not a "not found" error
		if !lib.IsNotFound(err) {
			as.logger.Error("Unexpected database error during signin",
				gecho.Field("error", err),
				gecho.Field("identifier", email),
			)
			return nil, err
		}
		as.logger.Debug("Customer not found during signin attempt", gecho.Field("identifier", email))
		// Always return invalid credentials (don't leak customer existence)
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(req.Password, customer.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("customer_id", customer.Id),
		)
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt",
			gecho.Field("identifier", email),
			gecho.Field("customer_id", customer.Id),
		)
		return nil, lib.ErrInvalidCredentials
	}

	as.logger.Debug("Customer signed in", gecho.Field("customer_id", customer.Id), gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))

	customer.PasswordHash = ""
	if err := as.cacheService.SetCustomerInCache(ctx, customer); err != nil {
		as.logger.Warn("Failed to set customer in cache after signin", gecho.Field("error", err), gecho.Field("customer_id", customer.Id))
	}

	return as.issueTokens(customer)
}

func (as *AuthService) Signup(ctx context.Context, req *structs.SignupRequest) (*structs.AuthResponse, error) {
	birthDate, err := time.Parse(time.DateOnly, req.BirthDate)
	if err != nil {
		return nil, &lib.ValidationError{Errors: []lib.FieldError{{Field: "birth_date", Message: "must be a date formatted as YYYY-MM-DD"}}}
	}
	if birthDate.After(time.Now()) {
		return nil, &lib.ValidationError{Errors: []lib.FieldError{{Field: "birth_date", Message: "cannot be in the future"}}}
	}

	passwordHash, err := lib.HashPassword(req.Password, as.argonParams)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}

	customer := &tables.Customer{
		Id:           uuid.New(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        normalizeEmail(req.Email),
		PasswordHash: passwordHash,
		BirthDate:    birthDate,
		Postcode:     req.Postcode,
		Gender:       req.Gender,
		Role:         tables.RoleCustomer,
		CreatedAt:    time.Now(),
	}

	if err := as.repo.InsertCustomer(ctx, customer); err != nil {
		// Log unique violations as warnings (user error)
		if lib.IsUniqueViolation(err) {
			as.logger.Warn("Signup failed - duplicate email", gecho.Field("email", customer.Email))
		} else {
			as.logger.Error("Database error during signup", gecho.Field("error", err), gecho.Field("email", customer.Email))
		}
		return nil, err
	}

	as.logger.Info("Customer signed up", gecho.Field("customer_id", customer.Id))

	customer.PasswordHash = ""
	return as.issueTokens(customer)
}

func (as *AuthService) issueTokens(customer *tables.Customer) (*structs.AuthResponse, error) {
	accessToken, err := as.signToken(customer, true)
	if err != nil {
		as.logger.Error("Failed to generate access token", gecho.Field("error", err), gecho.Field("customer_id", customer.Id))
		return nil, err
	}
	refreshToken, err := as.signToken(customer, false)
	if err != nil {
		as.logger.Error("Failed to generate refresh token", gecho.Field("error", err), gecho.Field("customer_id", customer.Id))
		return nil, err
	}

	return &structs.AuthResponse{
		Customer:     customer,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (as *AuthService) signToken(customer *tables.Customer, isAccessToken bool) (string, error) {
	secret, expiry := as.cfg.Auth.RefreshTokenSecret, as.RefreshTokenExpiration()
	if isAccessToken {
		secret, expiry = as.cfg.Auth.AccessTokenSecret, as.AccessTokenExpiration()
	}

	claims := &structs.AuthClaims{
		Sub:   customer.Id,
		Email: customer.Email,
		Role:  customer.Role,
		Iat:   time.Now(),
		Exp:   expiry,
		Jti:   uuid.New(),
	}
	return lib.SignToken(claims, isAccessToken, secret)
}

func (as *AuthService) AccessTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.AccessTokenExpiry)
}

func (as *AuthService) RefreshTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.RefreshTokenExpiry)
}

// Refresh exchanges a valid refresh token for a new token pair and revokes the old one.
func (as *AuthService) Refresh(ctx context.Context, refreshToken string) (*structs.AuthResponse, error) {
	claims, err := lib.ParseToken(refreshToken, false, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		as.logger.Debug("Failed to parse refresh token", gecho.Field("error", err))
		return nil, lib.ErrInvalidToken
	}

	if time.Now().After(claims.Exp) {
		return nil, lib.ErrExpiredToken
	}

	isBlacklisted, err := as.cacheService.IsTokenBlacklisted(ctx, claims.Jti)
	if err != nil {
		as.logger.Error("Failed to check if token is blacklisted", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, err
	}
	if isBlacklisted {
		as.logger.Warn("Refresh token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, lib.ErrInvalidToken
	}

	customer, err := as.GetCustomerByID(ctx, claims.Sub)
	if err != nil {
		if lib.IsNotFound(err) {
			return nil, lib.ErrInvalidToken
		}
		return nil, err
	}

	if err := as.cacheService.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
		as.logger.Warn("Failed to revoke rotated refresh token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
	}

	return as.issueTokens(customer)
}

// Signout revokes whichever of the two tokens still parse.
func (as *AuthService) Signout(ctx context.Context, accessToken, refreshToken string) {
	if claims, err := lib.ParseToken(accessToken, true, as.cfg.Auth.AccessTokenSecret); err == nil {
		if err := as.cacheService.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
			as.logger.Warn("Failed to blacklist access token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		}
	}
	if claims, err := lib.ParseToken(refreshToken, false, as.cfg.Auth.RefreshTokenSecret); err == nil {
		if err := as.cacheService.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
			as.logger.Warn("Failed to blacklist refresh token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		}
	}
}

func (as *AuthService) IsTokenRevoked(ctx context.Context, jti uuid.UUID) (bool, error) {
	return as.cacheService.IsTokenBlacklisted(ctx, jti)
}

func (as *AuthService) GetCustomerByID(ctx context.Context, customerID uuid.UUID) (*tables.Customer, error) {
	cached, err := as.cacheService.GetCustomerFromCache(ctx, customerID)
	if err != nil {
		as.logger.Warn("Failed to get customer from cache", gecho.Field("error", err), gecho.Field("customer_id", customerID))
	} else if cached != nil {
		return cached, nil
	}

	customer, err := as.repo.GetCustomerByID(ctx, customerID)
	if err != nil {
		if !lib.IsNotFound(err) {
			as.logger.Error("Failed to find customer by ID", gecho.Field("error", err), gecho.Field("customer_id", customerID))
		}
		return nil, err
	}
	customer.PasswordHash = ""

	if err := as.cacheService.SetCustomerInCache(ctx, customer); err != nil {
		as.logger.Warn("Failed to cache customer after DB fetch", gecho.Field("error", err), gecho.Field("customer_id", customerID))
	}

	return customer, nil
}

func (as *AuthService) AccessTokenSecret() string {
	return as.cfg.Auth.AccessTokenSecret
}
