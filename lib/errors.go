package lib

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// ErrorKind groups errors by how callers should react to them.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindBusinessRule ErrorKind = "business_rule"
	KindTransaction  ErrorKind = "transaction"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindAuth         ErrorKind = "auth"
	KindForbidden    ErrorKind = "forbidden"
)

// AppError carries a kind, a stable message key for clients and an optional cause.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is compares by code, so a wrapped copy still matches its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap returns a copy of base with err attached as the cause.
func Wrap(base *AppError, err error) *AppError {
	return &AppError{Kind: base.Kind, Code: base.Code, Message: base.Message, Err: err}
}

// TransactionFailure marks err as a storage failure that rolled the order back.
func TransactionFailure(err error) *AppError {
	return Wrap(ErrTransactionFailed, err)
}

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// Database errors
var (
	ErrConflict          = &AppError{Kind: KindConflict, Code: "error.db.conflict", Message: "conflict"}
	ErrNotFound          = &AppError{Kind: KindNotFound, Code: "error.db.notFound", Message: "not found"}
	ErrTransactionFailed = &AppError{Kind: KindTransaction, Code: "error.order.transactionFailed", Message: "transaction failed"}
)

// Auth errors
var (
	ErrInvalidToken       = &AppError{Kind: KindAuth, Code: "error.auth.invalidToken", Message: "invalid token"}
	ErrExpiredToken       = &AppError{Kind: KindAuth, Code: "error.auth.expiredToken", Message: "expired token"}
	ErrInvalidCredentials = &AppError{Kind: KindAuth, Code: "error.auth.invalidCredentials", Message: "invalid credentials"}
	ErrForbidden          = &AppError{Kind: KindForbidden, Code: "error.auth.accessDenied", Message: "access denied"}
)

// Checkout errors
var (
	ErrNotAuthenticated = &AppError{Kind: KindValidation, Code: "error.order.notAuthenticated", Message: "customer is not signed in"}
	ErrEmptyCart        = &AppError{Kind: KindValidation, Code: "error.order.emptyCart", Message: "cart is empty"}
	ErrInvalidQuantity  = &AppError{Kind: KindValidation, Code: "error.order.invalidQuantity", Message: "quantity must be at least 1"}
	ErrInvalidCartLine  = &AppError{Kind: KindValidation, Code: "error.cart.invalidLine", Message: "cart line is invalid"}
	ErrInvalidDiscount  = &AppError{Kind: KindValidation, Code: "error.discount.invalidDefinition", Message: "discount code needs exactly one of percent_off or amount_off"}

	ErrItemUnavailable         = &AppError{Kind: KindBusinessRule, Code: "error.order.itemUnavailable", Message: "item is no longer available"}
	ErrDiscountCodeInvalid     = &AppError{Kind: KindBusinessRule, Code: "error.discount.invalid", Message: "discount code is invalid"}
	ErrDiscountCodeExpired     = &AppError{Kind: KindBusinessRule, Code: "error.discount.expired", Message: "discount code has expired"}
	ErrDiscountCodeUsed        = &AppError{Kind: KindBusinessRule, Code: "error.discount.alreadyUsed", Message: "discount code already used"}
	ErrCancelWindowClosed      = &AppError{Kind: KindBusinessRule, Code: "error.order.cancelWindowClosed", Message: "order can no longer be cancelled"}
	ErrInvalidStatusTransition = &AppError{Kind: KindBusinessRule, Code: "error.order.invalidStatusTransition", Message: "invalid status transition"}
)

// SQLState extracts the SQLSTATE code from pgx or pgdriver errors.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var drvErr pgdriver.Error
	if errors.As(err, &drvErr) {
		return drvErr.Field('C')
	}
	return ""
}

func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(ErrNotFound, err)
	}
	switch SQLState(err) {
	case "23505": // unique_violation
		return Wrap(ErrConflict, err)
	case "P0002": // no_data_found
		return Wrap(ErrNotFound, err)
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrConflict) || SQLState(err) == "23505"
}

// GetDetailForLogging returns the innermost cause, which is what operators need.
func GetDetailForLogging(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
