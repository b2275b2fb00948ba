package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`
	Id            uuid.UUID `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	FirstName     string    `json:"first_name" bun:"first_name,notnull"`
	LastName      string    `json:"last_name" bun:"last_name,notnull"`
	Email         string    `json:"email" bun:"email,unique,notnull"`
	PasswordHash  string    `json:"-" bun:"password_hash,notnull"`
	BirthDate     time.Time `json:"birth_date" bun:"birth_date,type:date,notnull"`
	Postcode      string    `json:"postcode" bun:"postcode,notnull"`
	Gender        string    `json:"gender" bun:"gender,notnull"`
	Role          string    `json:"role" bun:"role,notnull,default:'customer'"`
	CreatedAt     time.Time `json:"created_at" bun:"created_at,notnull,default:current_timestamp"`
}

// HasBirthdayOn reports whether day is the customer's birthday. People born on
// Feb 29 celebrate on Feb 28 in non-leap years.
func (c *Customer) HasBirthdayOn(day time.Time) bool {
	month, date := c.BirthDate.Month(), c.BirthDate.Day()
	if month == time.February && date == 29 && !isLeapYear(day.Year()) {
		date = 28
	}
	return day.Month() == month && day.Day() == date
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
