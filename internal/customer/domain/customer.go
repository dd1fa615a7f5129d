package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/dwikikusuma/buensabor-storefront/internal/geo"
)

const RoleUser = "user"

var (
	ErrMissingEmail     = errors.New("email is required")
	ErrMissingPassword  = errors.New("password is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingName      = errors.New("name is required")
)

type Client struct {
	ID        int64
	FirstName string
	LastName  string
	Phone     string
	Email     string
	BirthDate time.Time
	Addresses []geo.Address
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// DeliveryAddress is the address used for delivery orders: the first one saved.
func (c Client) DeliveryAddress() (geo.Address, bool) {
	if len(c.Addresses) == 0 {
		return geo.Address{}, false
	}
	return c.Addresses[0], true
}

// Session is what a successful login or registration yields.
type Session struct {
	UserID   int64
	Username string
	Role     string
}

type Registration struct {
	FirstName       string
	LastName        string
	Phone           string
	Email           string
	Password        string
	ConfirmPassword string
	Addresses       []geo.Address
}

func (r Registration) Validate() error {
	switch {
	case strings.TrimSpace(r.FirstName) == "":
		return ErrMissingName
	case strings.TrimSpace(r.Email) == "":
		return ErrMissingEmail
	case r.Password == "":
		return ErrMissingPassword
	case r.Password != r.ConfirmPassword:
		return ErrPasswordMismatch
	}
	return nil
}
