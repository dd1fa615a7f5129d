// Package geo holds the address records shared by branches, client profiles and
// orders. The backend nests them as locality -> province -> country.
package geo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingLocality = errors.New("address has no locality")
	ErrMissingProvince = errors.New("locality has no province")
	ErrMissingCountry  = errors.New("province has no country")
)

type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Province struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Country *Country `json:"country,omitempty"`
}

type Locality struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Province *Province `json:"province,omitempty"`
}

type Address struct {
	ID         int64     `json:"id,omitempty"`
	Street     string    `json:"street"`
	Number     int       `json:"number"`
	PostalCode int       `json:"postal_code,omitempty"`
	Floor      int       `json:"floor,omitempty"`
	Apartment  int       `json:"apartment,omitempty"`
	Locality   *Locality `json:"locality,omitempty"`
}

// Validate checks the locality -> province -> country chain.
func (a Address) Validate() error {
	switch {
	case a.Locality == nil:
		return ErrMissingLocality
	case a.Locality.Province == nil:
		return ErrMissingProvince
	case a.Locality.Province.Country == nil:
		return ErrMissingCountry
	}
	return nil
}

func (a Address) Complete() bool { return a.Validate() == nil }

func (a Address) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d", a.Street, a.Number)
	if a.Floor > 0 || a.Apartment > 0 {
		fmt.Fprintf(&b, " (%d-%d)", a.Floor, a.Apartment)
	}
	if a.Locality != nil {
		b.WriteString(", " + a.Locality.Name)
		if p := a.Locality.Province; p != nil {
			b.WriteString(", " + p.Name)
			if p.Country != nil {
				b.WriteString(", " + p.Country.Name)
			}
		}
	}
	return b.String()
}
