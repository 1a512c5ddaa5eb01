// Package domain enumerates the mock data domains the components can bind to.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain names one of the fixed mock data sets.
type Domain string

const (
	Products  Domain = "products"
	Users     Domain = "users"
	Employees Domain = "employees"
	Orders    Domain = "orders"
)

// ErrUnknownDomain is returned by Parse for names outside the fixed set.
var ErrUnknownDomain = errors.New("unknown data domain")

// All returns every domain in display order.
func All() []Domain {
	return []Domain{Products, Users, Employees, Orders}
}

// Names returns the string form of All.
func Names() []string {
	all := All()
	out := make([]string, len(all))
	for i, d := range all {
		out[i] = string(d)
	}
	return out
}

// Parse resolves s case-insensitively.
func Parse(s string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	if d.Valid() {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
}

// Valid reports whether d is one of the fixed domains.
func (d Domain) Valid() bool {
	switch d {
	case Products, Users, Employees, Orders:
		return true
	}
	return false
}

// Singular returns the display noun for one record of d.
func (d Domain) Singular() string {
	switch d {
	case Products:
		return "product"
	case Users:
		return "user"
	case Employees:
		return "employee"
	case Orders:
		return "order"
	}
	return string(d)
}

func (d Domain) String() string { return string(d) }
