package data

import (
	"errors"
	"net"
)

// ErrDatabaseUnavailable is returned when the geo database cannot be opened.
var ErrDatabaseUnavailable = errors.New("geo database unavailable")

// CountryLookup defines the interface for IP-to-country lookups.
type CountryLookup interface {
	// LookupCountry returns the ISO-3166 alpha-2 country code for the given IP
	// address, or an empty string when the database has no country for it.
	LookupCountry(ip net.IP) (string, error)

	// Close releases any resources held by the lookup implementation.
	Close() error
}

// OpenFunc opens a CountryLookup from a database file.
type OpenFunc func(path string) (CountryLookup, error)
