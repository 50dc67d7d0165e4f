// Package clientinfo derives descriptive attributes of the client behind an
// HTTP request: its IP address, ISO country, browser, operating system and
// device class.
//
// Values that cannot be determined are returned as empty strings. The only
// hard failure is an unavailable geo database, which GetClientInfo returns as
// an error wrapping data.ErrDatabaseUnavailable. Callers serving traffic
// should log that error and carry on without client info rather than fail the
// request; Middleware in internal/handler/info does exactly that.
//
// The header named by the operator-configured custom IP header is trusted
// verbatim and can be spoofed by any client that reaches the service without
// passing through a proxy that overwrites it.
package clientinfo
