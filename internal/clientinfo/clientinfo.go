package clientinfo

import (
	"context"
	"fmt"
	"net/http"
)

// Options carries per-request inputs that are not part of the HTTP request.
type Options struct {
	// Screen is the viewport size as "<width>x<height>", or "".
	Screen string `json:"screen" form:"screen"`
}

// Info describes the client behind a request. Empty fields are unknown.
type Info struct {
	UserAgent string `json:"userAgent,omitempty"`
	Browser   string `json:"browser,omitempty"`
	OS        string `json:"os,omitempty"`
	IP        string `json:"ip,omitempty"`
	Country   string `json:"country,omitempty"`
	Device    Device `json:"device,omitempty"`
}

// Service assembles Info from the individual resolvers.
type Service struct {
	ips       *IPResolver
	countries *CountryResolver
	parser    UAParser
}

// NewService wires the resolvers together. A nil parser defaults to
// MssolaParser.
func NewService(ips *IPResolver, countries *CountryResolver, parser UAParser) *Service {
	if parser == nil {
		parser = MssolaParser{}
	}
	return &Service{ips: ips, countries: countries, parser: parser}
}

// GetClientInfo resolves every attribute for req. It fails only when the
// country cannot be resolved because the geo database is unusable; callers
// should then proceed without client info.
func (s *Service) GetClientInfo(ctx context.Context, req *http.Request, opts Options) (Info, error) {
	userAgent := req.Header.Get(HeaderUserAgent)
	ip := s.ips.Resolve(req)

	country, err := s.countries.Resolve(ctx, req, ip)
	if err != nil {
		return Info{}, fmt.Errorf("resolve country: %w", err)
	}

	browser := s.parser.Browser(userAgent)
	os := s.parser.OS(userAgent)

	return Info{
		UserAgent: userAgent,
		Browser:   browser,
		OS:        os,
		IP:        ip,
		Country:   country,
		Device:    ClassifyDevice(opts.Screen, browser, os),
	}, nil
}
