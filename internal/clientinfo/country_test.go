package clientinfo

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/TomasB/clientinfo/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLookup implements data.CountryLookup for testing.
type mockLookup struct {
	country string
	err     error
	queried atomic.Int64
}

func (m *mockLookup) LookupCountry(_ net.IP) (string, error) {
	m.queried.Add(1)
	return m.country, m.err
}

func (m *mockLookup) Close() error {
	return nil
}

// countingOpener returns a data.OpenFunc that counts its invocations.
func countingOpener(lookup data.CountryLookup, err error) (data.OpenFunc, *atomic.Int64) {
	var calls atomic.Int64
	return func(string) (data.CountryLookup, error) {
		calls.Add(1)
		if err != nil {
			return nil, err
		}
		return lookup, nil
	}, &calls
}

func notLocal(context.Context, string) bool { return false }

func TestCountryResolver_EdgeHeaderWins(t *testing.T) {
	open, opens := countingOpener(&mockLookup{country: "DE"}, nil)
	resolver := NewCountryResolver(data.NewStore("geo.mmdb", open), nil)

	for _, ip := range []string{"", "127.0.0.1", "8.8.8.8", "garbage"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("CF-IPCountry", "US")

		country, err := resolver.Resolve(context.Background(), req, ip)
		require.NoError(t, err)
		assert.Equal(t, "US", country, "ip %q", ip)
	}
	assert.Zero(t, opens.Load())
}

func TestCountryResolver_LocalAddressesSkipDatabase(t *testing.T) {
	open, opens := countingOpener(&mockLookup{country: "DE"}, errors.New("must not open"))
	resolver := NewCountryResolver(data.NewStore("geo.mmdb", open), nil)

	for _, ip := range []string{"", "127.0.0.1", "::1", "10.0.0.8", "192.168.1.1", "169.254.1.1", "fe80::1"} {
		country, err := resolver.Resolve(context.Background(), httptest.NewRequest("GET", "/", nil), ip)
		require.NoError(t, err, "ip %q", ip)
		assert.Empty(t, country, "ip %q", ip)
	}
	assert.Zero(t, opens.Load())
}

func TestCountryResolver_MalformedAddressSkipsDatabase(t *testing.T) {
	open, opens := countingOpener(&mockLookup{country: "DE"}, nil)
	resolver := NewCountryResolver(data.NewStore("geo.mmdb", open), notLocal)

	country, err := resolver.Resolve(context.Background(), httptest.NewRequest("GET", "/", nil), "not-an-ip")
	require.NoError(t, err)
	assert.Empty(t, country)
	assert.Zero(t, opens.Load())
}

func TestCountryResolver_DatabaseLookup(t *testing.T) {
	lookup := &mockLookup{country: "GB"}
	open, opens := countingOpener(lookup, nil)
	resolver := NewCountryResolver(data.NewStore("geo.mmdb", open), notLocal)

	for range 3 {
		country, err := resolver.Resolve(context.Background(), httptest.NewRequest("GET", "/", nil), "2.125.160.216")
		require.NoError(t, err)
		assert.Equal(t, "GB", country)
	}
	assert.EqualValues(t, 1, opens.Load())
	assert.EqualValues(t, 3, lookup.queried.Load())
}

func TestCountryResolver_NotInDatabase(t *testing.T) {
	open, _ := countingOpener(&mockLookup{}, nil)
	resolver := NewCountryResolver(data.NewStore("geo.mmdb", open), notLocal)

	country, err := resolver.Resolve(context.Background(), httptest.NewRequest("GET", "/", nil), "8.8.8.8")
	require.NoError(t, err)
	assert.Empty(t, country)
}

func TestCountryResolver_DatabaseUnavailable(t *testing.T) {
	open, opens := countingOpener(nil, errors.New("no such file or directory"))
	resolver := NewCountryResolver(data.NewStore("geo.mmdb", open), notLocal)

	_, err := resolver.Resolve(context.Background(), httptest.NewRequest("GET", "/", nil), "8.8.8.8")
	require.ErrorIs(t, err, data.ErrDatabaseUnavailable)

	// Not cached: the next call tries again.
	_, err = resolver.Resolve(context.Background(), httptest.NewRequest("GET", "/", nil), "8.8.8.8")
	require.ErrorIs(t, err, data.ErrDatabaseUnavailable)
	assert.EqualValues(t, 2, opens.Load())
}

func TestCountryResolver_LookupError(t *testing.T) {
	open, _ := countingOpener(&mockLookup{err: errors.New("corrupt record")}, nil)
	resolver := NewCountryResolver(data.NewStore("geo.mmdb", open), notLocal)

	_, err := resolver.Resolve(context.Background(), httptest.NewRequest("GET", "/", nil), "8.8.8.8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "8.8.8.8")
}

func TestCountryResolver_ConcurrentOpenOnce(t *testing.T) {
	release := make(chan struct{})
	var opens atomic.Int64
	store := data.NewStore("geo.mmdb", func(string) (data.CountryLookup, error) {
		opens.Add(1)
		<-release
		return &mockLookup{country: "JP"}, nil
	})
	resolver := NewCountryResolver(store, notLocal)

	var wg sync.WaitGroup
	countries := make(chan string, 50)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			country, err := resolver.Resolve(context.Background(), httptest.NewRequest("GET", "/", nil), "2001:218::")
			if err == nil {
				countries <- country
			}
		}()
	}
	close(release)
	wg.Wait()
	close(countries)

	n := 0
	for c := range countries {
		assert.Equal(t, "JP", c)
		n++
	}
	assert.Equal(t, 50, n)
	assert.EqualValues(t, 1, opens.Load())
}
