package info

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/TomasB/clientinfo/internal/clientinfo"
	"github.com/TomasB/clientinfo/internal/data"
	"github.com/gin-gonic/gin"
)

const testMMDBPath = "../../../testdata/GeoLite2-Country-Test.mmdb"

func skipIfNoMMDB(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testMMDBPath); os.IsNotExist(err) {
		t.Skip("test MMDB file not found; download it first")
	}
}

func setupIntegrationRouter(t *testing.T) (*gin.Engine, *data.Store) {
	t.Helper()
	skipIfNoMMDB(t)

	gin.SetMode(gin.TestMode)
	store := data.NewStore(testMMDBPath, data.OpenMmdb)
	t.Cleanup(func() { store.Close() })

	svc := clientinfo.NewService(
		clientinfo.NewIPResolver(""),
		clientinfo.NewCountryResolver(store, nil),
		clientinfo.MssolaParser{},
	)

	r := gin.New()
	h := NewHandler(svc)
	r.GET("/api/v1/client-info", h.ClientInfo)
	return r, store
}

func TestIntegration_ForwardedGB(t *testing.T) {
	router, store := setupIntegrationRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/client-info?screen=1366x768", nil)
	req.Header.Set("X-Forwarded-For", "2.125.160.216")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp clientinfo.Info
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Country != "GB" {
		t.Errorf("expected country GB, got %s", resp.Country)
	}
	if resp.Device != clientinfo.DeviceLaptop {
		t.Errorf("expected device laptop, got %s", resp.Device)
	}
	if store.Opens() != 1 {
		t.Errorf("expected a single open, got %d", store.Opens())
	}
}

func TestIntegration_RepeatedRequestsReuseHandle(t *testing.T) {
	router, store := setupIntegrationRouter(t)

	for _, ip := range []string{"216.160.83.56", "2.125.160.216", "2001:218::"} {
		req, _ := http.NewRequest("GET", "/api/v1/client-info", nil)
		req.Header.Set("CF-Connecting-IP", ip)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	}
	if store.Opens() != 1 {
		t.Errorf("expected a single open, got %d", store.Opens())
	}
}
