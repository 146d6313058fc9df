package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	_ "github.com/ledgerbook/debt-ledger/docs"
	"github.com/ledgerbook/debt-ledger/internal/api/handler"
	"github.com/ledgerbook/debt-ledger/internal/core/domain"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
)

type routerGate struct {
	ports.SessionGate
}

func (routerGate) Authenticate(_ context.Context, token string) (*ports.TokenClaims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthenticated
	}
	return &ports.TokenClaims{Identity: domain.Identity{ID: "user_1"}, TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (routerGate) CurrentIdentity(ctx context.Context) (domain.Identity, bool) {
	return domain.IdentityFromContext(ctx)
}

type routerLedger struct {
	ports.LedgerService
}

func (routerLedger) GetPerson(_ context.Context, owner, id string) (*domain.Person, error) {
	if id != "p1" {
		return nil, domain.ErrPersonNotFound
	}
	if owner != "user_1" {
		return nil, domain.ErrForbidden
	}
	return &domain.Person{ID: "p1", UserID: owner, Name: "Alice"}, nil
}

func newTestRouter() http.Handler {
	return NewRouter(Dependencies{
		Ledger:     routerLedger{},
		Gate:       routerGate{},
		Checks:     map[string]handler.Checker{"mongodb": func(context.Context) error { return nil }},
		Log:        zerolog.Nop(),
		Registerer: prometheus.NewRegistry(),
	})
}

func serve(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		name   string
		method string
		target string
		token  string
		code   int
		body   string
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK, `"status":"ok"`},
		{"readiness", http.MethodGet, "/health/ready", "", http.StatusOK, `"mongodb"`},
		{"ledger requires auth", http.MethodGet, "/v1/people/p1", "", http.StatusUnauthorized, "missing authorization header"},
		{"bad token", http.MethodGet, "/v1/people/p1", "bad", http.StatusUnauthorized, "invalid token"},
		{"get person", http.MethodGet, "/v1/people/p1", "good", http.StatusOK, `"name":"Alice"`},
		{"unknown person", http.MethodGet, "/v1/people/zz", "good", http.StatusNotFound, "person not found"},
		{"me", http.MethodGet, "/auth/me", "good", http.StatusOK, `"id":"user_1"`},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(r, tc.method, tc.target, tc.token)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d (%s)", tc.code, rec.Code, rec.Body.String())
			}
			if tc.body != "" && !strings.Contains(rec.Body.String(), tc.body) {
				t.Fatalf("expected body to contain %q, got %s", tc.body, rec.Body.String())
			}
		})
	}
}

func TestRouter_ExposesMetrics(t *testing.T) {
	rec := serve(newTestRouter(), http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// Every API route must appear in the served OpenAPI document with its method.
func TestRouter_RoutesDocumented(t *testing.T) {
	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("doc is not valid JSON: %v", err)
	}

	e := NewRouter(Dependencies{
		Ledger:     routerLedger{},
		Gate:       routerGate{},
		Log:        zerolog.Nop(),
		Registerer: prometheus.NewRegistry(),
	})
	for _, rt := range e.Routes() {
		if !strings.HasPrefix(rt.Path, "/auth/") && !strings.HasPrefix(rt.Path, "/v1/") {
			continue
		}
		if strings.HasSuffix(rt.Path, "*") {
			continue
		}
		path := strings.ReplaceAll(rt.Path, ":id", "{id}")
		ops, ok := doc.Paths[path]
		if !ok {
			t.Errorf("%s missing from doc", path)
			continue
		}
		if _, ok := ops[strings.ToLower(rt.Method)]; !ok {
			t.Errorf("%s %s missing from doc", rt.Method, path)
		}
	}
}
