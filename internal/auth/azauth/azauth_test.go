package azauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pysugar/launcher-accounts/internal/auth/provider"
	"github.com/pysugar/launcher-accounts/internal/db/models"
)

func newVerifyServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.AccessToken != "stored-token" {
			t.Errorf("unexpected token %q", req.AccessToken)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRevalidate_Success(t *testing.T) {
	srv := newVerifyServer(t, http.StatusOK, `{"id":42,"username":"Alex","uuid":"u-1","access_token":"fresh","email":"alex@example.com","role":{"name":"Member"}}`)
	adapter := New(srv.URL+"/", srv.Client())

	out, err := adapter.Revalidate(context.Background(), models.Account{ID: "acc-1", Type: models.AccountTypeTokenAuth, Name: "alex", AccessToken: "stored-token"})
	if err != nil {
		t.Fatalf("revalidate: %v", err)
	}
	if out.ID != "acc-1" || out.Name != "Alex" || out.UUID != "u-1" || out.AccessToken != "fresh" {
		t.Fatalf("unexpected account: %+v", out)
	}

	var m meta
	if err := json.Unmarshal([]byte(out.Meta), &m); err != nil {
		t.Fatalf("meta is not JSON: %v", err)
	}
	if m.UID != 42 || m.Email != "alex@example.com" {
		t.Fatalf("unexpected meta: %+v", m)
	}
}

func TestRevalidate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		embedded bool
	}{
		{name: "status error in 200 body", status: http.StatusOK, body: `{"status":"error","reason":"invalid_token","message":"Token expired"}`, embedded: true},
		{name: "error flag in 200 body", status: http.StatusOK, body: `{"error":true,"message":"Session revoked"}`, embedded: true},
		{name: "http failure", status: http.StatusInternalServerError, body: `oops`},
		{name: "missing token", status: http.StatusOK, body: `{"username":"Alex"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newVerifyServer(t, tt.status, tt.body)
			adapter := New(srv.URL, srv.Client())

			_, err := adapter.Revalidate(context.Background(), models.Account{ID: "acc-1", AccessToken: "stored-token"})
			if err == nil {
				t.Fatal("expected failure")
			}
			var embedded *provider.EmbeddedError
			if got := errors.As(err, &embedded); got != tt.embedded {
				t.Fatalf("embedded=%v, want %v (err=%v)", got, tt.embedded, err)
			}
		})
	}
}

func TestRevalidate_NotConfigured(t *testing.T) {
	adapter := New("", nil)
	if _, err := adapter.Revalidate(context.Background(), models.Account{AccessToken: "t"}); err == nil {
		t.Fatal("expected error without server url")
	}
}
