package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/barkgg/barkdash/internal/models"
)

func TestFetchUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/usage" {
			t.Errorf("path = %s, want /usage", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-test" {
			t.Errorf("x-api-key = %q, want %q", got, "sk-test")
		}
		if got := r.URL.Query().Get("from"); got != "2024-06-01" {
			t.Errorf("from = %q, want 2024-06-01", got)
		}
		if got := r.URL.Query().Get("to"); got != "2024-06-14" {
			t.Errorf("to = %q, want 2024-06-14", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 7,
			"creditsRemaining": 93,
			"endpoints": {
				"/tweet": {"total": 7, "days": {"2024-06-01": {"total": 7, "hours": {"12": 7}}}}
			}
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	rng := models.DateRange{From: "2024-06-01", To: "2024-06-14"}

	record, err := client.FetchUsage(context.Background(), "sk-test", rng)
	if err != nil {
		t.Fatalf("FetchUsage() error: %v", err)
	}
	if record.Total != 7 || record.CreditsRemaining != 93 {
		t.Errorf("record = %+v", record)
	}
	if record.Endpoints["/tweet"].Days["2024-06-01"].Hours["12"] != 7 {
		t.Error("hourly data not decoded")
	}
}

func TestFetchUsageStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"Unauthorized", http.StatusUnauthorized, ErrInvalidKey},
		{"Forbidden", http.StatusForbidden, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := New(srv.URL, time.Second)
			_, err := client.FetchUsage(context.Background(), "sk-test", models.DateRange{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchUsageGenericError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.FetchUsage(context.Background(), "sk-test", models.DateRange{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", statusErr.StatusCode)
	}
}

func TestFetchUsageMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"total": `))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	record, err := client.FetchUsage(context.Background(), "sk-test", models.DateRange{})
	if err == nil {
		t.Error("expected parse error")
	}
	if record.Total != 0 || len(record.Endpoints) != 0 {
		t.Error("no partially-parsed record may be returned")
	}
}

func TestFetchUsageEmptyKey(t *testing.T) {
	client := New("http://localhost:0", time.Second)
	if _, err := client.FetchUsage(context.Background(), "", models.DateRange{}); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestFetchMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metrics" {
			t.Errorf("path = %s, want /metrics", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"/tweet": {"count": 5, "meanMs": 10, "maxMs": 50, "p50Ms": 8, "p95Ms": 30, "p99Ms": 45}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	metrics, err := client.FetchMetrics(context.Background(), "sk-test")
	if err != nil {
		t.Fatalf("FetchMetrics() error: %v", err)
	}
	if metrics["/tweet"].Count != 5 {
		t.Errorf("metrics = %+v", metrics)
	}
}

func TestSendEmergencyAlert(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	if err := client.SendEmergencyAlert(context.Background(), "sk-test"); err != nil {
		t.Fatalf("SendEmergencyAlert() error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != "/emergency-alert" {
		t.Errorf("path = %s, want /emergency-alert", gotPath)
	}
}

func TestSendEmergencyAlertFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	if err := client.SendEmergencyAlert(context.Background(), "sk-test"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("error = %v, want ErrInvalidKey", err)
	}
}
