package layant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) {
	return string(s), nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL: srv.URL,
		Lang:    "ar",
		Timeout: 5 * time.Second,
		RPS:     100,
		Burst:   10,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.SetTokenSource(staticTokens("test-token"))
	return client, srv
}

func TestLogin(t *testing.T) {
	t.Run("returns the token from the response envelope", func(t *testing.T) {
		var gotBody map[string]string
		var gotLang string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/Auth/Login" {
				t.Errorf("path = %s, want /Auth/Login", r.URL.Path)
			}
			if r.Header.Get("Authorization") != "" {
				t.Error("login must not send an Authorization header")
			}
			gotLang = r.Header.Get("LANG")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = w.Write([]byte(`{"data":{"jwt":"issued-token"}}`))
		}))

		token, err := client.Login(context.Background(), "dealer", "secret")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "issued-token" {
			t.Errorf("token = %q, want issued-token", token)
		}
		if gotBody["username"] != "dealer" || gotBody["password"] != "secret" {
			t.Errorf("request body = %v, want credentials", gotBody)
		}
		if gotLang != "ar" {
			t.Errorf("LANG header = %q, want ar", gotLang)
		}
	})

	t.Run("rejects a response without a token", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{}}`))
		}))

		_, err := client.Login(context.Background(), "dealer", "secret")
		if !errors.Is(err, ErrRemoteRejected) {
			t.Errorf("error = %v, want ErrRemoteRejected", err)
		}
	})
}

func TestGetSubscription(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Subscribtions/GetSubscribtion" {
			t.Errorf("path = %s, want /Subscribtions/GetSubscribtion", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["PhoneNumber"] != "0521234567" {
			t.Errorf("PhoneNumber = %q, want 0521234567", body["PhoneNumber"])
		}
		_, _ = w.Write([]byte(`[{"number":"0521234567","startDate":"01/01/2025 00:00","endDate":"31/01/2025 00:00"}]`))
	}))

	entries, err := client.GetSubscription(context.Background(), "0521234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].EndDate != "31/01/2025 00:00" {
		t.Errorf("EndDate = %q, want 31/01/2025 00:00", entries[0].EndDate)
	}
}

func TestCheckSubscriptionStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		active bool
	}{
		{name: "active marker", status: "فعال", active: true},
		{name: "inactive marker", status: "غير فعال", active: false},
		{name: "empty status", status: "", active: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"number":          map[string]string{"status": tt.status},
					"internet_UsedMB": 1024.0,
				})
			}))

			check, err := client.CheckSubscription(context.Background(), "0521234567")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if check.Active() != tt.active {
				t.Errorf("Active() = %v, want %v", check.Active(), tt.active)
			}
		})
	}
}

func TestExtendSendsDealParams(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Deals/Extend" {
			t.Errorf("path = %s, want /Deals/Extend", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{}`))
	}))

	duration := 30
	err := client.Extend(context.Background(), DealParams{
		Number:   "0521234567",
		Duration: &duration,
		UserPaid: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body["Number"] != "0521234567" {
		t.Errorf("Number = %v, want 0521234567", body["Number"])
	}
	if body["Duration"] != float64(30) {
		t.Errorf("Duration = %v, want 30", body["Duration"])
	}
	if body["UserPaid"] != true {
		t.Errorf("UserPaid = %v, want true", body["UserPaid"])
	}
	if _, present := body["SaleId"]; present {
		t.Error("SaleId must be omitted when unset")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "client rejection", status: http.StatusUnauthorized, wantErr: ErrRemoteRejected},
		{name: "not found is a rejection", status: http.StatusNotFound, wantErr: ErrRemoteRejected},
		{name: "server failure", status: http.StatusInternalServerError, wantErr: ErrNetwork},
		{name: "bad gateway", status: http.StatusBadGateway, wantErr: ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := client.GetSubscription(context.Background(), "0521234567")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("unreachable host", func(t *testing.T) {
		client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := client.GetSubscription(context.Background(), "0521234567")
		if !errors.Is(err, ErrNetwork) {
			t.Errorf("error = %v, want ErrNetwork", err)
		}
	})

	t.Run("undecodable body", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"unexpected":`))
		}))

		_, err := client.GetSubscription(context.Background(), "0521234567")
		if !errors.Is(err, ErrRemoteRejected) {
			t.Errorf("error = %v, want ErrRemoteRejected", err)
		}
	})
}

func TestAuthedCallWithoutTokenSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server")
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL: srv.URL,
		Lang:    "ar",
		Timeout: time.Second,
		RPS:     100,
		Burst:   1,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := client.GetSubscription(context.Background(), "0521234567"); err == nil {
		t.Fatal("expected error without a token source")
	}
}
