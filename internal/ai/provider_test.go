package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProviderGenerate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"[\"Read the brief\"]"}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(HTTPConfig{Endpoint: srv.URL, APIKey: "secret", Timeout: time.Second})
	text, err := p.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != `["Read the brief"]` {
		t.Fatalf("unexpected text %q", text)
	}
	if got.Prompt != "hello" || got.MaxTokens != 800 || got.Temperature != 0.7 {
		t.Fatalf("unexpected request body: %+v", got)
	}
}

func TestHTTPProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/garbage":
			_, _ = w.Write([]byte(`not json`))
		case "/empty":
			_, _ = w.Write([]byte(`{"text":"  "}`))
		}
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		endpoint string
		wantErr  error
	}{
		{name: "no endpoint", endpoint: "", wantErr: ErrUnavailable},
		{name: "server error", endpoint: srv.URL + "/down", wantErr: ErrUnavailable},
		{name: "not json", endpoint: srv.URL + "/garbage", wantErr: ErrMalformed},
		{name: "empty text", endpoint: srv.URL + "/empty", wantErr: ErrMalformed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewHTTPProvider(HTTPConfig{Endpoint: tc.endpoint, Timeout: time.Second})
			if _, err := p.Generate(context.Background(), "x"); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestHTTPProviderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewHTTPProvider(HTTPConfig{Endpoint: "http://127.0.0.1:1"})
	if _, err := p.Generate(ctx, "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
