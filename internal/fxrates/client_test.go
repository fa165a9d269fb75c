package fxrates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchRate_ParsesUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2023-07-01" {
			t.Errorf("path = %q, want /2023-07-01", r.URL.Path)
		}
		if got := r.URL.Query().Get("base"); got != "GBP" {
			t.Errorf("base = %q, want GBP", got)
		}
		if got := r.URL.Query().Get("symbols"); got != "USD" {
			t.Errorf("symbols = %q, want USD", got)
		}
		_, _ = w.Write([]byte(`{"amount":1.0,"base":"GBP","date":"2023-06-30","rates":{"USD":1.2693}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	rate, err := c.FetchRate(context.Background(), "2023-07-01", "GBP")
	if err != nil {
		t.Fatalf("FetchRate: %v", err)
	}
	if rate != 1.2693 {
		t.Errorf("rate = %v, want 1.2693", rate)
	}
}

func TestFetchRate_USDSkipsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("USD must not hit the service")
	}))
	defer srv.Close()

	rate, err := NewClient(srv.URL, 0).FetchRate(context.Background(), "2023-07-01", USD)
	if err != nil || rate != 1 {
		t.Errorf("FetchRate(USD) = %v,%v, want 1,nil", rate, err)
	}
}

func TestFetchRate_ErrorStatuses(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrRateUnavailable},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrRateUnavailable},
	}
	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		}))
		_, err := NewClient(srv.URL, time.Second).FetchRate(context.Background(), "2023-07-01", "EUR")
		srv.Close()
		if !errors.Is(err, c.want) {
			t.Errorf("status %d: err = %v, want %v", c.status, err, c.want)
		}
	}
}

func TestFetchRate_MissingUSDKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"EUR":0.9}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchRate(context.Background(), "2023-07-01", "GBP")
	if !errors.Is(err, ErrBadResponse) {
		t.Errorf("err = %v, want ErrBadResponse", err)
	}
}
