package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetBytes_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" || got == "Go-http-client/1.1" {
			t.Errorf("request missing browser User-Agent, got %q", got)
		}
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 3)
	body, err := c.GetBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetBytes() error = %v", err)
	}
	if len(body) == 0 {
		t.Error("GetBytes() returned empty body")
	}
}

func TestGetBytes_RateLimitedIsImmediate(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 3)
	_, err := c.GetBytes(context.Background(), srv.URL)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("GetBytes() error = %v, want ErrRateLimited", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1 (429 must not be retried)", n)
	}
}

func TestGetBytes_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 3)
	c.backoffBase = time.Millisecond
	body, err := c.GetBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetBytes() error = %v", err)
	}
	if string(body) != "recovered" {
		t.Errorf("body = %q, want %q", body, "recovered")
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("server called %d times, want 3", n)
	}
}

func TestGetBytes_ExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 2)
	c.backoffBase = time.Millisecond
	_, err := c.GetBytes(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("GetBytes() error = nil, want exhaustion error")
	}
	if errors.Is(err, ErrRateLimited) {
		t.Error("5xx exhaustion must not be reported as rate limiting")
	}
}

func TestGetDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Title</h1></body></html>`))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 1)
	doc, err := c.GetDocument(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Title" {
		t.Errorf("h1 text = %q, want %q", got, "Title")
	}
}
