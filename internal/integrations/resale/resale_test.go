package resale

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dan9191/pocket-property/internal/config"
	"github.com/sirupsen/logrus"
)

func newTestClient(baseURL string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(&config.Config{BackendURL: baseURL, BackendTimeout: 2 * time.Second}, log)
}

func TestSearchDecodesListings(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/resales" {
			t.Errorf("path: got %q, want /api/resales", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("search")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"street_name":"ANG MO KIO AVE 3","resale_price":300000,"town":"ANG MO KIO","flat_type":"3 ROOM"},
			{"street_name":"ANG MO KIO AVE 10","resale_price":"320000","town":"ANG MO KIO"},
			{"street_name":"ANG MO KIO AVE 3","resale_price":310000}
		]`)
	}))
	defer srv.Close()

	listings, err := newTestClient(srv.URL+"/").Search(context.Background(), "Ang Mo Kio")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "Ang Mo Kio" {
		t.Errorf("search param: got %q, want %q", gotQuery, "Ang Mo Kio")
	}
	if len(listings) != 3 {
		t.Fatalf("listings: got %d, want 3", len(listings))
	}
	if listings[1].ResalePrice != 320000 {
		t.Errorf("string price: got %v, want 320000", listings[1].ResalePrice)
	}
	if listings[0].Field("flat_type") != "3 ROOM" {
		t.Errorf("passthrough field: got %q", listings[0].Field("flat_type"))
	}
}

func TestSearchBlankTermSkipsRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	listings, err := newTestClient(srv.URL).Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("listings: got %d, want 0", len(listings))
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("requests: got %d, want 0", n)
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Search(context.Background(), "Bishan"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"not an array"}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Search(context.Background(), "Bishan"); err == nil {
		t.Fatal("expected error for non-array body")
	}
}

func TestSearchNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	}))
	defer srv.Close()

	listings, err := newTestClient(srv.URL).Search(context.Background(), "Bishan")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if listings == nil || len(listings) != 0 {
		t.Errorf("listings: got %v, want empty slice", listings)
	}
}
