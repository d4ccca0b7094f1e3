package marketdata_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/ErlanBelekov/data-drive/internal/marketdata"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "DataDrive/1.0" {
			t.Errorf("User-Agent = %q, want DataDrive/1.0", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_DecodesCoins(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":64000.5,"market_cap":1.2e12,"max_supply":21000000},
		{"id":"tether","symbol":"usdt","name":"Tether","current_price":1,"max_supply":null}
	]`)

	coins, err := marketdata.NewClient(time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("len = %d, want 2", len(coins))
	}
	if coins[0].ID != "bitcoin" || coins[0].CurrentPrice == nil || *coins[0].CurrentPrice != 64000.5 {
		t.Errorf("unexpected first coin %+v", coins[0])
	}
	if coins[1].MaxSupply != nil {
		t.Errorf("null max_supply decoded as %v", *coins[1].MaxSupply)
	}
	if coins[1].MarketCap != nil {
		t.Errorf("absent market_cap decoded as %v", *coins[1].MarketCap)
	}
}

func TestFetch_ObjectBody_NotAList(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"error":"rate limited"}`)

	_, err := marketdata.NewClient(time.Second).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrNotAList) {
		t.Errorf("want ErrNotAList, got %v", err)
	}
}

func TestFetch_Non2xx_Upstream(t *testing.T) {
	srv := serve(t, http.StatusTooManyRequests, `[]`)

	_, err := marketdata.NewClient(time.Second).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("want ErrUpstream, got %v", err)
	}
}

func TestFetch_InvalidJSON_Upstream(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html>oops</html>`)

	_, err := marketdata.NewClient(time.Second).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("want ErrUpstream, got %v", err)
	}
}

func TestFetch_BadURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com/data", "not a url", "http://"} {
		_, err := marketdata.NewClient(time.Second).Fetch(context.Background(), raw)
		if !errors.Is(err, domain.ErrBadSource) {
			t.Errorf("%q: want ErrBadSource, got %v", raw, err)
		}
	}
}

func TestFetch_Timeout_Upstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	_, err := marketdata.NewClient(50*time.Millisecond).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("want ErrUpstream, got %v", err)
	}
}
