// Package httpapi is the thin HTTP query facade over a *store.Store
// (spec.md §6): GET /symbols, GET /price/{symbol}, GET /history/{symbol},
// and GET /health. The core does not define wire formats; this package
// does.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/kestrelfx/fxstore/bar"
	"github.com/kestrelfx/fxstore/store"
)

// oneHour and oneDay are the /price and default /history lookback
// windows (spec.md §6, matching the original source's constants).
const (
	oneHour = time.Hour
	oneDay  = 24 * time.Hour
)

// priceResponse is the wire shape for a single bar. Timestamps on the
// wire are seconds since epoch; prices are the fixed-point field
// divided by bar.PriceScale (spec.md §6).
type priceResponse struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    uint32  `json:"volume"`
}

func toPriceResponse(symbol string, b bar.Bar) priceResponse {
	return priceResponse{
		Symbol:    symbol,
		Timestamp: int64(b.Ts / 1_000_000_000), //nolint:gosec
		Open:      float64(b.Open) / bar.PriceScale,
		High:      float64(b.High) / bar.PriceScale,
		Low:       float64(b.Low) / bar.PriceScale,
		Close:     float64(b.Close) / bar.PriceScale,
		Volume:    b.Volume,
	}
}

type symbolsResponse struct {
	Symbols []string `json:"symbols"`
}

// NewRouter builds the HTTP handler for s, wrapped in a permissive CORS
// layer (spec.md §6, collaborator contract).
func NewRouter(s *store.Store) http.Handler {
	api := &api{store: s}

	r := mux.NewRouter()
	r.HandleFunc("/symbols", api.getSymbols).Methods(http.MethodGet)
	r.HandleFunc("/price/{symbol}", api.getPrice).Methods(http.MethodGet)
	r.HandleFunc("/history/{symbol}", api.getHistory).Methods(http.MethodGet)
	r.HandleFunc("/health", api.health).Methods(http.MethodGet)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)(r)
}

type api struct {
	store *store.Store
}

func (a *api) getSymbols(rw http.ResponseWriter, _ *http.Request) {
	writeJSON(rw, http.StatusOK, symbolsResponse{Symbols: a.store.ListSymbols()})
}

func (a *api) getPrice(rw http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	now := time.Now().UTC()
	seq, errFn := a.store.QueryRange(symbol, uint64(now.Add(-oneHour).UnixNano()), uint64(now.UnixNano())) //nolint:gosec

	var latest bar.Bar
	found := false
	for b := range seq {
		latest = b
		found = true
	}

	if err := errFn(); err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)

		return
	}

	if !found {
		http.Error(rw, "no recent price for "+symbol, http.StatusNotFound)

		return
	}

	writeJSON(rw, http.StatusOK, toPriceResponse(symbol, latest))
}

func (a *api) getHistory(rw http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	q := r.URL.Query()

	now := time.Now().UTC()

	endTs := uint64(now.UnixNano()) //nolint:gosec
	if s := q.Get("end"); s != "" {
		t, err := parseTimestamp(s)
		if err != nil {
			http.Error(rw, "invalid end: "+err.Error(), http.StatusBadRequest)

			return
		}
		endTs = uint64(t.UnixNano()) //nolint:gosec
	}

	startTs := endTs - uint64(oneDay.Nanoseconds()) //nolint:gosec
	if s := q.Get("start"); s != "" {
		t, err := parseTimestamp(s)
		if err != nil {
			http.Error(rw, "invalid start: "+err.Error(), http.StatusBadRequest)

			return
		}
		startTs = uint64(t.UnixNano()) //nolint:gosec
	}

	seq, errFn := a.store.QueryRange(symbol, startTs, endTs)

	var bars []bar.Bar
	for b := range seq {
		bars = append(bars, b)
	}

	if err := errFn(); err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)

		return
	}

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			http.Error(rw, "invalid limit", http.StatusBadRequest)

			return
		}
		if limit < len(bars) {
			bars = bars[len(bars)-limit:]
		}
	}

	responses := make([]priceResponse, len(bars))
	for i, b := range bars {
		responses[i] = toPriceResponse(symbol, b)
	}

	writeJSON(rw, http.StatusOK, responses)
}

func (a *api) health(rw http.ResponseWriter, _ *http.Request) {
	writeJSON(rw, http.StatusOK, map[string]string{"status": "ok", "service": "fxstore"})
}

// parseTimestamp accepts RFC3339, "YYYY-MM-DD HH:MM:SS", or
// "YYYY-MM-DD" (midnight UTC), in that order (spec.md §6).
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC(), nil
	}

	return time.Parse("2006-01-02", s)
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
