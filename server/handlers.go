package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/etnz/dca"
	"github.com/etnz/dca/renderer"
	"github.com/go-chi/chi/v5"
)

// maxBodySize bounds plan documents.
const maxBodySize = 1 << 20

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePlan handles POST /v1/plan
//
// The body is an input document, JSON unless the content type mentions yaml.
// Query parameters sort, desc and onlyBuy arrange the resulting lines.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	format := dca.JSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = dca.YAML
	}
	opts := renderer.PlanRenderOptions{SortBy: r.URL.Query().Get("sort")}
	opts.Desc, _ = strconv.ParseBool(r.URL.Query().Get("desc"))
	opts.OnlyBuy, _ = strconv.ParseBool(r.URL.Query().Get("onlyBuy"))
	if err := opts.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := dca.DecodeInput(http.MaxBytesReader(w, r.Body, maxBodySize), format)
	if err != nil {
		s.fail(w, "plan", err)
		return
	}
	mode := "rebalance"
	if in.OnlyBuy {
		mode = "buy_only"
	}
	PlanAssets.Observe(float64(len(in.Portfolio)))

	res, err := dca.Plan(r.Context(), in, s.prices, s.limit)
	if err != nil {
		PlanRequests.WithLabelValues(mode, "error").Inc()
		s.fail(w, "plan", err)
		return
	}
	PlanRequests.WithLabelValues(mode, "ok").Inc()

	arranged, err := renderer.Arrange(res, opts)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, arranged)
}

type priceResponse struct {
	Ticker string      `json:"ticker"`
	Price  json.Number `json:"price"`
}

// handlePrice handles GET /v1/prices/{ticker}
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	prices, err := dca.FetchPrices(r.Context(), s.prices, []string{ticker}, 1)
	if err != nil {
		if errors.Is(err, dca.ErrUnknownTicker) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.fail(w, "price", err)
		return
	}
	s.writeJSON(w, http.StatusOK, priceResponse{Ticker: ticker, Price: json.Number(prices[ticker].String())})
}

// fail maps err to its HTTP status.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	var invalidErr *dca.InvalidInputError
	var missingErr *dca.MissingPriceError
	switch {
	case errors.As(err, &invalidErr):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &missingErr):
		s.log.Warn().Err(err).Str("op", op).Str("ticker", missingErr.Ticker).Msg("price unavailable")
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error().Err(err).Str("op", op).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
