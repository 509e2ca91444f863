package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/screen"
	"github.com/wonny/screener/internal/store"
	"github.com/wonny/screener/internal/universe"
	"github.com/wonny/screener/pkg/logger"
)

var symbolRe = regexp.MustCompile(`^[A-Z]{1,6}(-[A-Z])?$`)

// ScreenHandler handles the screening API endpoints
// ⭐ SSOT: screening API handlers live in this struct only
type ScreenHandler struct {
	universe     *universe.Provider
	orchestrator *screen.Orchestrator
	fetcher      screen.Fetcher
	sessions     *store.SessionRepository
	logger       *logger.Logger
}

// NewScreenHandler creates a new screen handler. sessions may be nil
// when no database is configured.
func NewScreenHandler(
	provider *universe.Provider,
	orchestrator *screen.Orchestrator,
	fetcher screen.Fetcher,
	sessions *store.SessionRepository,
	log *logger.Logger,
) *ScreenHandler {
	return &ScreenHandler{
		universe:     provider,
		orchestrator: orchestrator,
		fetcher:      fetcher,
		sessions:     sessions,
		logger:       log,
	}
}

// Screen runs the full screening pipeline and returns the ranked passers
// GET /api/screen
func (h *ScreenHandler) Screen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	symbols := h.universe.Symbols(ctx)

	report, err := h.orchestrator.ScreenUniverse(ctx, symbols)
	if err != nil {
		h.logger.WithError(err).Error("Screening run failed")
		respondError(w, http.StatusBadGateway, "Screening failed: market data provider unavailable")
		return
	}

	// The ranked list omits raw history; /api/chart serves the series
	results := make([]contracts.EnrichedStock, len(report.Qualified))
	for i, stock := range report.Qualified {
		results[i] = *stock
		results[i].History = nil
		results[i].Indicators = nil
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":    results,
		"count":   len(results),
		"session": report.Session,
	})
}

// GetStock returns everything known about one symbol
// GET /api/stock/{symbol}
func (h *ScreenHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol, ok := pathSymbol(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid symbol")
		return
	}

	stock, err := h.fetcher.FetchDetails(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Warn("Stock detail lookup failed")
		respondError(w, http.StatusNotFound, "symbol not found or provider unavailable")
		return
	}

	stock.History = nil
	respondData(w, stock)
}

// GetChart returns the price series with SMA overlays
// GET /api/chart/{symbol}
func (h *ScreenHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	symbol, ok := pathSymbol(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid symbol")
		return
	}

	chart, err := h.orchestrator.ChartData(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Warn("Chart lookup failed")
		respondError(w, http.StatusNotFound, "symbol not found or provider unavailable")
		return
	}

	respondData(w, chart)
}

// GetMovers returns the market movers board
// GET /api/movers
func (h *ScreenHandler) GetMovers(w http.ResponseWriter, r *http.Request) {
	movers, err := h.orchestrator.MarketMovers(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Movers lookup failed")
		respondError(w, http.StatusBadGateway, "market data provider unavailable")
		return
	}

	respondData(w, movers)
}

// GetSessions returns recent persisted screening sessions
// GET /api/sessions
func (h *ScreenHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		respondError(w, http.StatusServiceUnavailable, "result persistence is not configured")
		return
	}

	sessions, err := h.sessions.GetRecent(r.Context(), 20)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load sessions")
		respondError(w, http.StatusInternalServerError, "failed to load sessions")
		return
	}

	respondData(w, sessions)
}

func pathSymbol(r *http.Request) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["symbol"]))
	if !symbolRe.MatchString(symbol) {
		return "", false
	}
	return symbol, true
}
