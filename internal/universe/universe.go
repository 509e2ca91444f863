// Package universe resolves the symbol universe a screening run covers.
package universe

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/screener/internal/cache"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// sourceURL lists the current S&P 500 constituents
const sourceURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// cacheKey for the resolved symbol list
const cacheKey = "universe:sp500"

// symbolRe accepts plain tickers plus share-class suffixes (BRK.B)
var symbolRe = regexp.MustCompile(`^[A-Z]{1,6}(\.[A-Z])?$`)

// fallbackSymbols keeps screening alive when the constituents page is
// unreachable or its markup changed
var fallbackSymbols = []string{
	"AAPL", "MSFT", "AMZN", "GOOGL", "META", "TSLA", "NVDA", "AMD",
	"INTC", "ADBE", "CSCO", "PYPL", "NFLX", "PEP", "KO", "DIS",
	"CMCSA", "T", "VZ", "WMT", "HD", "MCD", "SBUX", "NKE",
	"PG", "JNJ", "PFE", "UNH", "V", "MA",
}

// Provider resolves and caches the screening universe
type Provider struct {
	httpClient *httputil.Client
	cache      cache.Store
	logger     *logger.Logger
	maxSymbols int
	sourceURL  string
}

// New creates a new Provider. maxSymbols caps the universe so a single
// run cannot exhaust the upstream API credit budget.
func New(httpClient *httputil.Client, store cache.Store, maxSymbols int, log *logger.Logger) *Provider {
	return &Provider{
		httpClient: httpClient,
		cache:      store,
		logger:     log.WithField("module", "universe"),
		maxSymbols: maxSymbols,
		sourceURL:  sourceURL,
	}
}

// WithSourceURL overrides the constituents source
func (p *Provider) WithSourceURL(url string) *Provider {
	p.sourceURL = url
	return p
}

// Symbols returns the capped symbol universe. A failed or empty scrape
// degrades to the built-in fallback list rather than an error: a stale
// or reduced universe still screens.
func (p *Provider) Symbols(ctx context.Context) []string {
	var cached []string
	if p.cache.Get(ctx, cacheKey, &cached) {
		return p.cap(cached)
	}

	symbols, err := p.scrape(ctx)
	if err != nil || len(symbols) == 0 {
		p.logger.WithError(err).Warn("Constituents scrape failed, using fallback universe")
		return p.cap(fallbackSymbols)
	}

	p.cache.Set(ctx, cacheKey, symbols)
	return p.cap(symbols)
}

// scrape pulls the constituents table. Dotted share classes are
// rewritten to the dashed form the quote provider expects.
func (p *Provider) scrape(ctx context.Context) ([]string, error) {
	resp, err := p.httpClient.Get(ctx, p.sourceURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("constituents page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var symbols []string
	doc.Find("table#constituents tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		symbol := strings.TrimSpace(cells.Eq(0).Text())
		if !symbolRe.MatchString(symbol) {
			return
		}
		symbol = strings.ReplaceAll(symbol, ".", "-")
		if _, dup := seen[symbol]; dup {
			return
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	})

	sort.Strings(symbols)

	p.logger.WithField("count", len(symbols)).Info("Scraped constituents universe")
	return symbols, nil
}

func (p *Provider) cap(symbols []string) []string {
	if p.maxSymbols > 0 && len(symbols) > p.maxSymbols {
		return symbols[:p.maxSymbols]
	}
	return symbols
}
