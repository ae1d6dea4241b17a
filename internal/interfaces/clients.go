// Package interfaces defines service contracts for drip
package interfaces

import (
	"context"
	"encoding/json"

	"github.com/tomblance/drip/internal/models"
)

// RelayFetcher retrieves a target URL's JSON body through the relay chain.
type RelayFetcher interface {
	// FetchJSON walks the relay chain until one returns a parseable JSON
	// body. It fails with a typed relay error when every strategy is
	// exhausted.
	FetchJSON(ctx context.Context, targetURL string) (json.RawMessage, error)

	// TryFetchJSON is the swallowing variant: it returns nil instead of an
	// error when the chain is exhausted, for callers where missing data is
	// tolerable.
	TryFetchJSON(ctx context.Context, targetURL string) json.RawMessage
}

// QuoteClient provides access to the upstream finance quote API through the
// relay chain. All response shapes are parsed into typed models at this
// boundary.
type QuoteClient interface {
	// Search returns ranked symbol matches for free-text input.
	Search(ctx context.Context, query string) ([]models.SearchResult, error)

	// Validate checks symbol format and existence. Network failure yields
	// Valid=true with an "(unverified)" marker; only an explicit
	// not-found response from upstream yields Valid=false.
	Validate(ctx context.Context, symbol string) models.Validation

	// Resolve turns free-text input (ticker or ISIN-like identifier) into
	// a canonical symbol, consulting search when needed.
	Resolve(ctx context.Context, input string) (string, error)

	// GetDailySeries retrieves daily prices with dividend events across the
	// inclusive date range. Fails with a SymbolError naming the symbol when
	// upstream reports it unknown or returns an empty series.
	GetDailySeries(ctx context.Context, symbol, startDate, endDate string) (models.DailySeries, error)

	// GetDividendHistory retrieves daily prices with dividend events for
	// yield derivation. Same shape as GetDailySeries, but cached on the
	// slower dividend TTL.
	GetDividendHistory(ctx context.Context, symbol, startDate, endDate string) (models.DailySeries, error)

	// GetSparkBatch retrieves abbreviated history for many symbols in
	// bounded chunks with a pause between chunks.
	GetSparkBatch(ctx context.Context, symbols []string, rangeHint string) ([]models.SparkResult, error)

	// GetQuoteSummary retrieves the aggregated analyst modules for one
	// symbol.
	GetQuoteSummary(ctx context.Context, symbol string) (*models.AnalystSnapshot, error)

	// GetScreener retrieves currently-active symbols from a predefined
	// screener.
	GetScreener(ctx context.Context, screenerID string, count int) ([]models.ScreenerRow, error)
}

// GenAIClient provides access to a generative model for the report analyser.
type GenAIClient interface {
	// GenerateContent generates text from a prompt.
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
