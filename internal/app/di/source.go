// Package di provides dependency injection factories for creating application components.
package di

import (
	"findata_backend/internal/platform/externalapi/yahoo"
	infrahttp "findata_backend/internal/platform/http"
)

// NewSource creates a fully configured Yahoo Finance data source with HTTP client.
func NewSource() *yahoo.YahooFinance {
	cfg := yahoo.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return yahoo.NewYahooFinance(cfg, httpClient)
}
