package eodhd

import (
	"context"
	"fmt"
	"net/url"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string  `json:"Code"`
	Exchange          string  `json:"Exchange"`
	Name              string  `json:"Name"`
	Type              string  `json:"Type"`
	Country           string  `json:"Country"`
	Currency          string  `json:"Currency"`
	ISIN              string  `json:"ISIN"`
	PreviousClose     float64 `json:"previousClose"`
	PreviousCloseDate string  `json:"previousCloseDate"`
}

// Ticker is the identifier Price expects for this result.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches for securities by name, ticker or ISIN.
func (c *Client) Search(ctx context.Context, searchTerm string) ([]SearchResult, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	apiURL := fmt.Sprintf("%s/search/%s?api_token=%s&fmt=json", c.baseURL, url.PathEscape(searchTerm), url.QueryEscape(c.apiKey))

	var results []SearchResult
	if err := c.get(ctx, apiURL, &results); err != nil {
		return nil, fmt.Errorf("eodhd search %q: %w", searchTerm, err)
	}
	return results, nil
}
