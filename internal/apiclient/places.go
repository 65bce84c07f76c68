package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/metrics"

	"github.com/tidwall/gjson"
)

type PlaceSuggestion struct {
	PlaceID     string `json:"placeId"`
	Description string `json:"description"`
}

// Autocomplete proxies Google Places Autocomplete so the API key never reaches the browser.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]PlaceSuggestion, error) {
	if c.PlacesKey == "" {
		return nil, domain.UpstreamError{Msg: "location search is not configured"}
	}
	q := url.Values{}
	q.Set("input", input)
	q.Set("key", c.PlacesKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PlacesURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}

	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		metrics.RecordUpstreamCall("GET places/autocomplete", "error", time.Since(start))
		return nil, domain.UpstreamError{Msg: "location search is unavailable", Err: err}
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		metrics.RecordUpstreamCall("GET places/autocomplete", "error", time.Since(start))
		return nil, domain.UpstreamError{Status: res.StatusCode, Err: err}
	}

	status := gjson.GetBytes(raw, "status").String()
	if res.StatusCode != http.StatusOK || (status != "OK" && status != "ZERO_RESULTS") {
		metrics.RecordUpstreamCall("GET places/autocomplete", "error", time.Since(start))
		return nil, domain.UpstreamError{Status: res.StatusCode, Msg: "location search is unavailable"}
	}
	metrics.RecordUpstreamCall("GET places/autocomplete", "ok", time.Since(start))

	out := []PlaceSuggestion{}
	gjson.GetBytes(raw, "predictions").ForEach(func(_, p gjson.Result) bool {
		out = append(out, PlaceSuggestion{
			PlaceID:     p.Get("place_id").String(),
			Description: p.Get("description").String(),
		})
		return true
	})
	return out, nil
}
