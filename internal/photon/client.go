package photon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"photon-trading-bot/internal/circuit"
)

// CookieSource supplies the venue session cookie. The venue authenticates
// with a browser session cookie rather than an API key, so the source may be
// a static value from config or a vault-backed secret.
type CookieSource interface {
	SessionCookie(ctx context.Context) (string, error)
}

// StaticCookie is a CookieSource holding a fixed value.
type StaticCookie string

func (s StaticCookie) SessionCookie(context.Context) (string, error) { return string(s), nil }

// Client talks to the Photon HTTP API.
type Client struct {
	baseURL    string
	cookies    CookieSource
	httpClient *http.Client
	breaker    *circuit.ErrorWindowBreaker
}

// NewClient creates a Photon API client. breaker may be nil to disable
// error-window protection.
func NewClient(baseURL string, cookies CookieSource, breaker *circuit.ErrorWindowBreaker) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookies:    cookies,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		breaker:    breaker,
	}
}

// GetMemescope fetches the raw listing feed.
func (c *Client) GetMemescope(ctx context.Context) (*MemescopeResponse, error) {
	var out MemescopeResponse
	if err := c.get(ctx, "/api/memescope/search", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCandles fetches OHLC bars for a pool. Bars come back in ascending
// timestamp order with duplicates removed; the collaborator guarantees
// neither.
func (c *Client) GetCandles(ctx context.Context, q CandleQuery) ([]Candle, error) {
	params := url.Values{}
	params.Set("pool_id", strconv.FormatInt(q.PoolID, 10))
	params.Set("from", strconv.FormatInt(q.From, 10))
	params.Set("to", strconv.FormatInt(q.To, 10))
	params.Set("interval", q.Interval)
	params.Set("amount_index", "0")
	params.Set("r_from", strconv.FormatInt(q.From, 10))
	params.Set("r_to", "0")
	params.Set("cb", "0")
	params.Set("currency", "usd")
	if q.PumpPoolID != 0 {
		params.Set("pump_pool_id", strconv.FormatInt(q.PumpPoolID, 10))
	}

	var raw []rawBar
	if err := c.get(ctx, "/api/charts/tradingview_range?"+params.Encode(), &raw); err != nil {
		return nil, err
	}

	candles := make([]Candle, 0, len(raw))
	for _, b := range raw {
		closePx, ok := AsFloat(b.C)
		if !ok {
			continue // bar without a usable close is worthless downstream
		}
		open, _ := AsFloat(b.O)
		high, _ := AsFloat(b.H)
		low, _ := AsFloat(b.L)
		vol, _ := AsFloat(b.Volume)
		candles = append(candles, Candle{
			Timestamp: b.Timestamp / 1000,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePx,
			Volume:    vol,
		})
	}

	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Timestamp < candles[j].Timestamp })
	deduped := candles[:0]
	for i, cd := range candles {
		if i > 0 && cd.Timestamp == candles[i-1].Timestamp {
			deduped[len(deduped)-1] = cd // last write wins for duplicate bars
			continue
		}
		deduped = append(deduped, cd)
	}
	return deduped, nil
}

// Purchase submits a buy or sell to the venue.
func (c *Client) Purchase(ctx context.Context, req PurchaseRequest) (PurchaseResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("photon: marshal purchase: %w", err)
	}
	var out PurchaseResponse
	if err := c.do(ctx, http.MethodPost, "/api/purchases", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	if c.breaker != nil {
		if ok, reason := c.breaker.Allow(); !ok {
			return fmt.Errorf("photon: circuit open: %s", reason)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("photon: build request: %w", err)
	}
	req.Header.Set("User-Agent", "photon-trading-bot/0.1")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookies != nil {
		cookie, err := c.cookies.SessionCookie(ctx)
		if err != nil {
			return fmt.Errorf("photon: session cookie: %w", err)
		}
		if cookie != "" {
			req.Header.Set("Cookie", cookie)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("photon: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("photon: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.recordFailure()
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("photon: parse response: %w", err)
	}
	return nil
}

func (c *Client) recordFailure() {
	if c.breaker != nil {
		c.breaker.RecordFailure()
	}
}
