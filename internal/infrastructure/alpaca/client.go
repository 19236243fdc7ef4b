package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tradebot-backend/internal/domain"

	"github.com/google/uuid"
)

// Client handles authenticated Alpaca API requests. Trading endpoints go to
// baseURL (live or paper), market data endpoints to dataURL.
type Client struct {
	apiKey     string
	secretKey  string
	baseURL    string
	dataURL    string
	httpClient *http.Client
}

// APIError captures structured error info returned by Alpaca.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "alpaca API error"
	}
	if e.Code != 0 || e.Message != "" {
		return fmt.Sprintf("alpaca API error %d (code=%d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("alpaca API error %d: %s", e.StatusCode, e.Body)
}

func parseAPIError(statusCode int, body []byte) error {
	var parsed struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && (parsed.Code != 0 || parsed.Message != "") {
		return &APIError{StatusCode: statusCode, Code: parsed.Code, Message: parsed.Message, Body: string(body)}
	}
	return &APIError{StatusCode: statusCode, Body: string(body)}
}

// NewClient creates a new authenticated Alpaca client.
func NewClient(apiKey, secretKey, baseURL, dataURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		dataURL:    strings.TrimRight(dataURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, fullURL string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("APCA-API-KEY-ID", c.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", c.secretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// TestConnection checks that the API credentials are valid.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.GetAccount(ctx)
	return err
}

// GetAccount retrieves a fresh account snapshot.
func (c *Client) GetAccount(ctx context.Context) (*domain.Account, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/v2/account", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Equity      string `json:"equity"`
		LastEquity  string `json:"last_equity"`
		BuyingPower string `json:"buying_power"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	equity, _ := strconv.ParseFloat(resp.Equity, 64)
	lastEquity, _ := strconv.ParseFloat(resp.LastEquity, 64)
	buyingPower, _ := strconv.ParseFloat(resp.BuyingPower, 64)

	return &domain.Account{
		Equity:      equity,
		LastEquity:  lastEquity,
		BuyingPower: buyingPower,
	}, nil
}

// GetPosition returns the open position for symbol, or (nil, nil) when flat.
func (c *Client) GetPosition(ctx context.Context, symbol string) (*domain.Position, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/v2/positions/"+url.PathEscape(symbol), nil)
	if err != nil {
		// Alpaca answers 404 "position does not exist" for flat symbols.
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var resp struct {
		Symbol        string `json:"symbol"`
		Qty           string `json:"qty"`
		AvgEntryPrice string `json:"avg_entry_price"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	qty, _ := strconv.ParseFloat(resp.Qty, 64)
	avgEntry, _ := strconv.ParseFloat(resp.AvgEntryPrice, 64)

	return &domain.Position{
		Symbol:        resp.Symbol,
		Quantity:      int(qty),
		AvgEntryPrice: avgEntry,
	}, nil
}

// GetPrice returns the last trade price for symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/v2/stocks/%s/trades/latest", c.dataURL, url.PathEscape(symbol))
	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Trade struct {
			Price float64 `json:"p"`
		} `json:"trade"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, err
	}
	if resp.Trade.Price <= 0 {
		return 0, fmt.Errorf("no last trade for %s", symbol)
	}
	return resp.Trade.Price, nil
}

// GetMinuteBars returns up to limit one-minute bars for symbol, oldest first.
func (c *Client) GetMinuteBars(ctx context.Context, symbol string, limit int) ([]domain.Bar, error) {
	u := fmt.Sprintf("%s/v2/stocks/%s/bars?timeframe=1Min&limit=%d", c.dataURL, url.PathEscape(symbol), limit)
	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Bars []struct {
			Timestamp time.Time `json:"t"`
			Open      float64   `json:"o"`
			High      float64   `json:"h"`
			Low       float64   `json:"l"`
			Close     float64   `json:"c"`
			Volume    float64   `json:"v"`
		} `json:"bars"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	bars := make([]domain.Bar, len(resp.Bars))
	for i, b := range resp.Bars {
		bars[i] = domain.Bar{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	return bars, nil
}

// GetLastClosedOrder returns the most recent closed order for symbol that has
// a fill price, or (nil, nil) when none exists.
func (c *Client) GetLastClosedOrder(ctx context.Context, symbol string) (*domain.Order, error) {
	u := fmt.Sprintf("%s/v2/orders?status=closed&limit=10&symbols=%s", c.baseURL, url.QueryEscape(symbol))
	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var resp []struct {
		ID             string  `json:"id"`
		Symbol         string  `json:"symbol"`
		Side           string  `json:"side"`
		Qty            string  `json:"qty"`
		Status         string  `json:"status"`
		FilledAvgPrice *string `json:"filled_avg_price"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	for _, o := range resp {
		if o.Symbol != symbol || o.FilledAvgPrice == nil {
			continue
		}
		fill, err := strconv.ParseFloat(*o.FilledAvgPrice, 64)
		if err != nil || fill <= 0 {
			continue
		}
		qty, _ := strconv.ParseFloat(o.Qty, 64)
		return &domain.Order{
			ID:             o.ID,
			Symbol:         o.Symbol,
			Side:           domain.Side(o.Side),
			Quantity:       int(qty),
			Status:         o.Status,
			FilledAvgPrice: fill,
		}, nil
	}
	return nil, nil
}

// SubmitBracketOrder submits a limit entry with paired stop-loss and
// take-profit legs in a single atomic order.
func (c *Client) SubmitBracketOrder(ctx context.Context, intent *domain.TradeIntent) (*domain.Order, error) {
	payload := map[string]any{
		"symbol":          intent.Symbol,
		"qty":             strconv.Itoa(intent.Quantity),
		"side":            string(intent.Side),
		"type":            "limit",
		"time_in_force":   "gtc",
		"limit_price":     fmt.Sprintf("%.2f", intent.EntryPrice),
		"order_class":     "bracket",
		"client_order_id": uuid.NewString(),
		"stop_loss": map[string]string{
			"stop_price": fmt.Sprintf("%.2f", intent.StopLoss),
		},
		"take_profit": map[string]string{
			"limit_price": fmt.Sprintf("%.2f", intent.TakeProfit),
		},
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/v2/orders", payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
		Side   string `json:"side"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	return &domain.Order{
		ID:       resp.ID,
		Symbol:   resp.Symbol,
		Side:     domain.Side(resp.Side),
		Quantity: intent.Quantity,
		Status:   resp.Status,
	}, nil
}

// GetTradableSymbols returns active, tradable symbols on the major US
// exchanges.
func (c *Client) GetTradableSymbols(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/v2/assets?status=active", nil)
	if err != nil {
		return nil, err
	}

	var assets []struct {
		Symbol   string `json:"symbol"`
		Exchange string `json:"exchange"`
		Tradable bool   `json:"tradable"`
	}
	if err := json.Unmarshal(body, &assets); err != nil {
		return nil, err
	}

	var symbols []string
	for _, a := range assets {
		switch a.Exchange {
		case "NASDAQ", "NYSE", "AMEX":
			if a.Tradable {
				symbols = append(symbols, a.Symbol)
			}
		}
	}
	return symbols, nil
}

// compile-time checks
var (
	_ domain.MarketDataGateway = (*Client)(nil)
	_ domain.OrderRouter       = (*Client)(nil)
)
