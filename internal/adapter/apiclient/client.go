package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vorrawut/poon-sub000/internal/domain"
)

// DefaultTimeout bounds every request made with the default http.Client
const DefaultTimeout = 10 * time.Second

// Error is a failed envelope or a non-2xx response
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Is lets callers match API errors against domain sentinels
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrInvalidInput:
		return e.Status == http.StatusBadRequest
	}
	return false
}

// envelope is the wire shape every endpoint answers with
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// PortfolioView is the GET /api/portfolios payload
type PortfolioView struct {
	Portfolios []domain.Portfolio         `json:"portfolios"`
	Positions  []domain.PortfolioPosition `json:"positions"`
}

var (
	_ domain.AccountGateway     = (*Client)(nil)
	_ domain.TransactionGateway = (*Client)(nil)
	_ domain.PortfolioGateway   = (*Client)(nil)
)

// Client talks to the mock API and implements the three store gateways
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL. A nil httpClient gets a logging client with DefaultTimeout.
func New(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   DefaultTimeout,
			Transport: &loggingTransport{base: http.DefaultTransport, log: log},
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ListAccounts calls GET /api/accounts
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := c.do(ctx, http.MethodGet, "/api/accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SyncAccount calls POST /api/accounts/{id}/sync
func (c *Client) SyncAccount(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	if err := c.do(ctx, http.MethodPost, "/api/accounts/"+url.PathEscape(id)+"/sync", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// LinkBankAccount calls POST /api/bank/link
func (c *Client) LinkBankAccount(ctx context.Context, req domain.LinkRequest) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := c.do(ctx, http.MethodPost, "/api/bank/link", req, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ListTransactions calls GET /api/transactions
func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions", nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// ImportTransactions calls POST /api/transactions/import
func (c *Client) ImportTransactions(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	var result domain.ImportResult
	if err := c.do(ctx, http.MethodPost, "/api/transactions/import", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAssets calls GET /api/assets
func (c *Client) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	var assets []domain.Asset
	if err := c.do(ctx, http.MethodGet, "/api/assets", nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// FetchPrices calls GET /api/prices?symbols=...
func (c *Client) FetchPrices(ctx context.Context, symbols []string) ([]domain.PriceData, error) {
	query := url.Values{"symbols": {strings.Join(symbols, ",")}}
	var quotes []domain.PriceData
	if err := c.do(ctx, http.MethodGet, "/api/prices?"+query.Encode(), nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// CreateAsset calls POST /api/assets
func (c *Client) CreateAsset(ctx context.Context, req domain.HoldingRequest) (*domain.Asset, error) {
	var asset domain.Asset
	if err := c.do(ctx, http.MethodPost, "/api/assets", req, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListPortfolios calls GET /api/portfolios
func (c *Client) ListPortfolios(ctx context.Context) (*PortfolioView, error) {
	var view PortfolioView
	if err := c.do(ctx, http.MethodGet, "/api/portfolios", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// DashboardMetrics calls GET /api/dashboard/metrics
func (c *Client) DashboardMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	var metrics domain.DashboardMetrics
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// do sends one request and unwraps the envelope into out
// Logic:
//  1. Encode body as JSON when present
//  2. Non-2xx or success:false becomes *Error carrying the envelope message (or a generic fallback)
//  3. Otherwise decode data into out
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decodeErr != nil || !env.Success {
		message := env.Message
		if decodeErr != nil || message == "" {
			message = fmt.Sprintf("request failed: %s %s", method, path)
		}
		return &Error{Status: resp.StatusCode, Message: message}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// IsNotFound reports whether err is an API 404
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
