package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/logger"
)

// Handler serves the mock /api endpoints from a Backend
type Handler struct {
	backend *Backend
	log     zerolog.Logger
}

// NewHandler creates a new mock API handler.
func NewHandler(backend *Backend, log zerolog.Logger) *Handler {
	return &Handler{
		backend: backend,
		log:     log.With().Str("component", "mockapi").Logger(),
	}
}

// Routes registers every endpoint on a fresh ServeMux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Accounts endpoints
	mux.HandleFunc("GET /api/accounts", h.ListAccounts)
	mux.HandleFunc("POST /api/accounts/{id}/sync", h.SyncAccount)
	mux.HandleFunc("POST /api/bank/link", h.LinkBankAccount)

	// Transactions endpoints
	mux.HandleFunc("GET /api/transactions", h.ListTransactions)
	mux.HandleFunc("POST /api/transactions/import", h.ImportTransactions)

	// Portfolio endpoints
	mux.HandleFunc("GET /api/assets", h.ListAssets)
	mux.HandleFunc("POST /api/assets", h.CreateAsset)
	mux.HandleFunc("GET /api/portfolios", h.ListPortfolios)
	mux.HandleFunc("GET /api/prices", h.FetchPrices)

	// Dashboard endpoints
	mux.HandleFunc("GET /api/dashboard/metrics", h.DashboardMetrics)

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		WriteData(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Route not found")
	})

	return mux
}

// ListAccounts handles GET /api/accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.backend.ListAccounts(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list accounts")
		return
	}
	WriteData(w, http.StatusOK, accounts)
}

// SyncAccount handles POST /api/accounts/{id}/sync
func (h *Handler) SyncAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Account ID is required")
		return
	}

	account, err := h.backend.SyncAccount(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to sync account")
		return
	}
	WriteData(w, http.StatusOK, account)
}

// LinkBankAccount handles POST /api/bank/link
func (h *Handler) LinkBankAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	accounts, err := h.backend.LinkBankAccount(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "Failed to link bank account")
		return
	}

	log := h.requestLog(r)
	log.Info().
		Str("provider", string(req.Provider)).
		Str("institution_id", req.InstitutionID).
		Int("accounts", len(accounts)).
		Msg("Bank account linked")
	WriteData(w, http.StatusCreated, accounts)
}

// ListTransactions handles GET /api/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.backend.ListTransactions(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list transactions")
		return
	}
	WriteData(w, http.StatusOK, transactions)
}

// ImportTransactions handles POST /api/transactions/import
func (h *Handler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	var req domain.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccountID == "" {
		WriteError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	result, err := h.backend.ImportTransactions(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "Failed to import transactions")
		return
	}
	WriteData(w, http.StatusOK, result)
}

// ListAssets handles GET /api/assets
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.backend.ListAssets(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list assets")
		return
	}
	WriteData(w, http.StatusOK, assets)
}

// CreateAsset handles POST /api/assets
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req domain.HoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asset, err := h.backend.CreateAsset(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "Failed to create asset")
		return
	}
	WriteData(w, http.StatusCreated, asset)
}

// ListPortfolios handles GET /api/portfolios
func (h *Handler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	result := h.backend.Portfolios()
	WriteData(w, http.StatusOK, map[string]any{
		"portfolios": result.Portfolios,
		"positions":  result.Positions,
	})
}

// FetchPrices handles GET /api/prices?symbols=AAPL,MSFT
func (h *Handler) FetchPrices(w http.ResponseWriter, r *http.Request) {
	symbols := splitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "symbols is required")
		return
	}

	quotes, err := h.backend.FetchPrices(r.Context(), symbols)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch prices")
		return
	}
	WriteData(w, http.StatusOK, quotes)
}

// DashboardMetrics handles GET /api/dashboard/metrics
func (h *Handler) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, h.backend.Metrics())
}

// fail logs server-side failures and answers with the error's envelope
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log := h.requestLog(r)
		log.Error().Err(err).Msg(message)
		WriteError(w, status, message)
		return
	}
	WriteError(w, status, err.Error())
}

// requestLog prefers the request-scoped logger set by RequestID
func (h *Handler) requestLog(r *http.Request) zerolog.Logger {
	log := logger.FromContext(r.Context())
	if log.GetLevel() == zerolog.Disabled {
		return h.log
	}
	return log.With().Str("component", "mockapi").Logger()
}

func splitSymbols(raw string) []string {
	symbols := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			symbols = append(symbols, part)
		}
	}
	return symbols
}
