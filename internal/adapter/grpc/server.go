package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/dashboard"
)

var _ DashboardServiceServer = (*Server)(nil)

// Server implements the DashboardService gRPC server
type Server struct {
	Workspace *dashboard.Workspace
	log       zerolog.Logger
}

// NewServer creates a new gRPC server instance
func NewServer(workspace *dashboard.Workspace, log zerolog.Logger) *Server {
	return &Server{
		Workspace: workspace,
		log:       log.With().Str("component", "grpc").Logger(),
	}
}

// NewGRPCServer builds a grpc.Server with auth and logging interceptors, the dashboard
// service, the standard health service and reflection
func NewGRPCServer(srv *Server, apiToken string, log zerolog.Logger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(log),
			AuthInterceptor(apiToken),
		),
	)

	RegisterDashboardServiceServer(grpcServer, srv)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	return grpcServer, healthServer
}

// GetDashboard handles the GetDashboard RPC
func (s *Server) GetDashboard(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot := s.Workspace.Snapshot(s.Workspace.Now())
	return toStruct(snapshot)
}

// ListPositions handles the ListPositions RPC
func (s *Server) ListPositions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	state := s.Workspace.Portfolio.State()
	return toStruct(map[string]any{
		"portfolios": state.Portfolios,
		"positions":  state.Positions,
	})
}

// trendsRequest is the optional filter carried by ListSpendingTrends
type trendsRequest struct {
	Preset     string   `json:"preset"`
	From       string   `json:"from"` // YYYY-MM-DD
	To         string   `json:"to"`   // YYYY-MM-DD
	Accounts   []string `json:"accounts"`
	Categories []string `json:"categories"`
	Search     *string  `json:"search"`
}

// ListSpendingTrends handles the ListSpendingTrends RPC.
// Any filter field present is merged into the active filters first.
func (s *Server) ListSpendingTrends(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in trendsRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	patch, changed, err := in.patch()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	state := s.Workspace.Transactions.State()
	if changed {
		state = s.Workspace.Transactions.SetFilters(patch)
	}

	return toStruct(map[string]any{
		"filters":            state.Filters,
		"spending_trends":    state.SpendingTrends,
		"category_breakdown": state.CategoryBreakdown,
		"transaction_count":  len(state.Filtered),
	})
}

// patch converts the request into a FilterPatch; changed is false when nothing was set
func (r trendsRequest) patch() (domain.FilterPatch, bool, error) {
	var patch domain.FilterPatch
	changed := false

	if r.From != "" || r.To != "" || r.Preset != "" {
		dateRange := domain.DateRange{Preset: domain.DatePreset(r.Preset)}
		if r.From != "" || r.To != "" {
			if r.From == "" || r.To == "" {
				return patch, false, errors.New("from and to must be set together")
			}
			from, err := time.Parse("2006-01-02", r.From)
			if err != nil {
				return patch, false, fmt.Errorf("invalid from date: %w", err)
			}
			to, err := time.Parse("2006-01-02", r.To)
			if err != nil {
				return patch, false, fmt.Errorf("invalid to date: %w", err)
			}
			if to.Before(from) {
				return patch, false, errors.New("invalid range: to is before from")
			}
			dateRange.From, dateRange.To = from, to
		}
		patch.DateRange = &dateRange
		changed = true
	}
	if r.Accounts != nil {
		patch.Accounts = r.Accounts
		changed = true
	}
	if r.Categories != nil {
		patch.Categories = r.Categories
		changed = true
	}
	if r.Search != nil {
		patch.Search = r.Search
		changed = true
	}
	return patch, changed, nil
}

// updatePriceRequest carries a manual quote
type updatePriceRequest struct {
	Symbol string           `json:"symbol"`
	Price  *decimal.Decimal `json:"price"`
}

// UpdatePrice handles the UpdatePrice RPC
func (s *Server) UpdatePrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in updatePriceRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid price format: %v", err)
	}
	if in.Price == nil {
		return nil, status.Error(codes.InvalidArgument, "price is required")
	}

	quote, err := s.Workspace.UpdatePrice(in.Symbol, *in.Price)
	if err != nil {
		return nil, mapError(err)
	}

	s.log.Info().Str("symbol", quote.Symbol).Str("price", quote.Close.String()).Msg("Price updated")

	state := s.Workspace.Portfolio.State()
	return toStruct(map[string]any{
		"quote":      quote,
		"portfolios": state.Portfolios,
	})
}

// toStruct converts a JSON-serialisable value into a protobuf Struct
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// fromStruct decodes a protobuf Struct into out through its JSON form
func fromStruct(s *structpb.Struct, out any) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	}

	errorMsg := err.Error()

	// Map common validation errors to InvalidArgument
	if strings.Contains(errorMsg, "must be positive") ||
		strings.Contains(errorMsg, "invalid") ||
		strings.Contains(errorMsg, "cannot be empty") {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	// Map "not found" errors to NotFound
	if strings.Contains(errorMsg, "not found") {
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
