package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vorrawut/poon-sub000/internal/adapter/apiclient"
	"github.com/vorrawut/poon-sub000/internal/adapter/mockapi"
	"github.com/vorrawut/poon-sub000/internal/config"
	"github.com/vorrawut/poon-sub000/internal/usecase/dashboard"
	"github.com/vorrawut/poon-sub000/internal/usecase/seeder"
)

// app is the wired object graph shared by serve and report
type app struct {
	backend   *mockapi.Backend
	workspace *dashboard.Workspace
	log       zerolog.Logger
}

// newApp wires the seeded mock backend and the workspace on top of it
// Logic:
//  1. Generate the synthetic data set from the configured seed
//  2. Build the in-process mock backend over it
//  3. Point the workspace at the remote mock API when a base URL is set, otherwise at the backend
func newApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	policy, err := dashboard.ParseCascadePolicy(cfg.Workspace.CascadePolicy)
	if err != nil {
		return nil, err
	}

	generator := seeder.NewGenerator(seeder.Options{
		Seed:   cfg.Seed.Value,
		Months: cfg.Seed.Months,
	})
	data := generator.Generate()
	backend := mockapi.NewBackend(data, generator, time.Now)

	gateways := dashboard.Gateways{
		Accounts:     backend,
		Transactions: backend,
		Portfolio:    backend,
	}
	if cfg.MockAPI.BaseURL != "" {
		client := apiclient.New(cfg.MockAPI.BaseURL, nil, log)
		gateways = dashboard.Gateways{
			Accounts:     client,
			Transactions: client,
			Portfolio:    client,
		}
		log.Info().Str("base_url", cfg.MockAPI.BaseURL).Msg("Using remote mock API")
	}

	log.Info().
		Uint64("seed", cfg.Seed.Value).
		Int("accounts", len(data.Accounts)).
		Int("transactions", len(data.Transactions)).
		Int("assets", len(data.Assets)).
		Msg("Mock data generated")

	return &app{
		backend:   backend,
		workspace: dashboard.NewWorkspace(gateways, policy, nil, log),
		log:       log,
	}, nil
}

// initialize loads the workspace stores through their gateways
func (a *app) initialize(ctx context.Context) error {
	if err := a.workspace.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing workspace: %w", err)
	}
	a.log.Info().Str("cascade_policy", string(a.workspace.Policy())).Msg("Workspace ready")
	return nil
}
