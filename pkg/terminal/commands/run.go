// Package commands implements the compgrid subcommands.
package commands

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ro-Data/compgrid/pkg/config"
	"github.com/Ro-Data/compgrid/pkg/models/domain"
	"github.com/Ro-Data/compgrid/pkg/services/grid"
	storesql "github.com/Ro-Data/compgrid/pkg/store/sql"
	"github.com/Ro-Data/compgrid/pkg/store/warehouse"
)

// buildGrid loads and validates the document, opens the warehouse connection
// and evaluates the grid. A config error is logged with its file:line and
// reported as a skip (nil grid, nil error): the report run is abandoned but
// the process does not fail, matching the fail-fast-and-skip contract.
func buildGrid(ctx context.Context, profilePath, configPath string) (*domain.Grid, *config.Document, error) {
	logger := zerolog.Ctx(ctx)

	doc, err := config.Load(configPath)
	if err != nil {
		var cerr *domain.ConfigError
		if errors.As(err, &cerr) {
			logger.Error().Str("error", cerr.Error()).Msg("error reading config")
			return nil, nil, nil
		}
		return nil, nil, err
	}

	db, err := warehouse.Open(profilePath)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	composer := grid.NewComposer(storesql.NewExecutor(db))
	g, err := composer.BuildGrid(ctx, doc, grid.Anchor(time.Now()))
	if err != nil {
		return nil, nil, err
	}
	return g, doc, nil
}
