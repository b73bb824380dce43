package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Ro-Data/compgrid/pkg/config"
	"github.com/Ro-Data/compgrid/pkg/server"
	"github.com/Ro-Data/compgrid/pkg/services/grid"
	storesql "github.com/Ro-Data/compgrid/pkg/store/sql"
	"github.com/Ro-Data/compgrid/pkg/store/warehouse"
)

type ServeCmd struct {
	profilePath string
	addr        string
	logger      zerolog.Logger
}

// NewServeCmd starts the preview server: every config given on the command
// line is served as live-rendered HTML under its document name.
func NewServeCmd(logger zerolog.Logger) *cobra.Command {
	sc := &ServeCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "serve <config>...",
		Short: "Serve comparison grid previews over HTTP",
		Args:  cobra.MinimumNArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.profilePath, "profile", "", "Path to the warehouse profile")
	cmd.Flags().StringVar(&sc.addr, "addr", ":8080", "Listen address")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (sc *ServeCmd) run(cmd *cobra.Command, args []string) error {
	documents := make(map[string]*config.Document, len(args))
	for _, path := range args {
		doc, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		documents[doc.Name] = doc
	}

	db, err := warehouse.Open(sc.profilePath)
	if err != nil {
		return err
	}
	defer db.Close()

	api := server.NewWebAPI(sc.logger, server.Config{
		Addr:            sc.addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Composer:  grid.NewComposer(storesql.NewExecutor(db)),
			Documents: documents,
		},
	})

	return api.Start()
}
