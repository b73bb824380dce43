package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Ro-Data/compgrid/pkg/render"
)

type RenderCmd struct {
	profilePath string
	logger      zerolog.Logger
	output      io.Writer
}

// NewRenderCmd renders a report to standard output as Markdown.
func NewRenderCmd(logger zerolog.Logger, output io.Writer) *cobra.Command {
	rc := &RenderCmd{logger: logger, output: output}
	cmd := &cobra.Command{
		Use:   "render <config>",
		Short: "Render a comparison grid to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.profilePath, "profile", "", "Path to the warehouse profile")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, args []string) error {
	ctx := rc.logger.WithContext(cmd.Context())

	g, _, err := buildGrid(ctx, rc.profilePath, args[0])
	if err != nil {
		return err
	}
	if g == nil {
		return nil
	}

	markdown, err := render.Markdown(g)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(rc.output, markdown)
	return err
}
