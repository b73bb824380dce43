package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Ro-Data/compgrid/pkg/delivery"
	"github.com/Ro-Data/compgrid/pkg/render"
)

type SlackCmd struct {
	profilePath string
	logger      zerolog.Logger
}

// NewSlackCmd evaluates a report and posts it to the Slack channel declared
// in the document.
func NewSlackCmd(logger zerolog.Logger) *cobra.Command {
	sc := &SlackCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "slack <config>",
		Short: "Post a comparison grid report to Slack",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.profilePath, "profile", "", "Path to the warehouse profile")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (sc *SlackCmd) run(cmd *cobra.Command, args []string) error {
	ctx := sc.logger.WithContext(cmd.Context())

	g, doc, err := buildGrid(ctx, sc.profilePath, args[0])
	if err != nil {
		return err
	}
	if g == nil {
		return nil
	}

	if doc.Slack == "" {
		return fmt.Errorf("document %s declares no slack channel", doc.Filename)
	}

	token := os.Getenv("SLACK_BOT_ACCESS_TOKEN")
	if token == "" {
		sc.logger.Info().Msg("no slack token found")
		return nil
	}

	markdown, err := render.Markdown(g)
	if err != nil {
		return err
	}

	sc.logger.Info().Str("channel", doc.Slack).Msg("sending to slack")
	sender := delivery.NewSlackSender(token)
	return sender.Send(ctx, doc.Slack, render.SlackParts(markdown))
}
