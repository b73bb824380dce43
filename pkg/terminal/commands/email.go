package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Ro-Data/compgrid/pkg/delivery"
	"github.com/Ro-Data/compgrid/pkg/render"
)

type EmailCmd struct {
	profilePath string
	smtpHost    string
	smtpPort    int
	logger      zerolog.Logger
}

// NewEmailCmd evaluates a report and delivers it by email to the
// recipients declared in the document.
func NewEmailCmd(logger zerolog.Logger) *cobra.Command {
	ec := &EmailCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "email <config>",
		Short: "Send a comparison grid report by email",
		Args:  cobra.ExactArgs(1),
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.profilePath, "profile", "", "Path to the warehouse profile")
	cmd.Flags().StringVar(&ec.smtpHost, "smtp-host", "smtp.gmail.com", "SMTP server host")
	cmd.Flags().IntVar(&ec.smtpPort, "smtp-port", 587, "SMTP server port")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (ec *EmailCmd) run(cmd *cobra.Command, args []string) error {
	ctx := ec.logger.WithContext(cmd.Context())

	g, doc, err := buildGrid(ctx, ec.profilePath, args[0])
	if err != nil {
		return err
	}
	if g == nil {
		return nil
	}

	if doc.Email == "" {
		return fmt.Errorf("config %q declares no email recipients", doc.Name)
	}

	user := os.Getenv("DATA_EMAIL_USER")
	password := os.Getenv("DATA_EMAIL_PASSWORD")
	if user == "" || password == "" {
		ec.logger.Info().Msg("no email credentials found")
		return nil
	}

	body, err := render.HTML(g)
	if err != nil {
		return err
	}

	recipients := strings.Split(doc.Email, ",")
	for i := range recipients {
		recipients[i] = strings.TrimSpace(recipients[i])
	}

	ec.logger.Info().Str("recipients", strings.Join(recipients, ",")).Msg("sending to email")
	sender := delivery.NewEmailSender(ec.smtpHost, ec.smtpPort, user, password)
	return sender.Send(recipients, g.Title, body)
}
