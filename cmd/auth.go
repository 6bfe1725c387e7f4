package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpavlovic/racuni/internal/config"
	"github.com/mpavlovic/racuni/internal/google"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to the Gmail and Drive account",
		Long: `Run the one-time OAuth consent flow: open the printed URL in a browser,
grant access and paste the authorization code back here. The resulting token
pair is stored locally and refreshed automatically by later runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			conf := google.OAuthConfig(cfg.ClientID, cfg.ClientSecret)
			tokens := google.NewTokenStore(cfg.TokenFile)

			fmt.Fprintf(cmd.OutOrStdout(), "Open the following URL in a browser and authorize access:\n\n%s\n\n", google.AuthURL(conf))
			fmt.Fprint(cmd.OutOrStdout(), "Enter the authorization code: ")

			reader := bufio.NewReader(cmd.InOrStdin())
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code entered")
			}

			if err := google.Exchange(cmd.Context(), conf, tokens, code); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token stored at %s\n", tokens.Path())
			return nil
		},
	}
}
