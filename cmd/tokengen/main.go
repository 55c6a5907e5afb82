// Command tokengen mints a bearer token for a presentation client of approverd.
// The signing secret is read from JWT_SECRET, as the daemon does.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/approver/internal/config"
	"github.com/dtroode/approver/internal/model"
	"github.com/dtroode/approver/internal/token"
)

var (
	clientIDFlag string
	ttlFlag      time.Duration
)

var commandDefinition = &cobra.Command{
	Use:   "tokengen",
	Short: `Print a client token for approverd.`,
	Long: `
Print a signed bearer token for a presentation client. A new client ID is
generated unless --client-id is given. The client ID is printed to stderr.
`,
	Args: cobra.NoArgs,
	RunE: func(command *cobra.Command, _ []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}

		clientID, signed, err := generate(token.NewJWT(cfg.JWT.Secret, ttlFlag), clientIDFlag)
		if err != nil {
			return err
		}

		fmt.Fprintf(command.ErrOrStderr(), "client id: %s\n", clientID)
		fmt.Fprintln(command.OutOrStdout(), signed)
		return nil
	},
}

func init() {
	commandDefinition.Flags().StringVar(&clientIDFlag, "client-id", "", "client ID to issue the token for (default: new random ID)")
	commandDefinition.Flags().DurationVar(&ttlFlag, "ttl", token.DefaultTTL, "token lifetime")
}

func generate(tokens model.TokenManager, rawClientID string) (uuid.UUID, string, error) {
	clientID := uuid.New()
	if rawClientID != "" {
		parsed, err := uuid.Parse(rawClientID)
		if err != nil {
			return uuid.Nil, "", fmt.Errorf("failed to parse client id: %w", err)
		}
		clientID = parsed
	}

	signed, err := tokens.GenerateClientToken(clientID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return clientID, signed, nil
}

func main() {
	if err := commandDefinition.Execute(); err != nil {
		os.Exit(1)
	}
}
