package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/denis-hade/hade-avatar-server/internal/api/did"
	"github.com/denis-hade/hade-avatar-server/internal/clientkey"
	"github.com/denis-hade/hade-avatar-server/internal/pkg/safehttp"
)

var (
	clientKeyDomains string
	clientKeyTimeout time.Duration
)

var clientKeyCmd = &cobra.Command{
	Use:   "client-key",
	Short: "Acquire the avatar service client key once and print it",
	Long: `Runs the same read / create / read-back sequence the relay's
/did/client-key endpoint uses and prints the JSON result.`,
	RunE: runClientKey,
}

func init() {
	rootCmd.AddCommand(clientKeyCmd)

	clientKeyCmd.Flags().StringVar(&clientKeyDomains, "domains", "", "Comma-separated allowed domains (default: did.allowed_domain)")
	clientKeyCmd.Flags().DurationVar(&clientKeyTimeout, "timeout", time.Minute, "Overall deadline")
}

func runClientKey(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.DID.Validate(); err != nil {
		return err
	}

	domains := cfg.DID.AllowedDomain
	if clientKeyDomains != "" {
		domains = clientKeyDomains
	}

	client := did.NewClient(cfg.DID.Username, cfg.DID.Password,
		did.WithBaseURL(cfg.DID.BaseURL),
		did.WithHTTPClient(safehttp.NewClient(safehttp.WithTimeout(cfg.Upstream.Timeout))),
	)
	svc := clientkey.NewService(client, did.SplitDomains(domains),
		clientkey.WithExistsPredicate(clientkey.ContainsMarker(cfg.DID.ExistsMarker)),
		clientkey.WithLogger(newLogger()),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), clientKeyTimeout)
	defer cancel()

	res, err := svc.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquisition failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
