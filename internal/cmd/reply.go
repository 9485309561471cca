package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/denis-hade/hade-avatar-server/internal/api/voiceflow"
	"github.com/denis-hade/hade-avatar-server/internal/pkg/safehttp"
	"github.com/denis-hade/hade-avatar-server/internal/reply"
)

var (
	replySession string
	replyTimeout time.Duration
)

var replyCmd = &cobra.Command{
	Use:   "reply <text>",
	Short: "Send one user turn to the conversation runtime and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReply,
}

func init() {
	rootCmd.AddCommand(replyCmd)

	replyCmd.Flags().StringVarP(&replySession, "session", "s", "", "Session id (default: a new random id)")
	replyCmd.Flags().DurationVar(&replyTimeout, "timeout", 30*time.Second, "Overall deadline")
}

func runReply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Voiceflow.Validate(); err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("text is required")
	}
	session := replySession
	if session == "" {
		session = "hadectl-" + uuid.NewString()
	}

	client := voiceflow.NewClient(cfg.Voiceflow.APIKey,
		voiceflow.WithBaseURL(cfg.Voiceflow.BaseURL),
		voiceflow.WithVersionID(cfg.Voiceflow.VersionID),
		voiceflow.WithHTTPClient(safehttp.NewClient(safehttp.WithTimeout(cfg.Upstream.Timeout))),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), replyTimeout)
	defer cancel()

	resp, err := client.Interact(ctx, session, text)
	if err != nil {
		return err
	}

	out := reply.Extract(resp.Traces)
	if out == "" {
		out = cfg.Voiceflow.FallbackReply
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", session)
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
