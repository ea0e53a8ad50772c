// Package cli implements the locatectl operator commands on top of the Go
// SDK.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldlink/locate-sla/pkg/client"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

var (
	serverURL string
	timeout   time.Duration
)

// NewRootCmd builds the locatectl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "locatectl",
		Short:         "Operator CLI for the locate SLA tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultServer := os.Getenv("LOCATE_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "base URL of the locate-sla API")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		newBucketsCmd(),
		newRefreshCmd(),
		newCallCmd(),
		newTagCmd(),
		newBulkTagCmd(),
		newDeleteCmd(),
	)
	return root
}

// newSDK builds an SDK client against the configured server.
func newSDK() (*client.Client, error) {
	return client.NewClient(serverURL)
}

// cmdContext returns the command context bounded by the global timeout.
func cmdContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// parseBucket validates a --bucket flag value.
func parseBucket(raw string) (types.Bucket, error) {
	b := types.Bucket(raw)
	if !b.Valid() {
		return "", errInvalidBucket(raw)
	}
	return b, nil
}
