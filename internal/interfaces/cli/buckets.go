package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

func errInvalidBucket(raw string) error {
	return fmt.Errorf("invalid bucket %q: expected one of needs_call, in_progress, completed", raw)
}

func newBucketsCmd() *cobra.Command {
	var (
		search       string
		untaggedOnly bool
		bucketFlag   string
	)

	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "List the three life-cycle buckets with live countdowns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sdk, err := newSDK()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			view, err := sdk.Locates().Buckets(ctx, search, untaggedOnly)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			printBucket := func(name string, records []types.RecordView) {
				fmt.Fprintf(w, "%s (%d)\n", name, len(records))
				for _, rec := range records {
					fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
						rec.ID, rec.WorkOrderNumber, rec.CustomerName, rec.Street, rec.Countdown, rec.Urgency)
				}
			}

			switch bucketFlag {
			case "":
				printBucket("NEEDS CALL", view.NeedsCall)
				printBucket("IN PROGRESS", view.InProgress)
				printBucket("COMPLETED", view.Completed)
			case string(types.BucketNeedsCall):
				printBucket("NEEDS CALL", view.NeedsCall)
			case string(types.BucketInProgress):
				printBucket("IN PROGRESS", view.InProgress)
			case string(types.BucketCompleted):
				printBucket("COMPLETED", view.Completed)
			default:
				return errInvalidBucket(bucketFlag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "substring filter on the needs-call bucket")
	cmd.Flags().BoolVar(&untaggedOnly, "untagged-only", false, "show only untagged records in the needs-call bucket")
	cmd.Flags().StringVar(&bucketFlag, "bucket", "", "limit output to one bucket")
	return cmd
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Trigger an upstream dashboard resync and refetch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sdk, err := newSDK()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			if err := sdk.Locates().Refresh(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "refreshed")
			return nil
		},
	}
}
