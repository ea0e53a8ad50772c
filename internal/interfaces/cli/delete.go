package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var (
		bucketFlag string
		ids        []string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a set of records with independent per-item outcomes",
		Long: `Delete issues one delete per record and settles every outcome
independently: one failure never blocks or rolls back the others.  The
result is reported as "{n} deleted, {m} failed"; failed ids must be
reselected from refreshed data to retry.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bucket, err := parseBucket(bucketFlag)
			if err != nil {
				return err
			}

			if !yes {
				target := "the current selection"
				if len(ids) > 0 {
					target = fmt.Sprintf("%d record(s)", len(ids))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Delete %s from %s? [y/N]: ", target, bucket)
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, _ := reader.ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			sdk, err := newSDK()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			outcome, err := sdk.Locates().BulkDelete(ctx, bucket, ids)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
			for _, f := range outcome.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s: %s\n", f.ID, f.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bucketFlag, "bucket", "", "bucket the records belong to (required)")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "record ids (defaults to the server-side selection)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("bucket")
	return cmd
}
