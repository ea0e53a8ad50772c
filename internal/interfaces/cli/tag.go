package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

func tagFormFlags(cmd *cobra.Command, form *types.TagForm) {
	cmd.Flags().StringVar(&form.Name, "name", "", "caller name (defaults to the server profile)")
	cmd.Flags().StringVar(&form.Email, "email", "", "caller email (defaults to the server profile)")
	cmd.Flags().StringVar(&form.Tags, "tags", "", "free-text tags")
}

func newTagCmd() *cobra.Command {
	var form types.TagForm

	cmd := &cobra.Command{
		Use:   "tag <work-order-number>",
		Short: "Tag one work order as locates needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sdk, err := newSDK()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			if err := sdk.Locates().Tag(ctx, args[0], form); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tagged %s\n", args[0])
			return nil
		},
	}

	tagFormFlags(cmd, &form)
	return cmd
}

func newBulkTagCmd() *cobra.Command {
	var (
		form       types.TagForm
		bucketFlag string
		ids        []string
	)

	cmd := &cobra.Command{
		Use:   "bulk-tag",
		Short: "Tag a set of records as locates needed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bucket, err := parseBucket(bucketFlag)
			if err != nil {
				return err
			}

			sdk, err := newSDK()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			outcome, err := sdk.Locates().BulkTag(ctx, bucket, ids, form)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
			return nil
		},
	}

	tagFormFlags(cmd, &form)
	cmd.Flags().StringVar(&bucketFlag, "bucket", string(types.BucketNeedsCall), "bucket the records belong to")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "record ids (defaults to the server-side selection)")
	return cmd
}
