package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

func newCallCmd() *cobra.Command {
	var callType string

	cmd := &cobra.Command{
		Use:   "call <record-id>",
		Short: "Record a locate call for one work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct := types.CallType(strings.ToUpper(callType))
			if !ct.Valid() {
				return fmt.Errorf("invalid call type %q: expected STANDARD or EMERGENCY", callType)
			}

			sdk, err := newSDK()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			if err := sdk.Locates().MarkCalled(ctx, args[0], ct); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "call recorded for %s (%s)\n", args[0], ct)
			return nil
		},
	}

	cmd.Flags().StringVar(&callType, "type", string(types.CallTypeStandard), "call type: STANDARD or EMERGENCY")
	return cmd
}
