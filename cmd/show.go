package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/domain"
)

var showArgs dispatch.ToolArgs

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Open the UI on one component, as if the assistant had called displayComponent",
	Example: `  uideck show --component list --data products
  uideck show --component item --data orders --item 1001 --layout details
  uideck show --component form --data users --snapshot --no-color`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		args := showArgs
		return runUI(cmd, &args)
	},
}

func init() { //nolint:gochecknoinits
	f := showCmd.Flags()
	f.StringVar(&showArgs.ComponentType, "component", "", "component type: "+strings.Join(dispatch.ComponentTypes, "|"))
	f.StringVar(&showArgs.DataType, "data", "", "data domain: "+strings.Join(domain.Names(), "|"))
	f.StringVar(&showArgs.ItemID, "item", "", "item id (required for the item component)")
	f.StringVar(&showArgs.Layout, "layout", "", "layout: table|grid|list for lists, card|panel|details for items")
	_ = showCmd.MarkFlagRequired("component")
	_ = showCmd.MarkFlagRequired("data")
}
