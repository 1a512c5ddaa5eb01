package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/limiter"
)

var (
	dataOutput string
	dataFilter string
	dataPage   limiter.Config
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Query the mock data provider",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var dataListCmd = &cobra.Command{
	Use:       "list <domain>",
	Short:     "List the records of a domain",
	Example:   "  uideck data list products\n  uideck data list orders --filter '_.status == \"pending\"' -o yaml\n  uideck data list users --offset 1 --limit 2",
	Args:      cobra.ExactArgs(1),
	ValidArgs: domain.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		dom, err := domain.Parse(args[0])
		if err != nil {
			return err
		}
		if err := dataPage.Validate(); err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		res, err := a.source.ListRecords(cmd.Context(), dom)
		if err != nil {
			return fmt.Errorf("list %s: %w", dom, err)
		}
		recs := res.Data
		if f := strings.TrimSpace(dataFilter); f != "" {
			if recs, err = a.eval.Filter(f, recs); err != nil {
				return fmt.Errorf("--filter: %w", err)
			}
		}
		recs = limiter.Apply(dataPage, recs)
		out, err := a.renderRecords(dom, recs, dataOutput)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var dataGetCmd = &cobra.Command{
	Use:     "get <domain> <id>",
	Short:   "Show one record",
	Example: "  uideck data get orders 1001\n  uideck data get products 3 -o json",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dom, err := domain.Parse(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		res, err := a.source.GetRecord(cmd.Context(), dom, args[1])
		if err != nil {
			return fmt.Errorf("get %s %s: %w", dom, args[1], err)
		}
		if !res.Success {
			return fmt.Errorf("%s %s: %s", dom.Singular(), args[1], res.Error)
		}
		out, err := a.renderRecord(dom, res.Data, dataOutput)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() { //nolint:gochecknoinits
	dataCmd.PersistentFlags().StringVarP(&dataOutput, "output", "o", outputTable, "output format: "+strings.Join(outputFormats, "|"))
	dataListCmd.Flags().StringVar(&dataFilter, "filter", "", "CEL expression over each record bound to '_', e.g. '_.price < 100.0'")
	dataListCmd.Flags().IntVar(&dataPage.Limit, "limit", 0, "show at most N records")
	dataListCmd.Flags().IntVar(&dataPage.Offset, "offset", 0, "skip the first N records")
	dataListCmd.Flags().IntVar(&dataPage.Tail, "tail", 0, "show only the last N records")
	dataCmd.AddCommand(dataListCmd, dataGetCmd)
}
