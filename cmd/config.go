package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/uideck/internal/config"
)

var configDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration uideck runs with: the embedded defaults merged
with --config or $XDG_CONFIG_HOME/uideck/config.yaml. With --defaults only
the embedded defaults are printed, which is a good starting point for a
user config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configDefaults {
			_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML())
			return err
		}
		cfg, err := loadConfig(configFile)
		if err != nil {
			return err
		}
		out, err := config.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() { //nolint:gochecknoinits
	configCmd.Flags().BoolVar(&configDefaults, "defaults", false, "print the embedded defaults only")
}
