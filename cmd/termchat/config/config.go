// Package config prints the effective termchat configuration.
package config

import (
	"github.com/spf13/cobra"
	"github.com/txn2/termchat/cmd/termchat/internal/cliutil"
)

var configPath string

func init() {
	Cmd.Flags().StringVar(&configPath, "config", "", "Config file (default $TERMCHAT_CONFIG or ~/.termchat.yaml)")
}

var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration termchat would run with: built-in defaults
overlaid with the config file. The output is a valid config file.`,
	Example: "  termchat config > ~/.termchat.yaml\n" +
		"  termchat config --config ./team.yaml",
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := cliutil.LoadConfig(configPath)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
