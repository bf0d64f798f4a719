// Package cmd holds the CLI entry points.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridclear/meritsim/app"
	"github.com/gridclear/meritsim/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "meritsim",
	Short: "Merit-order electricity market simulator",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	_, err = svc.Run()
	return err
}
