package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gridclear/meritsim/core/market"
	"github.com/gridclear/meritsim/pkg/plot"
)

var (
	plotInput string
	plotDir   string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render charts from a saved results file",
	RunE:  renderCharts,
}

func init() {
	plotCmd.Flags().StringVarP(&plotInput, "input", "i", "", "results JSON file from a previous run")
	plotCmd.Flags().StringVarP(&plotDir, "out", "o", "charts", "output directory for PNG charts")
	_ = plotCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(plotCmd)
}

func renderCharts(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(plotInput)
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}
	var results []market.HourResult
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("decode results: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no hourly results in %s", plotInput)
	}

	if err := os.MkdirAll(plotDir, 0o755); err != nil {
		return err
	}
	if err := plot.MixChart(results, filepath.Join(plotDir, "dispatch_mix.png")); err != nil {
		return fmt.Errorf("render mix chart: %w", err)
	}
	if err := plot.PriceChart(results, filepath.Join(plotDir, "price.png")); err != nil {
		return fmt.Errorf("render price chart: %w", err)
	}
	return nil
}
