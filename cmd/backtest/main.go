package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opsxjacky/portfolio-simulator/internal/config"
	"github.com/opsxjacky/portfolio-simulator/internal/cost"
	"github.com/opsxjacky/portfolio-simulator/internal/marketdata"
	"github.com/opsxjacky/portfolio-simulator/internal/simulation"
)

var (
	configPath string
	outputPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backtest",
		Short: "Multi-asset portfolio simulator with DCA and periodic rebalancing",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a portfolio simulation from a YAML config",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path for the JSON result (overrides config)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	req, err := cfg.ToRequest()
	if err != nil {
		return err
	}

	loader := marketdata.NewCSVLoader(cfg.GetDataDir())
	market, err := loader.Load(cfg.Symbols(), cfg.Currencies(), req.StartDate, req.EndDate)
	if err != nil {
		return fmt.Errorf("failed to load market data: %w", err)
	}

	costModel := cost.NewDefaultModel(req.CommissionRate, 0)
	sim := simulation.New(req, market, costModel, log)

	result, err := sim.Run()
	if err != nil {
		return err
	}

	simulation.PrintSummary(result)

	path := outputPath
	if path == "" {
		path = cfg.GetOutputPath()
	}
	if err := simulation.ExportJSON(result, path); err != nil {
		return err
	}
	fmt.Printf("Results exported to: %s\n", path)

	return nil
}
