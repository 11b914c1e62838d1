// Command debtplan runs a single repayment plan from a scenario file and
// writes the result as JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"debtplan/internal/core"
	"debtplan/internal/engine"
	"debtplan/internal/log"
)

// scenario is the on-disk input shape: the loan list and settings the
// surrounding application would normally deliver over the queue.
type scenario struct {
	Loans    []core.LoanInput     `json:"loans"`
	Settings core.PlannerSettings `json:"settings"`
	Start    *time.Time           `json:"start,omitempty"`
}

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "scenario.json", "path to the scenario JSON file")
	startFlag := flag.String("start", "", "simulation start date (YYYY-MM-DD, defaults to today)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	})
	log.SetDefault(logger)

	if err := run(*file, *startFlag, logger); err != nil {
		logger.Error("Plan failed", log.FieldError, err)
		os.Exit(1)
	}
}

func run(file, startFlag string, logger *log.Logger) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}

	var sc scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}

	start := time.Now()
	switch {
	case startFlag != "":
		start, err = time.Parse("2006-01-02", startFlag)
		if err != nil {
			return fmt.Errorf("parse start date: %w", err)
		}
	case sc.Start != nil:
		start = *sc.Start
	}

	planner := engine.NewPlanner(logger.WithComponent(log.ComponentEngine))
	result, err := planner.Plan(context.Background(), sc.Loans, sc.Settings, start)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
