// Command svm-eval trains a linear SVM on a sparse labeled training file
// and prints accuracy and precision/recall/F1 scores for a test file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote-lab/internal/config"
	"quote-lab/internal/evaluator"
	"quote-lab/internal/logging"
	"quote-lab/internal/observability"
	"quote-lab/internal/pipeline"
	"quote-lab/internal/reporting"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML configuration file")
	outputDir := flag.String("output-dir", "", "Write EVALUATION_REPORT.md and EVALUATION_SCORES.csv to this directory")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	logFormat := flag.String("log-format", "", "Log format: console or json (overrides config)")
	pushgateway := flag.String("pushgateway", "", "Prometheus Pushgateway URL (overrides config)")
	useFixtures := flag.Bool("use-fixtures", false, "Evaluate a synthetic separable train/test split instead of files")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] train test\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if !*useFixtures && flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *pushgateway != "" {
		cfg.Metrics.Pushgateway = *pushgateway
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn("received signal, shutting down", logging.String("signal", sig.String()))
		cancel()
	}()

	metrics := observability.NewMetrics("")
	eval := evaluator.New(evaluator.Options{Config: cfg.SVM, Logger: logger})

	var (
		result              *evaluator.Result
		trainName, testName string
	)
	start := time.Now()
	if *useFixtures {
		train, test := pipeline.SeparableDatasets(50, 20)
		trainName, testName = "fixtures:train", "fixtures:test"
		result, err = eval.Run(ctx, train, test)
	} else {
		trainName, testName = flag.Arg(0), flag.Arg(1)
		result, err = eval.RunFiles(ctx, trainName, testName)
	}
	metrics.RecordPipelineRun("svm_eval", time.Since(start), err)
	if err != nil {
		logger.Error("evaluation failed", logging.Error(err))
		pushMetrics(ctx, metrics, cfg, logger)
		os.Exit(1)
	}
	metrics.ObserveEvaluation(result.Report)

	if err := reporting.RenderText(os.Stdout, result.Report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	if *outputDir != "" {
		report := reporting.NewGenerator().Generate(result.Report, trainName, testName)
		paths, err := reporting.WriteFiles(*outputDir, report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report files: %v\n", err)
			os.Exit(1)
		}
		for _, p := range paths {
			logger.Info("report written", logging.String("path", p))
		}
	}

	pushMetrics(ctx, metrics, cfg, logger)
}

func pushMetrics(ctx context.Context, m *observability.Metrics, cfg *config.Config, logger *logging.Logger) {
	if err := m.Push(ctx, cfg.Metrics.Pushgateway, cfg.Metrics.Job); err != nil {
		logger.Warn("metrics push failed", logging.Error(err))
	}
}
