package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/slopguard/slopguard/internal/corpus"
	"github.com/slopguard/slopguard/internal/detectors"
	"github.com/slopguard/slopguard/internal/logger"
)

var fitCmd = &cobra.Command{
	Use:   "fit [flags]",
	Short: "Fit detector thresholds and penalties to a labeled corpus",
	Long: `Fit tunes every detector against labeled samples and writes the result
as a rules file for analyze and serve. Positive samples (label 1) show
the style to protect; negative samples (label 0) show the style to
flag. With both labels present, penalties are also calibrated so that
detectors firing mostly on positives are neutralized.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().StringArrayP("positive", "p", nil, "glob of positive samples: .jsonl with {text,label} records, or .txt/.md (repeatable)")
	fitCmd.Flags().StringArrayP("negative", "n", nil, "glob of negative samples, always labeled 0 (repeatable)")
	fitCmd.Flags().StringP("output", "o", "slopguard-rules.jsonl", "where to write the fitted rules")
	fitCmd.Flags().Bool("no-calibrate", false, "skip the post-fit penalty calibration pass")
	fitCmd.Flags().String("log-level", "info", "log level (debug|info|warn|error)")
}

func runFit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	positive, _ := flags.GetStringArray("positive")
	negative, _ := flags.GetStringArray("negative")
	output, _ := flags.GetString("output")
	noCalibrate, _ := flags.GetBool("no-calibrate")
	logLevel, _ := flags.GetString("log-level")

	if len(positive) == 0 {
		return fmt.Errorf("at least one --positive glob is required")
	}

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console"})
	if err != nil {
		return err
	}
	defer log.Sync()

	hp, err := loadHyperparameters(cmd)
	if err != nil {
		return err
	}
	dataset, err := corpus.Load(positive, negative)
	if err != nil {
		return err
	}
	samples, labels := dataset.Split()

	posCount := 0
	for _, l := range labels {
		posCount += l
	}
	log.Info("corpus loaded",
		zap.Int("samples", len(samples)),
		zap.Int("positive", posCount),
		zap.Int("negative", len(samples)-posCount))

	pipeline := detectors.DefaultPipeline(hp)
	if err := pipeline.Fit(samples, labels, !noCalibrate); err != nil {
		return err
	}
	if err := pipeline.WriteConfigFile(output); err != nil {
		return err
	}

	log.Info("rules written", zap.String("path", output), zap.Int("detectors", len(pipeline.Detectors())))
	return nil
}
