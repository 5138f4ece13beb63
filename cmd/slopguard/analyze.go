package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/corpus"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] [file ...]",
	Short: "Score files or stdin for slop",
	Long: `Analyze scores each input and prints one line per document. With no
files, text is read from stdin. Exit code 1 means at least one document
scored below the threshold.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolP("json", "j", false, "emit full reports as JSON")
	analyzeCmd.Flags().BoolP("verbose", "v", false, "print individual violations and advice")
	analyzeCmd.Flags().BoolP("quiet", "q", false, "print only score lines")
	analyzeCmd.Flags().IntP("threshold", "t", 0, "fail (exit 1) when a score is below this value")
	analyzeCmd.Flags().StringP("rules", "c", "", "fitted rules file (JSONL) to score with")
	analyzeCmd.Flags().StringArrayP("glob", "g", nil, "glob patterns of files to score (repeatable)")
}

func bandSymbol(band string) string {
	switch band {
	case "clean":
		return "."
	case "light":
		return "*"
	case "moderate":
		return "!"
	case "heavy":
		return "!!"
	default:
		return "!!!"
	}
}

func bandColor(band string) *color.Color {
	switch band {
	case "clean":
		return color.New(color.FgGreen)
	case "light", "moderate":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	asJSON, _ := flags.GetBool("json")
	verbose, _ := flags.GetBool("verbose")
	quiet, _ := flags.GetBool("quiet")
	threshold, _ := flags.GetInt("threshold")
	rulesPath, _ := flags.GetString("rules")
	globs, _ := flags.GetStringArray("glob")

	hp, err := loadHyperparameters(cmd)
	if err != nil {
		return err
	}
	pipeline, err := buildPipeline(hp, rulesPath)
	if err != nil {
		return err
	}

	paths := append([]string(nil), args...)
	if len(globs) > 0 {
		expanded, err := corpus.ExpandGlobs(globs)
		if err != nil {
			return err
		}
		paths = append(paths, expanded...)
	}

	var reports []analysis.Report
	if len(paths) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "reading from stdin, end with Ctrl-D...")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		report := analysis.Analyze(string(data), hp, pipeline)
		report.Source = "(stdin)"
		reports = append(reports, report)
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		report := analysis.Analyze(string(data), hp, pipeline)
		report.Source = path
		reports = append(reports, report)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, report := range reports {
			printReport(report, verbose, quiet)
		}
	}

	if threshold > 0 {
		for _, report := range reports {
			if report.Score < threshold {
				os.Exit(1)
			}
		}
	}
	return nil
}

func printReport(report analysis.Report, verbose, quiet bool) {
	c := bandColor(report.Band)
	c.Printf("%-3s %3d %-9s %s\n", bandSymbol(report.Band), report.Score, report.Band, report.Source)
	if quiet {
		return
	}

	if verbose {
		for _, v := range report.Violations {
			fmt.Printf("    [%s] %s (%+d)\n", v.Rule, v.Match, v.Penalty)
			if v.Context != "" {
				fmt.Printf("        %s\n", v.Context)
			}
		}
	}
	for _, advice := range report.Advice {
		fmt.Printf("    - %s\n", advice)
	}
}
