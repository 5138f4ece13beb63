package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/detectors"
	"github.com/slopguard/slopguard/internal/rules"
)

var rootCmd = &cobra.Command{
	Use:   "slopguard",
	Short: "Score prose for AI-generated style patterns",
	Long: `Slopguard scores text for the stylistic fingerprints of machine-generated
prose: stock phrases, listicle structure, uniform rhythm, and rhetorical
tics. 100 means clean, 0 means saturated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = "0.1.0"

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(serveCmd)

	rootCmd.PersistentFlags().String("hyperparameters", "", "YAML file overriding the built-in hyperparameters")

	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("slopguard: " + err.Error() + "\n")
		os.Exit(2)
	}
}

// loadHyperparameters reads the --hyperparameters override, falling
// back to the built-in defaults.
func loadHyperparameters(cmd *cobra.Command) (*config.Hyperparameters, error) {
	path, err := cmd.Root().PersistentFlags().GetString("hyperparameters")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildPipeline loads a fitted rules file when given one, otherwise
// builds the canonical pipeline from hyperparameters.
func buildPipeline(hp *config.Hyperparameters, rulesPath string) (*rules.Pipeline, error) {
	if rulesPath == "" {
		return detectors.DefaultPipeline(hp), nil
	}
	return rules.LoadPipelineFile(rulesPath, detectors.DefaultRegistry(), hp)
}
