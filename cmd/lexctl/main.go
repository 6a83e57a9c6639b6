package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ericksa/lexanalyzer/internal/audit"
	"github.com/ericksa/lexanalyzer/internal/config"
	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/ericksa/lexanalyzer/internal/logger"
	"github.com/ericksa/lexanalyzer/internal/nlp"
	"github.com/ericksa/lexanalyzer/pkg/mcp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lexctl",
		Short: "Extract facts from legal contracts",
		Long: `lexctl classifies a contract and extracts its parties, payment terms,
dates, constraints and a one-sentence summary.

Text is read from the file argument, or from stdin when the argument is
missing or "-".

Example:
  lexctl analyze lease.txt
  cat deed.txt | lexctl summarize
  lexctl analyze lease.txt --format yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: ./config.yaml or ~/.lexanalyzer/config.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "json", "Output format (json, yaml)")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(summarizeCmd())
	rootCmd.AddCommand(mcpCmd())
	return rootCmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Run the full extraction pipeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd, args, func(a *lex.Analyzer, text string) any {
				return a.Analyze(text)
			})
		},
	}
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file]",
		Short: "Print the contract type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd, args, func(_ *lex.Analyzer, text string) any {
				return map[string]lex.ContractType{"contract_type": lex.Classify(text)}
			})
		},
	}
}

func summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [file]",
		Short: "Print the one-sentence summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd, args, func(a *lex.Analyzer, text string) any {
				return map[string]string{"summary": a.Summarize(text)}
			})
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the contract tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// stdout carries the protocol, so logs go to stderr.
			logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})

			var auditor *audit.Auditor
			if cfg.Audit.Enabled {
				auditor = audit.NewAuditor(cfg.Audit.Path)
				defer auditor.Close()
			}
			a := lex.NewAnalyzer(nlp.New(), cfg.Policy())
			return mcp.NewHandler(cfg, a, auditor).ServeStdio(cmd.Context())
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if file != "" {
		cfg, err = config.LoadFile(file)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Policy().Validate(); err != nil {
		return nil, fmt.Errorf("invalid extraction policy: %w", err)
	}
	return cfg, nil
}

func runText(cmd *cobra.Command, args []string, run func(*lex.Analyzer, string) any) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	a := lex.NewAnalyzer(nlp.New(), cfg.Policy())
	return writeOutput(cmd.OutOrStdout(), format, run(a, text))
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("input is empty")
	}
	return string(data), nil
}

func writeOutput(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
