package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inkanalyzer/internal/analysis"
	"inkanalyzer/internal/config"
	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/logging"
	"inkanalyzer/internal/lsp"
	"inkanalyzer/internal/pipeline"
	"inkanalyzer/internal/report"
	"inkanalyzer/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "inkanalyzer",
		Short: "Semantic analyzer for ink! smart contracts",
	}
	configPath string
	dbPath     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the scan database (SQLite), overrides the config")

	checkCmd.Flags().String("since", "", "Only check Rust files changed since this git ref")
	checkCmd.Flags().String("json", "", "Write a JSON report to this path")
	checkCmd.Flags().Bool("force", false, "Re-analyze files even if their content did not change")
	irCmd.Flags().Bool("mermaid", false, "Print the entity hierarchy as a mermaid diagram")
	historyCmd.Flags().Int64("run", 0, "Show the diagnostics recorded for this run")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(irCmd)
	rootCmd.AddCommand(historyCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	return cfg
}

// initStore initializes the SQLite store.
func initStore(cfg *config.Config) *storage.SQLiteStore {
	store, err := storage.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return store
}

func readSource(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Check the ink! sources of a project and record the results",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		root := cfg.Project.Root
		if len(args) > 0 {
			root = args[0]
		}
		since, _ := cmd.Flags().GetString("since")
		jsonPath, _ := cmd.Flags().GetString("json")
		force, _ := cmd.Flags().GetBool("force")

		logger, err := logging.New(cfg.Log.Level)
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		defer logger.Sync()

		// 1. Initialize Store
		store := initStore(cfg)
		defer store.Close()

		// 2. Scan
		ctx := context.Background()
		scanner := pipeline.NewScanner(cfg, store, logger, os.Stdout)
		res, err := scanner.Run(ctx, pipeline.Options{Root: root, Since: since, Force: force})
		if err != nil {
			logger.Error("check failed", zap.Error(err))
			store.Close()
			os.Exit(1)
		}

		// 3. Print diagnostics
		errorColor := color.New(color.FgRed, color.Bold).SprintFunc()
		warnColor := color.New(color.FgYellow, color.Bold).SprintFunc()
		for _, f := range res.Files {
			for _, d := range f.Diagnostics {
				sev := errorColor(d.Severity)
				if d.Severity == string(analysis.SeverityWarning) {
					sev = warnColor(d.Severity)
				}
				fmt.Printf("%s:%d:%d: %s: %s\n", filepath.Join(root, d.Path), d.Line, d.Column, sev, d.Message)
			}
		}

		// 4. Report
		if jsonPath != "" {
			if err := report.New(root, res.RunID, res.Files).Save(jsonPath); err != nil {
				log.Fatalf("Failed to write report: %v", err)
			}
			fmt.Printf("💾 Report written to %s\n", jsonPath)
		}

		if res.Errors > 0 {
			color.Red("❌ %d errors found.", res.Errors)
			logger.Sync()
			store.Close()
			os.Exit(1)
		}
		color.Green("✅ No errors found.")
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions <file> <offset>[:<end>]",
	Short: "Print the code actions available at a byte offset or range as LSP JSON",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		src := readSource(args[0])
		r, err := parseRange(args[1], len(src))
		if err != nil {
			log.Fatalf("Invalid range: %v", err)
		}

		a := analysis.New(src)
		conv := lsp.NewConverter(absPath(args[0]), src)

		var fixable []analysis.Diagnostic
		for _, d := range a.Diagnostics() {
			if d.Range.Start <= r.End && r.Start <= d.Range.End {
				fixable = append(fixable, d)
			}
		}
		out := conv.QuickFixes(fixable)
		out = append(out, conv.CodeActions(a.Actions(r))...)
		printJSON(out)
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <file> <offset>",
	Short: "Print the completions at a byte offset as LSP JSON",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		src := readSource(args[0])
		r, err := parseRange(args[1], len(src))
		if err != nil {
			log.Fatalf("Invalid offset: %v", err)
		}
		conv := lsp.NewConverter(absPath(args[0]), src)
		printJSON(conv.CompletionItems(analysis.New(src).Completions(r.Start)))
	},
}

var irCmd = &cobra.Command{
	Use:   "ir <file>",
	Short: "Print the ink! entities of a file as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		snap := ir.Summarize(ir.Parse(readSource(args[0])), args[0])
		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Print(report.Mermaid(snap))
			return
		}
		printJSON(snap)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded check runs",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := initStore(loadConfig())
		defer store.Close()

		if runID, _ := cmd.Flags().GetInt64("run"); runID != 0 {
			diags, err := store.RunDiagnostics(ctx, runID)
			if err != nil {
				log.Fatalf("Failed to load diagnostics: %v", err)
			}
			for _, d := range diags {
				fmt.Printf("%s:%d:%d: %s: %s\n", d.Path, d.Line, d.Column, d.Severity, d.Message)
			}
			return
		}

		runs, err := store.ListRuns(ctx)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}
		bold := color.New(color.Bold).SprintFunc()
		for _, r := range runs {
			status := color.GreenString("ok")
			if r.Errors > 0 {
				status = color.RedString("%d errors", r.Errors)
			}
			fmt.Printf("%s  %s  %s  %d files  %s\n",
				bold(fmt.Sprintf("#%d", r.ID)), r.StartedAt.Format("2006-01-02 15:04:05"), r.Root, r.Files, status)
		}
	},
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
