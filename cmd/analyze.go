// -- cmd/analyze.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/charsift/api/schemas"
	"github.com/xkilldash9x/charsift/internal/analysis/charcode"
	"github.com/xkilldash9x/charsift/internal/ast"
	"github.com/xkilldash9x/charsift/internal/observability"
	"github.com/xkilldash9x/charsift/internal/parser"
	"github.com/xkilldash9x/charsift/internal/reporting"
	"github.com/xkilldash9x/charsift/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Analyze JavaScript inputs for charcode-array string obfuscation",
	Long: `Analyze locates .map(...) calls feeding String.fromCharCode/fromCodePoint,
resolves their source arrays and transform keys, and decodes the hidden
strings. Inputs ending in .json are treated as pre-serialized ESTree trees;
everything else is parsed as raw JavaScript.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "", "output format: text or json (overrides config)")
	analyzeCmd.Flags().String("output", "", "output path (default stdout)")
	analyzeCmd.Flags().Bool("trace", false, "emit the per-character verbose trace for decoded sites")
	analyzeCmd.Flags().Bool("persist", false, "persist decode sites to the configured database")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// CLI flags override whatever the config file and environment said.
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Output.Format = format
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Output.Path = output
	}
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		cfg.Analyzer.Trace = true
	}
	if persist, _ := cmd.Flags().GetBool("persist"); persist {
		cfg.Database.Persist = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	analyzer := charcode.NewAnalyzer(logger, charcode.WithSampleSize(cfg.Analyzer.SampleSize))
	jsParser := parser.New(logger)

	// Each run is synchronous over its own tree; concurrency exists only
	// across input files.
	reports := make([]*schemas.Report, len(args))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.Analyzer.Concurrency)

	for i, path := range args {
		group.Go(func() error {
			report, err := analyzeFile(groupCtx, jsParser, analyzer, path, cfg.Analyzer.Trace)
			if err != nil {
				// A structurally invalid input reports zero findings plus the
				// underlying error; other files keep going.
				logger.Error("Analysis failed", zap.String("file", path), zap.Error(err))
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = report
			return nil
		})
	}
	runErr := group.Wait()

	reporter, err := reporting.New(cfg.Output.Format, cfg.Output.Path)
	if err != nil {
		return err
	}
	defer reporter.Close()

	var written []*schemas.Report
	for _, report := range reports {
		if report == nil {
			continue
		}
		if err := reporter.Write(report); err != nil {
			return err
		}
		written = append(written, report)
	}

	if cfg.Database.Persist && len(written) > 0 {
		if err := persistReports(ctx, logger, written); err != nil {
			return err
		}
	}

	return runErr
}

// analyzeFile loads one input, parses it into the engine's node model and
// runs the full analysis.
func analyzeFile(ctx context.Context, jsParser *parser.Parser, analyzer *charcode.Analyzer, path string, trace bool) (*schemas.Report, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var tree *ast.Program
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		tree, err = parser.LoadESTree(source)
	} else {
		tree, err = jsParser.Parse(ctx, path, source)
	}
	if err != nil {
		return nil, err
	}

	result, err := analyzer.Analyze(tree)
	if err != nil {
		return nil, err
	}
	return reporting.BuildReport(path, result, trace), nil
}

// persistReports connects to the configured database and writes every
// report's decode sites under one run ID.
func persistReports(ctx context.Context, logger *zap.Logger, reports []*schemas.Report) error {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	st, err := store.New(ctx, pool, logger)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	for _, report := range reports {
		if err := st.PersistReport(ctx, runID, report); err != nil {
			return fmt.Errorf("failed to persist report for %s: %w", report.File, err)
		}
	}
	logger.Info("Persisted decode sites", zap.String("run_id", runID), zap.Int("reports", len(reports)))
	return nil
}
