// kye - проверка судебной истории по списку CPF с риск-скорингом.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pxlabs/kye-screener/internal/analyzer"
	"github.com/pxlabs/kye-screener/internal/cache/memory"
	"github.com/pxlabs/kye-screener/internal/config"
	"github.com/pxlabs/kye-screener/internal/domain"
	"github.com/pxlabs/kye-screener/internal/llm"
	"github.com/pxlabs/kye-screener/internal/llm/gemini"
	llmmock "github.com/pxlabs/kye-screener/internal/llm/mock"
	"github.com/pxlabs/kye-screener/internal/llm/openrouter"
	"github.com/pxlabs/kye-screener/internal/metrics"
	"github.com/pxlabs/kye-screener/internal/ratelimit"
	"github.com/pxlabs/kye-screener/internal/records"
	recmock "github.com/pxlabs/kye-screener/internal/records/mock"
	"github.com/pxlabs/kye-screener/internal/records/predictus"
	"github.com/pxlabs/kye-screener/internal/repository"
	"github.com/pxlabs/kye-screener/internal/repository/postgres"
	"github.com/pxlabs/kye-screener/internal/scoring"
	"github.com/pxlabs/kye-screener/internal/service"
)

var version = "dev"

var (
	flagOutput      string
	flagWorkers     int
	flagMetricsAddr string
)

func main() {
	root := &cobra.Command{
		Use:           "kye",
		Short:         "Know-Your-Employee judicial screening",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Screen a list of CPFs (one per line, optional ,label) and export CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", "CSV output path, - for stdout")
	batchCmd.Flags().IntVar(&flagWorkers, "workers", 0, "override worker count")
	batchCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	assessCmd := &cobra.Command{
		Use:   "assess <cpf>",
		Short: "Screen a single CPF",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssess,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("kye", version)
		},
	}

	root.AddCommand(batchCmd, assessCmd, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	bulk    *service.BulkService
	assess  *service.AssessmentService
	history repository.HistoryRepository
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	tables, err := config.LoadScoringTables(cfg.Scoring.TablesFile)
	if err != nil {
		return nil, err
	}

	classifier, err := scoring.NewClassifier(tables.Classifier)
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer(classifier, tables.Factors)
	if err != nil {
		return nil, err
	}
	composer, err := scoring.NewComposer(cfg.Scoring.Weights())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	var recordsClient records.Client
	switch cfg.Records.Provider {
	case "mock":
		recordsClient = recmock.New()
	default:
		recordsClient = predictus.New(predictus.Config{
			Username: cfg.Records.Username,
			Password: cfg.Records.Password,
			BaseURL:  cfg.Records.BaseURL,
			Timeout:  cfg.Timeouts.Fetch,
		}, logger)
	}

	// nil = анализатор выключен, batch работает только по числам
	var llmClient llm.Client
	switch cfg.LLM.Provider {
	case "gemini":
		if cfg.LLM.Gemini.APIKey != "" {
			llmClient = gemini.New(gemini.Config{
				APIKey:  cfg.LLM.Gemini.APIKey,
				Model:   cfg.LLM.Gemini.Model,
				BaseURL: cfg.LLM.Gemini.BaseURL,
				Timeout: cfg.Timeouts.Analyze,
			}, logger)
		}
	case "openrouter":
		if cfg.LLM.OpenRouter.APIKey != "" {
			llmClient = openrouter.New(openrouter.Config{
				APIKey:  cfg.LLM.OpenRouter.APIKey,
				Model:   cfg.LLM.OpenRouter.Model,
				BaseURL: cfg.LLM.OpenRouter.BaseURL,
				Timeout: cfg.Timeouts.Analyze,
			}, logger)
		}
	case "mock":
		llmClient = llmmock.New()
	}

	m := metrics.New()

	limiter := ratelimit.New(ratelimit.Config{CallsPerMinute: cfg.RateLimit.CallsPerMinute})
	qualAnalyzer := analyzer.New(llmClient, limiter, logger).WithMetrics(m, cfg.LLM.Provider)

	recordCache := memory.NewWithContext(ctx)
	a.closers = append(a.closers, recordCache.Stop)

	if cfg.Database.URL != "" {
		db, err := postgres.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.history = postgres.NewHistoryRepo(db)
	}

	a.assess = service.NewAssessmentService(service.AssessmentDeps{
		Records:  recordsClient,
		Scorer:   scorer,
		Composer: composer,
		Analyzer: qualAnalyzer,
		Cache:    recordCache,
		Logger:   logger,
		Metrics:  m,
		Config: service.AssessmentConfig{
			FetchTimeout:   cfg.Timeouts.Fetch,
			AnalyzeTimeout: cfg.Timeouts.Analyze,
			CacheTTL:       cfg.Cache.TTL,
		},
	})

	workers := cfg.Batch.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}
	a.bulk = service.NewBulkService(service.BulkDeps{
		Assessor: a.assess,
		History:  a.history,
		Logger:   logger,
		Metrics:  m,
		Config:   service.BulkConfig{Workers: workers},
	})

	if flagMetricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(flagMetricsAddr, metrics.Handler()); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	return a, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	input := os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}

	subjects, err := readSubjects(input)
	if err != nil {
		return err
	}

	result, err := a.bulk.Run(ctx, subjects)
	if err != nil {
		return err
	}

	printSummary(result)

	out := os.Stdout
	if flagOutput != "-" && flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return service.WriteCSV(out, result)
}

func runAssess(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	subjectID, err := domain.NormalizeSubjectID(args[0])
	if err != nil {
		return err
	}

	assessment, err := a.assess.Assess(ctx, subjectID)
	if err != nil {
		return err
	}

	fmt.Printf("Subject:  %s\n", assessment.SubjectID)
	fmt.Printf("Cases:    %d\n", assessment.CaseCount)
	fmt.Printf("Score:    %.1f (%s)\n", assessment.Score, assessment.Level.Label())
	fmt.Printf("Factors:  volume=%.1f defendant=%.1f severity=%.1f financial=%.1f\n",
		assessment.Factors.ProcessVolume,
		assessment.Factors.DefendantRole,
		assessment.Factors.CaseSeverity,
		assessment.Factors.FinancialExposure,
	)

	q := assessment.Qualitative
	if !q.Available {
		fmt.Printf("Analysis: unavailable (%s)\n", q.Reason)
		return nil
	}
	for _, insight := range q.Insights {
		fmt.Println("  -", insight)
	}
	for _, flag := range q.RedFlags {
		fmt.Println("  ! ", flag)
	}
	fmt.Printf("Recommendation: %s\n", q.Recommendation)
	return nil
}

// readSubjects читает по строке на субъект: "cpf" или "cpf,label".
// Валидация CPF происходит уже в батче, чтобы кривая строка стала
// failed-исходом, а не обрывала весь файл.
func readSubjects(r *os.File) ([]domain.Subject, error) {
	var subjects []domain.Subject

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		subject := domain.Subject{ID: line}
		if idx := strings.Index(line, ","); idx >= 0 {
			subject.ID = strings.TrimSpace(line[:idx])
			subject.Label = strings.TrimSpace(line[idx+1:])
		}
		subjects = append(subjects, subject)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

func printSummary(result *domain.BatchResult) {
	table := tablewriter.NewWriter(os.Stderr)
	table.Header([]string{"Total", "Processed", "Clean", "Errors", "Low", "Medium", "High", "Critical"})

	s := result.Summary
	row := []string{
		fmt.Sprintf("%d", s.Total),
		fmt.Sprintf("%d", s.Processed),
		fmt.Sprintf("%d", s.NotFound),
		fmt.Sprintf("%d", s.Errors),
		fmt.Sprintf("%d", s.Levels[domain.LevelLow]),
		fmt.Sprintf("%d", s.Levels[domain.LevelMedium]),
		fmt.Sprintf("%d", s.Levels[domain.LevelHigh]),
		fmt.Sprintf("%d", s.Levels[domain.LevelCritical]),
	}
	if err := table.Bulk([][]string{row}); err != nil {
		fmt.Fprintln(os.Stderr, "summary:", err)
		return
	}
	if err := table.Render(); err != nil {
		fmt.Fprintln(os.Stderr, "summary:", err)
	}
}
