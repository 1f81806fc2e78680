package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/cvrole/internal/adapters/batch"
	app "github.com/okian/cvrole/internal/app"
	"github.com/okian/cvrole/internal/config"
	"github.com/okian/cvrole/internal/domain/model"
	"github.com/okian/cvrole/pkg/logger"
)

// ErrDocumentsFailed is returned when at least one file could not be classified.
var ErrDocumentsFailed = errors.New("documents failed")

type options struct {
	modelPath string
	fallback  float64
	skills    []string
	workers   int
	jsonOut   bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "classify FILE...",
		Short: "Predict the job role of one or more resumes",
		Long: "Classify reads each resume (PDF, DOCX, HTML or UTF-8 text), predicts the job role " +
			"with the configured model and lists the known skills found in it.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.modelPath, "model", "m", "", "Path to the model artifact (overrides CVROLE_MODEL_PATH)")
	cmd.Flags().Float64Var(&opts.fallback, "fallback", config.DefaultConfidenceFallback, "Confidence reported by models without probability estimates")
	cmd.Flags().StringSliceVar(&opts.skills, "skills", nil, "Comma separated skill vocabulary (overrides CVROLE_SKILLS)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "Number of files classified concurrently")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print reports as JSON lines")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline details to stderr")
	return cmd
}

func runClassify(cmd *cobra.Command, opts *options, files []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.modelPath != "" {
		cfg.ModelPath = opts.modelPath
		cfg.ModelS3Bucket = ""
	}
	if cmd.Flags().Changed("fallback") {
		cfg.ConfidenceFallback = opts.fallback
	}
	if len(opts.skills) > 0 {
		cfg.Skills = opts.skills
	}
	cfg.ModelPreload = false
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Nop()
	if opts.verbose {
		if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		_ = logger.SetLevelString("debug")
		log = logger.Get()
	}

	svc, err := app.NewFromConfig(ctx, cfg, log)
	if err != nil {
		return err
	}

	pool := batch.New(svc, batch.WithWorkers(opts.workers), batch.WithLogger(log.Named("batch")))
	results := pool.Run(ctx, files)

	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			if kind := model.KindOf(res.Err); kind != model.KindInternal {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s (%s)\n", res.Path, model.UserMessage(res.Err), kind)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Path, res.Err)
			}
			continue
		}

		if opts.jsonOut {
			if err := json.NewEncoder(out).Encode(res.Report); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			continue
		}
		printReport(out, res.Path, res.Report)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d %w", failed, len(files), ErrDocumentsFailed)
	}
	return nil
}

func printReport(w io.Writer, path string, r model.Report) {
	fmt.Fprintln(w, path)
	switch {
	case r.Prediction.NoFeatures:
		fmt.Fprintln(w, "  Role:       none (no known terms found)")
	case r.Prediction.ProbabilitySupported:
		fmt.Fprintf(w, "  Role:       %s\n", r.Prediction.Label)
		fmt.Fprintf(w, "  Confidence: %s%%\n", r.Prediction.ConfidenceString())
	default:
		fmt.Fprintf(w, "  Role:       %s\n", r.Prediction.Label)
		fmt.Fprintf(w, "  Confidence: %s%% (fallback)\n", r.Prediction.ConfidenceString())
	}

	skills := "none"
	if r.Skills.Count() > 0 {
		skills = strings.Join(r.Skills.Matched, ", ")
	}
	fmt.Fprintf(w, "  Skills:     %s (%.2f%%)\n", skills, r.Skills.Percentage)
}
