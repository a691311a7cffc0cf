package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"resume-ats/internal/analysis"
	"resume-ats/internal/shared/telemetry"
)

const defaultConcurrency = 4

type analyzeFlags struct {
	jd          string
	jdFile      string
	jobID       string
	noText      bool
	concurrency int
}

// fileResult is one line of output when several resumes are scored at once.
type fileResult struct {
	File   string           `json:"file"`
	Result *analysis.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func newAnalyzeCmd(d deps) *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze <file> [file...]",
		Short: "Analyze one or more resumes and print the JSON result",
		Long: "Analyze extracts text from each resume (PDF or DOCX) and prints the assessment as JSON. " +
			"With a single file the result object is printed; with several, one JSON line per file in argument order.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, d, f, args)
		},
	}
	cmd.Flags().StringVar(&f.jd, "jd", "", "Job description text")
	cmd.Flags().StringVar(&f.jdFile, "jd-file", "", "Path to a file holding the job description")
	cmd.Flags().StringVar(&f.jobID, "job-id", "", "ID of a saved job posting (needs DATABASE_URL)")
	cmd.Flags().BoolVar(&f.noText, "no-text", false, "Omit the extracted text from the output")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", defaultConcurrency, "Resumes analyzed in parallel")
	cmd.MarkFlagsMutuallyExclusive("jd", "jd-file", "job-id")
	return cmd
}

func runAnalyze(cmd *cobra.Command, d deps, f analyzeFlags, files []string) error {
	ctx := cmd.Context()
	cfg, err := d.loadConfig()
	if err != nil {
		return err
	}
	if err := telemetry.InitTo(cfg.LogJSON, cfg.LogDebug, "stderr"); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer telemetry.Sync()

	jd := f.jd
	switch {
	case f.jdFile != "":
		raw, err := os.ReadFile(f.jdFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jd = string(raw)
	case f.jobID != "":
		jd, err = d.lookupJob(ctx, cfg, strings.TrimSpace(f.jobID))
		if err != nil {
			return err
		}
	}

	model, err := d.newModel()
	if err != nil {
		return fmt.Errorf("load language model: %w", err)
	}
	analyzer := analysis.New(model)
	includeText := cfg.IncludeTextDefault && !f.noText

	results := make([]fileResult, len(files))
	sem := make(chan struct{}, max(1, f.concurrency))
	var wg sync.WaitGroup
	for i, path := range files {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = analyzeFile(cmd, analyzer, path, jd, includeText)
		}(i, path)
	}
	wg.Wait()

	out := cmd.OutOrStdout()
	if len(results) == 1 {
		if results[0].Error != "" {
			return fmt.Errorf("%s: %s", results[0].File, results[0].Error)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results[0].Result)
	}

	enc := json.NewEncoder(out)
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d resumes failed", failed, len(results))
	}
	return nil
}

func analyzeFile(cmd *cobra.Command, analyzer *analysis.Analyzer, path, jd string, includeText bool) fileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{File: path, Error: err.Error()}
	}
	res, err := analyzer.Analyze(cmd.Context(), data, filepath.Base(path), jd)
	if err != nil {
		return fileResult{File: path, Error: err.Error()}
	}
	if !includeText {
		res.Text = ""
	}
	return fileResult{File: path, Result: &res}
}
