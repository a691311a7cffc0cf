package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resume-ats/internal/jobs"
	"resume-ats/internal/nlp"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/storage/db"
	"resume-ats/internal/shared/telemetry"
)

// deps are the pieces commands reach outside the process for.
type deps struct {
	loadConfig func() (config.Config, error)
	newModel   func() (nlp.Model, error)
	// lookupJob resolves a saved posting's description.
	lookupJob func(ctx context.Context, cfg config.Config, id string) (string, error)
}

func defaultDeps() deps {
	return deps{
		loadConfig: config.Load,
		newModel: func() (nlp.Model, error) {
			return nlp.NewProseModel()
		},
		lookupJob: lookupJobInDB,
	}
}

func newRootCmd(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "atscan",
		Short:         "Score resumes the way an applicant tracking system would",
		Long:          "atscan extracts text from PDF and DOCX resumes, detects skills, education and experience, and scores them against a job description.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(d), newVersionCmd())
	return root
}

func lookupJobInDB(ctx context.Context, cfg config.Config, id string) (string, error) {
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("--job-id needs DATABASE_URL")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultCLIOptions()))
	if err != nil {
		return "", err
	}
	defer sqlDB.Close()

	desc, err := jobs.NewService(&jobs.PGRepo{DB: sqlDB}).Description(ctx, id)
	if err != nil {
		telemetry.Warn("atscan.job_lookup_failed", map[string]any{"job_id": id, "error": err})
		return "", fmt.Errorf("load job posting %s: %w", id, err)
	}
	return desc, nil
}
