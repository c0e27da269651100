package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rolecoach/rolecoach/internal/analysis"
	"github.com/rolecoach/rolecoach/internal/ingest"
	"github.com/rolecoach/rolecoach/internal/llm"
	"github.com/rolecoach/rolecoach/internal/observability"
	"github.com/rolecoach/rolecoach/internal/pipeline"
	"github.com/rolecoach/rolecoach/internal/roadmap"
	"github.com/rolecoach/rolecoach/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job posting",
	Long:  "Run the full submission pipeline: match a resume against a job posting, record the analysis in history, and optionally generate a preparation roadmap.",
	RunE:  runAnalyze,
}

var (
	analyzeJobFile    string
	analyzeJobURL     string
	analyzeResumeFile string
	analyzeTargetDate string
	analyzeStartDate  string
	analyzeFast       bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to text file containing the job posting")
	analyzeCmd.Flags().StringVarP(&analyzeJobURL, "job-url", "u", "", "URL to fetch the job posting from")
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume", "r", "", "Path to the resume (PDF or plain text, required)")
	analyzeCmd.Flags().StringVar(&analyzeTargetDate, "target-date", "", "Also generate a roadmap toward this date (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeStartDate, "start-date", "", "Roadmap start date (YYYY-MM-DD, defaults to today)")
	analyzeCmd.Flags().BoolVar(&analyzeFast, "fast", false, "Skip the upload and processing pacing holds")

	_ = analyzeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeJobFile == "" && analyzeJobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided")
	}
	if analyzeJobFile != "" && analyzeJobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	jobDescription, err := loadJobDescription(cmd, analyzeJobFile, analyzeJobURL)
	if err != nil {
		return err
	}
	resume, fileName, err := loadResume(analyzeResumeFile)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), a.cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	opts := pipeline.Options{
		Analyses: analysis.NewOracle(client),
		Roadmaps: roadmap.NewOracle(client),
		Records:  a.session,
	}
	if a.cfg.UploadHoldMs != 0 {
		opts.UploadHold = time.Duration(a.cfg.UploadHoldMs) * time.Millisecond
	}
	if a.cfg.ProcessHoldMs != 0 {
		opts.ProcessHold = time.Duration(a.cfg.ProcessHoldMs) * time.Millisecond
	}
	if analyzeFast {
		opts.UploadHold = -1
		opts.ProcessHold = -1
	}
	if a.cfg.Verbose {
		opts.OnTransition = func(from, to pipeline.State) {
			fmt.Fprintf(cmd.ErrOrStderr(), "pipeline: %s -> %s\n", from, to)
		}
	}

	p := pipeline.New(opts)
	req := types.SubmitRequest{
		JobDescription: jobDescription,
		Resume:         resume,
		FileName:       fileName,
	}
	if err := p.Submit(ctx, req); err != nil {
		if msg := p.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintAnalysis(p.Result())

	if analyzeTargetDate != "" {
		start := analyzeStartDate
		if start == "" {
			start = time.Now().Format("2006-01-02")
		}
		if err := p.GenerateRoadmap(ctx, analyzeTargetDate, start); err != nil {
			if msg := p.Err(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			return err
		}
		printer.PrintRoadmap(a.session.Roadmap())
	}

	return nil
}

// loadJobDescription reads the posting from a file or fetches and cleans it
// from a URL.
func loadJobDescription(cmd *cobra.Command, file, urlStr string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read job posting: %w", err)
		}
		return string(data), nil
	}

	text, err := ingest.FromURL(cmd.Context(), urlStr, nil)
	if err != nil {
		return "", err
	}
	return text, nil
}

// loadResume builds the resume payload from a local file. PDFs are carried
// inline as base64 documents; anything else is treated as plain text.
func loadResume(path string) (types.ResumePayload, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResumePayload{}, "", fmt.Errorf("failed to read resume: %w", err)
	}

	fileName := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return types.ResumePayload{
			MimeType: "application/pdf",
			Data:     base64.StdEncoding.EncodeToString(data),
		}, fileName, nil
	}
	return types.ResumePayload{Text: string(data)}, fileName, nil
}
