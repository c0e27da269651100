package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rolecoach/rolecoach/internal/analysis"
	"github.com/rolecoach/rolecoach/internal/ingest"
	"github.com/rolecoach/rolecoach/internal/llm"
	"github.com/rolecoach/rolecoach/internal/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage saved job postings",
}

var jobsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a job posting with extracted skills",
	Long:  "Save a job posting from a file or URL, extract its required skills, and record it in the current session.",
	RunE:  runJobsAdd,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved job postings",
	RunE:  runJobsList,
}

var (
	jobsAddFile  string
	jobsAddURL   string
	jobsAddTitle string
)

func init() {
	jobsAddCmd.Flags().StringVarP(&jobsAddFile, "file", "f", "", "Path to text file containing the job posting")
	jobsAddCmd.Flags().StringVarP(&jobsAddURL, "url", "u", "", "URL to fetch the job posting from")
	jobsAddCmd.Flags().StringVarP(&jobsAddTitle, "title", "t", "", "Job title (defaults to the posting's opening line)")

	jobsCmd.AddCommand(jobsAddCmd)
	jobsCmd.AddCommand(jobsListCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsAdd(cmd *cobra.Command, args []string) error {
	if jobsAddFile == "" && jobsAddURL == "" {
		return fmt.Errorf("either --file or --url must be provided")
	}
	if jobsAddFile != "" && jobsAddURL != "" {
		return fmt.Errorf("--file and --url are mutually exclusive; provide only one")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	var description string
	if jobsAddFile != "" {
		data, err := os.ReadFile(jobsAddFile)
		if err != nil {
			return fmt.Errorf("failed to read job posting: %w", err)
		}
		description = string(data)
	} else {
		description, err = ingest.FromURL(ctx, jobsAddURL, nil)
		if err != nil {
			return err
		}
	}

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), a.cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	skills, err := analysis.NewOracle(client).ExtractJobSkills(ctx, description)
	if err != nil {
		return err
	}

	title := jobsAddTitle
	if title == "" {
		title = types.TruncateTitle(description, 60)
	}
	job := types.NewJob(title, description, skills, time.Now())
	a.session.AddJob(ctx, job)

	fmt.Fprintf(cmd.OutOrStdout(), "Saved job %s (%d skills)\n", job.ID, len(job.Skills))
	return nil
}

func runJobsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	jobs := a.session.Jobs()
	if len(jobs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved jobs.")
		return nil
	}
	for _, job := range jobs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%d skills, %s)\n", job.ID, job.Title, len(job.Skills), job.CreatedAt)
	}
	return nil
}
