package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolecoach/rolecoach/internal/llm"
	"github.com/rolecoach/rolecoach/internal/observability"
	"github.com/rolecoach/rolecoach/internal/roadmap"
	"github.com/rolecoach/rolecoach/internal/types"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Generate a skill roadmap for a target role",
	Long:  "Generate a preparation roadmap for a target role, seeded from the most recent analysis when available, and store it in the current session.",
	RunE:  runRoadmap,
}

var (
	roadmapJobTitle   string
	roadmapTargetDate string
	roadmapStartDate  string
)

func init() {
	roadmapCmd.Flags().StringVarP(&roadmapJobTitle, "job-title", "t", "", "Target role title (defaults to the last analyzed posting)")
	roadmapCmd.Flags().StringVar(&roadmapTargetDate, "target-date", "", "Interview or readiness date (YYYY-MM-DD)")
	roadmapCmd.Flags().StringVar(&roadmapStartDate, "start-date", "", "Preparation start date (YYYY-MM-DD)")

	rootCmd.AddCommand(roadmapCmd)
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	req := types.RoadmapRequest{
		JobTitle:      roadmapJobTitle,
		TargetDate:    roadmapTargetDate,
		StartDate:     roadmapStartDate,
		MissingSkills: []string{},
	}

	// Seed from the most recent analysis: its missing skills become the
	// roadmap's focus, and its history entry supplies a default title.
	if last := a.session.LastResult(); last != nil {
		req.MissingSkills = last.MissingSkillNames()
		if req.JobTitle == "" {
			if history := a.session.History(); len(history) > 0 {
				req.JobTitle = history[0].JobTitle
			}
		}
	}
	if req.JobTitle == "" {
		return fmt.Errorf("no prior analysis found; provide --job-title")
	}

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), a.cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	road, err := roadmap.NewOracle(client).Generate(ctx, req)
	if err != nil {
		return err
	}
	a.session.SetRoadmap(ctx, road)

	observability.NewPrinter(cmd.OutOrStdout()).PrintRoadmap(road)
	return nil
}
