// File: cmd/scrape.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/api/schemas"
	"github.com/sgrimault/webharvest/internal/agent"
	"github.com/sgrimault/webharvest/internal/browser"
	"github.com/sgrimault/webharvest/internal/llmclient"
	"github.com/sgrimault/webharvest/internal/observability"
	"github.com/sgrimault/webharvest/internal/tools"
)

// newScrapeCmd creates and configures the `scrape` command.
func newScrapeCmd() *cobra.Command {
	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs an extraction job described by a JSON job file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			jobPath, _ := cmd.Flags().GetString("job")
			outputPath, _ := cmd.Flags().GetString("output")

			job, err := loadJobConfig(jobPath)
			if err != nil {
				return err
			}

			llm, err := llmclient.NewClient(cfg.LLM, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize LLM client: %w", err)
			}
			defer llm.Close()

			manager := browser.NewManager(cfg, logger)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := manager.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Error during browser manager shutdown", zap.Error(err))
				}
			}()

			service := tools.NewService(tools.NewRegistry(manager, logger), logger)

			fmt.Fprintf(cmd.ErrOrStderr(), "Starting scraping job for: %s\n", job.URL)
			fmt.Fprintf(cmd.ErrOrStderr(), "Output will be saved to: %s\n", outputPath)

			result := agent.New(service, llm, cfg.Scrape, logger).Scrape(ctx, *job)

			// The result file is written for failed jobs too, so partial or
			// empty outcomes are inspectable.
			if err := writeResult(outputPath, result); err != nil {
				return fmt.Errorf("failed to write result file: %w", err)
			}

			if result.Status != schemas.StatusSuccess {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nScraping failed: %s\n", result.Error)
				fmt.Fprintf(cmd.ErrOrStderr(), "Partial results saved to: %s\n", outputPath)
				return fmt.Errorf("scraping job failed: %s", result.Error)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "\nScraping completed successfully!\n")
			fmt.Fprintf(cmd.ErrOrStderr(), "Results saved to: %s\n", outputPath)
			fmt.Fprintf(cmd.ErrOrStderr(), "\nSummary:\n")
			fmt.Fprintf(cmd.ErrOrStderr(), "  - Total items: %d\n", result.QualityReport.TotalItems)
			fmt.Fprintf(cmd.ErrOrStderr(), "  - Completion rate: %.1f%%\n", result.QualityReport.CompletionRate*100)

			return nil
		},
	}

	scrapeCmd.Flags().String("job", "", "Path to the JSON job file (required)")
	scrapeCmd.Flags().StringP("output", "o", "scraping_result.json", "Output file path for results")
	_ = scrapeCmd.MarkFlagRequired("job")

	return scrapeCmd
}

func loadJobConfig(path string) (*schemas.JobConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	var job schemas.JobConfig
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("invalid JSON in job file: %w", err)
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job file: %w", err)
	}
	return &job, nil
}

func writeResult(path string, result schemas.ExtractionResult) error {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(payload, '\n'), 0o644)
}
