package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/feed-harvester/internal/entity"
	"github.com/user/feed-harvester/internal/export"
	"github.com/user/feed-harvester/internal/extract"
	"github.com/user/feed-harvester/internal/harvest"
	"github.com/user/feed-harvester/internal/repository"
	"github.com/user/feed-harvester/pkg/metrics"
)

// HarvestRequest describes one harvest of a group feed.
type HarvestRequest struct {
	GroupURL string
	Options  harvest.Options
	// OutputPath is where the CSV is written. Empty skips the file.
	OutputPath string
}

type HarvestResult struct {
	Records  []entity.Record
	Posts    int
	Comments int
}

// Harvester runs a complete harvest: open the page, drive the loop, export.
type Harvester interface {
	Harvest(ctx context.Context, req HarvestRequest) (*HarvestResult, error)
}

type harvestUseCase struct {
	browser  repository.BrowserRepository
	endpoint string
	schema   extract.Schema
	metrics  *metrics.Metrics
}

// NewHarvestUseCase creates a harvester that observes calls whose URL
// contains endpoint.
func NewHarvestUseCase(browser repository.BrowserRepository, endpoint string, schema extract.Schema, m *metrics.Metrics) Harvester {
	return &harvestUseCase{
		browser:  browser,
		endpoint: endpoint,
		schema:   schema,
		metrics:  m,
	}
}

// Harvest returns whatever was collected even when the loop fails, and
// still writes it to OutputPath.
func (uc *harvestUseCase) Harvest(ctx context.Context, req HarvestRequest) (*HarvestResult, error) {
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	session, err := uc.browser.Open(ctx, req.GroupURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open group page: %w", err)
	}

	results := harvest.NewResultSet()
	interceptor := harvest.NewInterceptor(uc.endpoint, uc.schema, results, uc.metrics)
	_, runErr := harvest.NewHarvester(session, interceptor, req.Options, uc.metrics).Run(ctx)
	session.Close()

	posts, comments := results.Counts()
	res := &HarvestResult{Records: results.Records(), Posts: posts, Comments: comments}

	if req.OutputPath != "" {
		if err := export.WriteCSVFile(req.OutputPath, res.Records); err != nil {
			if runErr == nil {
				return res, err
			}
			slog.Error("Failed to write partial results", "path", req.OutputPath, "error", err)
		} else {
			slog.Info("Results written", "path", req.OutputPath, "records", len(res.Records))
		}
	}

	if runErr != nil {
		return res, fmt.Errorf("harvest of %s stopped early: %w", req.GroupURL, runErr)
	}
	return res, nil
}
