// Package service provides business logic for industry benchmark data.
package service

import (
	"context"
	"strings"

	"nytro_assessment_backend/internal/benchmark/repository"
	"nytro_assessment_backend/internal/benchmark/transport"
	"nytro_assessment_backend/platform/apperr"
	"nytro_assessment_backend/platform/logger"
)

const benchmarksNotFoundMessage = "no benchmark data for industry"

// Service provides read access and seeding for industry benchmarks.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new benchmark service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByIndustry retrieves all percentile rows for an industry.
func (s *Service) GetByIndustry(ctx context.Context, industry string) (transport.IndustryBenchmarksResponse, error) {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		return transport.IndustryBenchmarksResponse{}, apperr.BadRequest("industry is required")
	}

	items, err := s.repo.ListByIndustry(ctx, industry)
	if err != nil {
		return transport.IndustryBenchmarksResponse{}, err
	}
	if len(items) == 0 {
		return transport.IndustryBenchmarksResponse{}, apperr.NotFound(benchmarksNotFoundMessage)
	}

	return toIndustryResponse(industry, items), nil
}

// ListIndustries retrieves the industries that have benchmark data.
func (s *Service) ListIndustries(ctx context.Context) (transport.IndustryListResponse, error) {
	industries, err := s.repo.ListIndustries(ctx)
	if err != nil {
		return transport.IndustryListResponse{}, err
	}
	if industries == nil {
		industries = []string{}
	}
	return transport.IndustryListResponse{Industries: industries}, nil
}

// PercentilesFor returns the benchmark rows for an industry keyed by dimension.
// Unknown industries return an empty map so callers can render without comparisons.
func (s *Service) PercentilesFor(ctx context.Context, industry string) (map[string]repository.Benchmark, error) {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		return map[string]repository.Benchmark{}, nil
	}

	items, err := s.repo.ListByIndustry(ctx, industry)
	if err != nil {
		return nil, err
	}

	byDim := make(map[string]repository.Benchmark, len(items))
	for _, b := range items {
		byDim[b.Dimension] = b
	}
	return byDim, nil
}

// Seed loads the benchmark seed file and upserts its rows. Re-running is
// idempotent since rows are keyed on (industry, dimension).
func (s *Service) Seed(ctx context.Context, path string) error {
	rows, err := LoadSeedFile(path)
	if err != nil {
		return err
	}

	if err := s.repo.UpsertBatch(ctx, rows); err != nil {
		return err
	}

	s.log.Info("benchmark seed applied", "path", path, "rows", len(rows))
	return nil
}

func toIndustryResponse(industry string, items []repository.Benchmark) transport.IndustryBenchmarksResponse {
	dims := make([]transport.BenchmarkResponse, len(items))
	for i, b := range items {
		dims[i] = transport.BenchmarkResponse{
			Industry:  b.Industry,
			Dimension: b.Dimension,
			P25:       b.P25,
			P50:       b.P50,
			P75:       b.P75,
		}
	}
	return transport.IndustryBenchmarksResponse{Industry: industry, Dimensions: dims}
}
