package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new benchmark repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListByIndustry retrieves all dimension rows for an industry, ordered by dimension.
func (r *Repo) ListByIndustry(ctx context.Context, industry string) ([]Benchmark, error) {
	query := `
		SELECT industry, dimension, p25, p50, p75
		FROM NYT_benchmarks
		WHERE industry = $1
		ORDER BY dimension ASC`

	rows, err := r.pool.Query(ctx, query, industry)
	if err != nil {
		return nil, fmt.Errorf("list benchmarks by industry: %w", err)
	}
	defer rows.Close()

	return scanBenchmarks(rows)
}

// ListIndustries retrieves the distinct industries with benchmark data.
func (r *Repo) ListIndustries(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT industry FROM NYT_benchmarks ORDER BY industry ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list benchmark industries: %w", err)
	}
	defer rows.Close()

	var industries []string
	for rows.Next() {
		var industry string
		if err := rows.Scan(&industry); err != nil {
			return nil, fmt.Errorf("scan benchmark industry: %w", err)
		}
		industries = append(industries, industry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate benchmark industries: %w", err)
	}

	return industries, nil
}

// UpsertBatch inserts or updates benchmark rows keyed on (industry, dimension).
func (r *Repo) UpsertBatch(ctx context.Context, items []Benchmark) error {
	query := `
		INSERT INTO NYT_benchmarks (industry, dimension, p25, p50, p75)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (industry, dimension) DO UPDATE SET
			p25 = EXCLUDED.p25,
			p50 = EXCLUDED.p50,
			p75 = EXCLUDED.p75,
			updated_at = now()`

	batch := &pgx.Batch{}
	for _, b := range items {
		batch.Queue(query, b.Industry, b.Dimension, b.P25, b.P50, b.P75)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert benchmark: %w", err)
		}
	}

	return nil
}

func scanBenchmarks(rows pgx.Rows) ([]Benchmark, error) {
	var results []Benchmark

	for rows.Next() {
		var b Benchmark
		if err := rows.Scan(&b.Industry, &b.Dimension, &b.P25, &b.P50, &b.P75); err != nil {
			return nil, fmt.Errorf("scan benchmark: %w", err)
		}
		results = append(results, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate benchmarks: %w", err)
	}

	return results, nil
}
