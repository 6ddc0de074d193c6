package repository

import "context"

// Benchmark holds the percentile scores for one industry and scoring dimension.
type Benchmark struct {
	Industry  string `db:"industry"`
	Dimension string `db:"dimension"`
	P25       int    `db:"p25"`
	P50       int    `db:"p50"`
	P75       int    `db:"p75"`
}

// BenchmarkReader provides read operations for benchmarks.
type BenchmarkReader interface {
	ListByIndustry(ctx context.Context, industry string) ([]Benchmark, error)
	ListIndustries(ctx context.Context) ([]string, error)
}

// BenchmarkWriter provides write operations for benchmarks.
type BenchmarkWriter interface {
	UpsertBatch(ctx context.Context, rows []Benchmark) error
}

// Repository combines all benchmark repository operations.
type Repository interface {
	BenchmarkReader
	BenchmarkWriter
}
