// Package transport defines request and response DTOs for industry benchmarks.
package transport

// BenchmarkResponse is a single industry/dimension percentile row.
type BenchmarkResponse struct {
	Industry  string `json:"industry"`
	Dimension string `json:"dimension"`
	P25       int    `json:"p25"`
	P50       int    `json:"p50"`
	P75       int    `json:"p75"`
}

// IndustryBenchmarksResponse groups all dimension rows for one industry.
type IndustryBenchmarksResponse struct {
	Industry   string              `json:"industry"`
	Dimensions []BenchmarkResponse `json:"dimensions"`
}

// IndustryListResponse lists the industries that have benchmark data.
type IndustryListResponse struct {
	Industries []string `json:"industries"`
}
