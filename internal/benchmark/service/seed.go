package service

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"nytro_assessment_backend/internal/assessment/engine"
	"nytro_assessment_backend/internal/benchmark/repository"
)

// seedFile mirrors the on-disk YAML layout:
//
//	industries:
//	  saas:
//	    inbound: {p25: 50, p50: 70, p75: 85}
type seedFile struct {
	Industries map[string]map[string]seedPercentiles `yaml:"industries"`
}

type seedPercentiles struct {
	P25 int `yaml:"p25"`
	P50 int `yaml:"p50"`
	P75 int `yaml:"p75"`
}

// LoadSeedFile parses a benchmark seed YAML file into repository rows.
// Dimensions must match the assessment module keys and percentiles must be
// ordered 0 <= p25 <= p50 <= p75 <= 100.
func LoadSeedFile(path string) ([]repository.Benchmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses and validates benchmark seed YAML content.
func ParseSeed(data []byte) ([]repository.Benchmark, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse benchmark seed: %w", err)
	}
	if len(f.Industries) == 0 {
		return nil, fmt.Errorf("benchmark seed contains no industries")
	}

	validDims := make(map[string]bool, len(engine.ModuleOrder))
	for _, m := range engine.ModuleOrder {
		validDims[string(m)] = true
	}

	industries := make([]string, 0, len(f.Industries))
	for industry := range f.Industries {
		industries = append(industries, industry)
	}
	sort.Strings(industries)

	var rows []repository.Benchmark
	for _, industry := range industries {
		dims := f.Industries[industry]

		dimKeys := make([]string, 0, len(dims))
		for dim := range dims {
			dimKeys = append(dimKeys, dim)
		}
		sort.Strings(dimKeys)

		for _, dim := range dimKeys {
			if !validDims[dim] {
				return nil, fmt.Errorf("benchmark seed: unknown dimension %q for industry %q", dim, industry)
			}
			p := dims[dim]
			if p.P25 < 0 || p.P75 > 100 || p.P25 > p.P50 || p.P50 > p.P75 {
				return nil, fmt.Errorf("benchmark seed: invalid percentiles for %s.%s: %d/%d/%d",
					industry, dim, p.P25, p.P50, p.P75)
			}
			rows = append(rows, repository.Benchmark{
				Industry:  industry,
				Dimension: dim,
				P25:       p.P25,
				P50:       p.P50,
				P75:       p.P75,
			})
		}
	}

	return rows, nil
}
