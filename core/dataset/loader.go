// Package dataset ingests the candidate site table. The dataset is an
// opaque read-only input: loading validates the schema, skips malformed
// rows with a recorded count, and hands the engine an immutable pool.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"h2-site-plan/core/types"
	"h2-site-plan/internal/errors"
	"h2-site-plan/internal/logging"
)

// Column names the loader recognizes. Any column prefixed risk_ becomes
// a risk factor category (e.g. risk_regulatory -> regulatory).
const (
	colSiteID            = "site_id"
	colLatitude          = "latitude"
	colLongitude         = "longitude"
	colEstimatedCost     = "estimated_cost"
	colRenewableDistance = "renewable_distance"
	colDemandDistance    = "demand_distance"
	colFeasibility       = "feasibility_score"

	riskColumnPrefix = "risk_"
)

// maxRecordedReasons caps how many per-row skip reasons are kept; the
// count is always exact.
const maxRecordedReasons = 20

// LoadResult is the outcome of an ingestion run.
type LoadResult struct {
	// Sites are the valid candidate records
	Sites []types.Site `json:"sites"`

	// SkippedRows counts malformed rows excluded from the pool
	SkippedRows int `json:"skipped_rows"`

	// SkipReasons samples per-row reasons (capped)
	SkipReasons []string `json:"skip_reasons,omitempty"`
}

// LoadFile reads a candidate CSV from disk.
func LoadFile(path string) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeData, "unable to open candidate dataset", err).
			WithContext("path", path)
	}
	defer file.Close()
	return Load(file)
}

// Load reads a candidate CSV from a reader. The header row is required;
// malformed data rows are skipped and counted, never fatal. A dataset
// with zero valid rows is a DATA_ERROR.
func Load(r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(errors.TypeData, "unable to read dataset header", err)
	}
	index := mapHeaders(header)

	required := []string{colSiteID, colLatitude, colLongitude, colEstimatedCost, colRenewableDistance, colDemandDistance}
	if missing := missingHeaders(required, index); len(missing) > 0 {
		return nil, errors.Dataf("missing required columns: %s", strings.Join(missing, ", ")).
			WithField(missing[0])
	}
	riskColumns := riskHeaders(index)

	result := &LoadResult{}
	seen := make(map[string]bool)
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.skip(fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		site, reason := parseSite(record, index, riskColumns, line)
		if site == nil {
			result.skip(reason)
			continue
		}
		if seen[site.ID] {
			result.skip(fmt.Sprintf("line %d: duplicate site id %q", line, site.ID))
			continue
		}
		seen[site.ID] = true
		result.Sites = append(result.Sites, *site)
	}

	if len(result.Sites) == 0 {
		return nil, errors.Dataf("no valid candidate sites found (%d rows skipped)", result.SkippedRows)
	}

	if result.SkippedRows > 0 {
		logging.Warn("skipped malformed dataset rows",
			zap.Int("skipped", result.SkippedRows),
			zap.Int("loaded", len(result.Sites)),
		)
	}
	return result, nil
}

func (r *LoadResult) skip(reason string) {
	r.SkippedRows++
	if len(r.SkipReasons) < maxRecordedReasons {
		r.SkipReasons = append(r.SkipReasons, reason)
	}
}

func mapHeaders(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		index[key] = i
	}
	return index
}

func missingHeaders(required []string, index map[string]int) []string {
	var missing []string
	for _, key := range required {
		if _, ok := index[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// riskHeaders returns risk_* columns mapped to their category names.
func riskHeaders(index map[string]int) map[string]int {
	columns := make(map[string]int)
	for key, pos := range index {
		if strings.HasPrefix(key, riskColumnPrefix) && len(key) > len(riskColumnPrefix) {
			columns[strings.TrimPrefix(key, riskColumnPrefix)] = pos
		}
	}
	return columns
}

func parseSite(record []string, index map[string]int, riskColumns map[string]int, line int) (*types.Site, string) {
	get := func(key string) string {
		pos, ok := index[key]
		if !ok || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	id := get(colSiteID)
	if id == "" {
		return nil, fmt.Sprintf("line %d: missing site_id", line)
	}

	parse := func(key string) (float64, string) {
		raw := get(key)
		if raw == "" {
			return 0, fmt.Sprintf("line %d: missing %s", line, key)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Sprintf("line %d: invalid %s %q", line, key, raw)
		}
		return v, ""
	}

	site := &types.Site{ID: id}
	for _, field := range []struct {
		key string
		dst *float64
	}{
		{colLatitude, &site.Latitude},
		{colLongitude, &site.Longitude},
		{colEstimatedCost, &site.EstimatedCost},
		{colRenewableDistance, &site.RenewableDistance},
		{colDemandDistance, &site.DemandDistance},
	} {
		v, reason := parse(field.key)
		if reason != "" {
			return nil, reason
		}
		*field.dst = v
	}

	// feasibility_score is optional; blank means absent, not zero.
	if raw := get(colFeasibility); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Sprintf("line %d: invalid %s %q", line, colFeasibility, raw)
		}
		site.RawFeasibility = &v
	}

	if len(riskColumns) > 0 {
		site.RiskFactors = make(map[string]float64, len(riskColumns))
		for category, pos := range riskColumns {
			if pos >= len(record) {
				continue
			}
			raw := strings.TrimSpace(record[pos])
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Sprintf("line %d: invalid risk_%s %q", line, category, raw)
			}
			site.RiskFactors[category] = v
		}
		if len(site.RiskFactors) == 0 {
			site.RiskFactors = nil
		}
	}

	if err := site.Validate(); err != nil {
		return nil, fmt.Sprintf("line %d: %v", line, err)
	}
	return site, ""
}
