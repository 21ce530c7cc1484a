package ingest

import (
	"strings"

	"BdsCrm/internal/config"
)

// Record is one data row keyed by RAW header text. Header order is kept so
// the fallback phone scan can honor column order; canonicalization to
// field keys happens inside Reconcile.
type Record struct {
	Headers []string
	Values  map[string]string
}

// Get returns the trimmed cell under a raw header.
func (r Record) Get(rawHeader string) string {
	return strings.TrimSpace(r.Values[rawHeader])
}

// FindHeaderRow locates the real header row in a raw grid. Exports often
// carry a title line or merged banner above the table, so the first
// config.HeaderScanRows rows are scored by how many cells map to a known
// canonical field. The scan short-circuits on the first row with two or
// more matches and otherwise falls back to the best row seen (row 0 when
// nothing matched at all).
func FindHeaderRow(grid [][]string) int {
	best, bestCount := 0, 0
	for i := 0; i < len(grid) && i < config.HeaderScanRows; i++ {
		count := 0
		for _, cell := range grid[i] {
			if CanonicalField(cell) != "" {
				count++
			}
		}
		if count >= 2 {
			return i
		}
		if count > bestCount {
			best, bestCount = i, count
		}
	}
	return best
}

// MapToRecords converts a raw grid into ordered records keyed by raw
// header text. Rows where every cell is blank after trimming are dropped.
func MapToRecords(grid [][]string) []Record {
	if len(grid) == 0 {
		return nil
	}
	headerIdx := FindHeaderRow(grid)
	headerRow := grid[headerIdx]

	headers := make([]string, 0, len(headerRow))
	for _, h := range headerRow {
		headers = append(headers, strings.TrimSpace(h))
	}

	records := make([]Record, 0, len(grid)-headerIdx-1)
	for _, row := range grid[headerIdx+1:] {
		values := make(map[string]string, len(headers))
		blank := true
		for col, h := range headers {
			if h == "" {
				continue
			}
			var cell string
			if col < len(row) {
				cell = row[col]
			}
			values[h] = cell
			if strings.TrimSpace(cell) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		records = append(records, Record{Headers: headers, Values: values})
	}
	return records
}
