// Package sheet loads Excel workbooks and renames their loosely-structured
// headers to canonical column names. It is the only package that touches
// xlsx files; everything downstream works on canonical rows.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row maps canonical column names to trimmed cell values. Columns whose
// header matched no alias are dropped.
type Row map[string]string

// Aliases maps a canonical column name to the header spellings that have
// appeared in historical exports. Matching is case-insensitive on the
// trimmed header; an exact match wins over a substring match.
type Aliases map[string][]string

// ReadRows reads the first worksheet of an xlsx file and returns its data
// rows keyed by canonical column names. Rows with no recognized non-empty
// cell are skipped.
func ReadRows(path string, aliases Aliases) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	mapping := mapHeaders(rows[0], aliases)
	if len(mapping) == 0 {
		return nil, fmt.Errorf("no recognized columns in %s (headers: %v)", path, rows[0])
	}

	var out []Row
	for _, raw := range rows[1:] {
		row := make(Row, len(mapping))
		empty := true
		for colIdx, canonical := range mapping {
			if colIdx >= len(raw) {
				continue
			}
			value := strings.TrimSpace(raw[colIdx])
			if value != "" {
				empty = false
			}
			row[canonical] = value
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out, nil
}

// mapHeaders resolves each column index to a canonical name. The first
// column matching a canonical name claims it; later duplicates are ignored.
func mapHeaders(headers []string, aliases Aliases) map[int]string {
	mapping := make(map[int]string)
	claimed := make(map[string]bool)

	// Exact matches first so "rate" does not steal the "rate name" column.
	for _, exact := range []bool{true, false} {
		for idx, header := range headers {
			if _, done := mapping[idx]; done {
				continue
			}
			h := normalizeHeader(header)
			if h == "" {
				continue
			}
			for canonical, spellings := range aliases {
				if claimed[canonical] {
					continue
				}
				if matchHeader(h, canonical, spellings, exact) {
					mapping[idx] = canonical
					claimed[canonical] = true
					break
				}
			}
		}
	}
	return mapping
}

func matchHeader(header, canonical string, spellings []string, exact bool) bool {
	candidates := append([]string{canonical}, spellings...)
	for _, candidate := range candidates {
		c := normalizeHeader(candidate)
		if exact {
			if header == c {
				return true
			}
		} else if strings.Contains(header, c) {
			return true
		}
	}
	return false
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
