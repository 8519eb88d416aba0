package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readRows loads the raw cell grid of an uploaded export. CSV and XLSX
// are the only formats the marketplaces produce; one sheet per upload.
func readRows(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return readWorkbookRows(r)
	case ".csv", ".txt":
		return readCSVRows(r)
	default:
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(filename))
	}
}

func readWorkbookRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		rows = append(rows, record)
	}

	// Some exports prefix the first cell with a UTF-8 BOM.
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return rows, nil
}

// normalizeHeader cleans a source column name for matching. Marketplace
// exports wrap headers in quotes or prefix them with '=' to force text
// cells in spreadsheet apps.
func normalizeHeader(h string) string {
	cleaned := strings.NewReplacer(`"`, "", "=", "", "'", "").Replace(h)
	return strings.ToLower(strings.Join(strings.Fields(cleaned), " "))
}

// findColumn locates a source column by candidate names: exact match on
// the normalized header first, then containment either way.
func findColumn(headers []string, candidates []string) int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	for _, cand := range candidates {
		want := normalizeHeader(cand)
		for i, have := range normalized {
			if have == want {
				return i
			}
		}
	}
	for _, cand := range candidates {
		want := normalizeHeader(cand)
		if want == "" {
			continue
		}
		for i, have := range normalized {
			if have == "" {
				continue
			}
			if strings.Contains(have, want) || strings.Contains(want, have) {
				return i
			}
		}
	}
	return -1
}

// findHeaderRow scans the leading rows for the one that carries any of
// the required key columns. Several marketplaces (Tabby, SMSA) prepend
// summary preambles before the real header.
func findHeaderRow(rows [][]string, keyCandidates []string, maxScan int) int {
	if maxScan > len(rows) {
		maxScan = len(rows)
	}
	for i := 0; i < maxScan; i++ {
		if findColumn(rows[i], keyCandidates) >= 0 {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
