package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseSpreadsheet reads an uploaded .csv or .xlsx file into raw rows.
// XLSX files are read from their first sheet only.
func parseSpreadsheet(filename string, r io.Reader) ([][]string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Could not parse CSV file: %v", err)}
		}
		return rows, nil
	case strings.HasSuffix(name, ".xlsx"):
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Could not parse XLSX file: %v", err)}
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &ValidationError{Message: "XLSX file contains no sheets."}
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Could not read XLSX rows: %v", err)}
		}
		return rows, nil
	}
	return nil, &ValidationError{Message: "Invalid file type. Please upload a CSV or XLSX file."}
}

// headerIndex maps required column names to their position in the header row.
// Header cells are matched case-insensitively after trimming. The returned
// missing slice preserves the required order.
func headerIndex(header []string, required []string) (map[string]int, []string) {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	return index, missing
}

// cellAt returns the trimmed cell at col, tolerating short rows.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
