package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/epeers/transferdesk/internal/models"
)

// ParseInstrumentsCSV parses an instrument reference CSV into a slice of
// Instrument. Used to seed the in-memory directory in deployments without
// a Postgres-backed reference dataset.
// Required columns: id, ticker, name, exchange, currency
// Optional columns: isin (missing column or empty value yields a nil ISIN)
// Rows with an empty ticker are skipped.
func ParseInstrumentsCSV(r io.Reader) ([]models.Instrument, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range []string{"id", "ticker", "name", "exchange", "currency"} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	optionalCol := func(record []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var instruments []models.Instrument
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to read CSV record: %w", rowNum+1, err)
		}
		rowNum++

		ticker := strings.TrimSpace(record[colIdx["ticker"]])
		if ticker == "" {
			continue
		}

		idStr := strings.TrimSpace(record[colIdx["id"]])
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid instrument id %q", rowNum, idStr)
		}

		inst := models.Instrument{
			ID:       id,
			Ticker:   ticker,
			Name:     strings.TrimSpace(record[colIdx["name"]]),
			Exchange: strings.TrimSpace(record[colIdx["exchange"]]),
			Currency: strings.TrimSpace(record[colIdx["currency"]]),
		}
		if isin := optionalCol(record, "isin"); isin != "" {
			inst.ISIN = &isin
		}

		instruments = append(instruments, inst)
	}

	return instruments, nil
}
