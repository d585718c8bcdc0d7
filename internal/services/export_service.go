package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/epeers/transferdesk/internal/models"
)

// exportColumns is the column layout mandated by the downstream consumer.
// The trailing space in "User ID ", the © glyph in "Base Cost ©" and the
// two near-empty trailing columns are all part of the contract and must be
// reproduced byte-for-byte.
var exportColumns = []string{
	"SX/EE",
	"User ID ",
	"TrustAccountID",
	"ShareCode",
	"InstrumentID",
	"Qty",
	"Base Cost ©",
	"Excel Date",
	"SettlementDate",
	"Last Price",
	"BrokerID_From",
	"BrokerID_To",
	"Reference",
	"",
	" ",
}

// ExportCSV renders the given records as the externally mandated CSV text.
// It performs no validation: callers must only pass export-eligible
// records. Output is append-only text generation, one row per record in
// input order.
func ExportCSV(records []models.PortfolioRecord, userID string) string {
	var b strings.Builder
	writeExportRow(&b, exportColumns)
	for i := range records {
		writeExportRow(&b, exportRow(&records[i], userID))
	}
	return b.String()
}

// exportRow derives the field values for one record. Broker IDs carry one
// trailing space, and Reference embeds commas; both are quirks of the
// consumer's format.
func exportRow(r *models.PortfolioRecord, userID string) []string {
	return []string{
		string(r.Platform),
		userID,
		r.TrustAccountID,
		r.Ticker,
		strconv.FormatInt(r.InstrumentID, 10),
		strconv.FormatInt(r.Quantity, 10),
		r.BaseCost.String(),
		r.SettlementDate.ExcelString(),
		r.SettlementDate.String(),
		r.LastPrice.String(),
		r.BrokerFrom + " ",
		r.BrokerTo + " ",
		exportReference(r.SettlementDate),
		"",
		" ",
	}
}

// exportReference builds the Reference column: a single logical field with
// embedded commas, so it always ends up quoted.
func exportReference(d models.SettlementDate) string {
	return fmt.Sprintf("NT -%s,NT -,%s", d.String(), d.ExcelString())
}

func writeExportRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quoteExportField(f))
	}
	b.WriteByte('\n')
}

// quoteExportField quotes a field when it contains the delimiter, a quote,
// a newline, or the currency-unit glyph. encoding/csv is not used here: its
// quoting rules would leave the © header bare, and the consumer requires it
// quoted.
func quoteExportField(s string) string {
	if strings.ContainsAny(s, ",\"\n") || strings.Contains(s, "©") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
