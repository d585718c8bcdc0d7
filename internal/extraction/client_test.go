package extraction

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const samplePayload = `{
  "metadata": {
    "source": "Broker Statement Q1",
    "confidence_score": 0.87,
    "extraction_timestamp": "2024-01-10T12:00:00Z"
  },
  "entries": [
    {
      "identifiers": {"ticker": "AAPL", "isin": "US0378331005"},
      "portfolio_data": {
        "platform": "EE",
        "trust_account_id": "1234567",
        "quantity": 100,
        "base_cost": 150.5,
        "settlement_date": "2024-01-10",
        "last_price": 160.75,
        "broker_from": "9",
        "broker_to": "26"
      },
      "field_confidence": {"quantity": 0.95}
    }
  ]
}`

func TestDecodeBatch(t *testing.T) {
	batch, err := DecodeBatch([]byte(samplePayload))
	if err != nil {
		t.Fatalf("DecodeBatch failed: %v", err)
	}
	if batch.Metadata.Source != "Broker Statement Q1" {
		t.Errorf("unexpected source %q", batch.Metadata.Source)
	}
	if batch.Metadata.Confidence == nil || *batch.Metadata.Confidence != 0.87 {
		t.Errorf("unexpected confidence %v", batch.Metadata.Confidence)
	}
	if len(batch.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(batch.Entries))
	}

	entry := batch.Entries[0]
	if entry.Identifiers.Ticker != "AAPL" {
		t.Errorf("unexpected ticker %q", entry.Identifiers.Ticker)
	}
	if entry.Transfer == nil {
		t.Fatal("entry has no transfer data")
	}
	if entry.Transfer.Quantity != 100 {
		t.Errorf("unexpected quantity %d", entry.Transfer.Quantity)
	}
	if !entry.Transfer.BaseCost.Equal(decimal.RequireFromString("150.5")) {
		t.Errorf("unexpected base cost %s", entry.Transfer.BaseCost)
	}
	if entry.Transfer.SettlementDate.String() != "2024-01-10" {
		t.Errorf("unexpected settlement date %s", entry.Transfer.SettlementDate)
	}
	if entry.FieldConfidence["quantity"] != 0.95 {
		t.Errorf("unexpected field confidence %v", entry.FieldConfidence)
	}
}

func TestDecodeBatch_CodeFences(t *testing.T) {
	fenced := "```json\n" + samplePayload + "\n```"
	batch, err := DecodeBatch([]byte(fenced))
	if err != nil {
		t.Fatalf("DecodeBatch failed on fenced payload: %v", err)
	}
	if len(batch.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(batch.Entries))
	}

	bare := "```\n" + samplePayload + "\n```"
	if _, err := DecodeBatch([]byte(bare)); err != nil {
		t.Errorf("DecodeBatch failed on bare-fenced payload: %v", err)
	}
}

func TestDecodeBatch_InvalidJSON(t *testing.T) {
	_, err := DecodeBatch([]byte("sorry, I could not read the document"))
	if err == nil {
		t.Fatal("expected an error for a non-JSON reply")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("unexpected error %q", err.Error())
	}
}

func TestDecodeBatch_EmptyEntries(t *testing.T) {
	batch, err := DecodeBatch([]byte(`{"metadata": {"source": "x", "extraction_timestamp": "2024-01-10T12:00:00Z"}, "entries": []}`))
	if err != nil {
		t.Fatalf("DecodeBatch failed: %v", err)
	}
	if len(batch.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(batch.Entries))
	}
}
