package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSettlementDate_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"2024-01-10"`, "2024-01-10"},
		{`"2024-01-10T15:04:05Z"`, "2024-01-10"},
		{`""`, ""},
		{`null`, ""},
		// Unparseable layouts absorb to the zero date so validation can
		// report them per record instead of the decoder failing the payload.
		{`"10/01/2024"`, ""},
		{`"next tuesday"`, ""},
	}
	for _, tc := range cases {
		var d SettlementDate
		if err := json.Unmarshal([]byte(tc.in), &d); err != nil {
			t.Errorf("Unmarshal(%s) failed: %v", tc.in, err)
			continue
		}
		if tc.want == "" {
			if !d.IsZero() {
				t.Errorf("Unmarshal(%s): expected zero date, got %s", tc.in, d)
			}
			continue
		}
		if d.String() != tc.want {
			t.Errorf("Unmarshal(%s) = %s, want %s", tc.in, d, tc.want)
		}
	}
}

func TestSettlementDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewSettlementDate(2024, time.January, 10))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `"2024-01-10"` {
		t.Errorf("got %s", b)
	}

	b, err = json.Marshal(SettlementDate{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `""` {
		t.Errorf("zero date should marshal as empty string, got %s", b)
	}
}

func TestSettlementDate_Formats(t *testing.T) {
	d := NewSettlementDate(2024, time.January, 10)
	if d.String() != "2024-01-10" {
		t.Errorf("String() = %s", d.String())
	}
	if d.ExcelString() != "2024/01/10" {
		t.Errorf("ExcelString() = %s", d.ExcelString())
	}
}

func TestParseSettlementDate(t *testing.T) {
	d, err := ParseSettlementDate(" 2024-01-10 ")
	if err != nil {
		t.Fatalf("ParseSettlementDate failed: %v", err)
	}
	if d.String() != "2024-01-10" {
		t.Errorf("got %s", d)
	}
	if _, err := ParseSettlementDate("2024-13-40"); err == nil {
		t.Error("expected an error for an impossible date")
	}
}
