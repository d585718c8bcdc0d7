package delivery

import (
	"context"
	"testing"
)

func TestNewEmailSender_FallsBackToMock(t *testing.T) {
	cases := []struct{ domain, apiKey, sender string }{
		{"", "", ""},
		{"mg.example.com", "", "noreply@example.com"},
		{"mg.example.com", "key", ""},
		{"", "key", "noreply@example.com"},
	}
	for _, tc := range cases {
		s := NewEmailSender(tc.domain, tc.apiKey, tc.sender)
		if _, ok := s.(*MockSender); !ok {
			t.Errorf("incomplete config %+v should yield a MockSender, got %T", tc, s)
		}
	}
}

func TestNewEmailSender_Mailgun(t *testing.T) {
	s := NewEmailSender("mg.example.com", "key", "noreply@example.com")
	if _, ok := s.(*MailgunSender); !ok {
		t.Fatalf("expected a MailgunSender, got %T", s)
	}
}

func TestMockSender_SendExport(t *testing.T) {
	var s MockSender
	if err := s.SendExport(context.Background(), "ops@example.com", []byte("SX/EE\n"), 1); err != nil {
		t.Fatalf("MockSender should never fail: %v", err)
	}
}
