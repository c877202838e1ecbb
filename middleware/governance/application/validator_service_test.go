package application

import (
	"net/http"
	"testing"
	"time"

	"governance-gateway/middleware/governance/domain"
)

func clockAt(hour int, weekday time.Weekday) func() time.Time {
	// 2024-01-01 é segunda-feira; soma dias até o weekday pedido.
	base := time.Date(2024, 1, 1, hour, 30, 0, 0, time.UTC)
	for base.Weekday() != weekday {
		base = base.AddDate(0, 0, 1)
	}
	return func() time.Time { return base }
}

func TestValidator_BusinessHoursWraparound(t *testing.T) {
	svc := ValidatorService{
		Config: domain.DomainConfig{
			Prefix: "night_",
			Hours:  domain.BusinessHours{Start: 22, End: 6},
		},
	}

	cases := []struct {
		hour     int
		rejected bool
	}{
		{23, false},
		{3, false},
		{12, true},
	}
	for _, tc := range cases {
		svc.Now = clockAt(tc.hour, time.Monday)
		rej := svc.Validate("/night/turno", http.Header{})
		if (rej != nil) != tc.rejected {
			t.Fatalf("hour %d: rejection=%v, want rejected=%v", tc.hour, rej, tc.rejected)
		}
		if rej != nil && rej.Kind != domain.RejectOutOfHours {
			t.Fatalf("hour %d: expected out_of_hours, got %s", tc.hour, rej.Kind)
		}
	}
}

func TestValidator_EmergencyBypassesHours(t *testing.T) {
	svc := ValidatorService{
		Config: domain.DomainConfig{
			Prefix:             "vet_",
			Hours:              domain.BusinessHours{Start: 8, End: 20},
			EmergencyFragments: []string{"/emergency"},
		},
		Now: clockAt(3, time.Monday),
	}

	if rej := svc.Validate("/vet/emergency/intake", http.Header{}); rej != nil {
		t.Fatalf("expected emergency path to bypass hours, got %+v", rej)
	}
	if rej := svc.Validate("/vet/consulta", http.Header{}); rej == nil {
		t.Fatalf("expected non-emergency path to be rejected out of hours")
	}
}

func TestValidator_RequiredHeadersCaseInsensitive(t *testing.T) {
	svc := ValidatorService{
		Config: domain.DomainConfig{
			Prefix:          "vet_",
			Hours:           domain.BusinessHours{Start: 0, End: 24},
			RequiredHeaders: []string{"X-Vet-License"},
		},
	}

	missing := svc.Validate("/vet/consulta", http.Header{})
	if missing == nil || missing.Kind != domain.RejectMissingHeaders {
		t.Fatalf("expected missing_headers rejection, got %+v", missing)
	}
	if len(missing.MissingHeaders) != 1 || missing.MissingHeaders[0] != "X-Vet-License" {
		t.Fatalf("expected offending header echoed, got %v", missing.MissingHeaders)
	}

	// header em caixa baixa deve passar (comparação case-insensitive)
	headers := http.Header{}
	headers.Set("x-vet-license", "ABC-123")
	if rej := svc.Validate("/vet/consulta", headers); rej != nil {
		t.Fatalf("expected lowercase header to satisfy requirement, got %+v", rej)
	}
}

func TestValidator_WeekendRestriction(t *testing.T) {
	svc := ValidatorService{
		Config: domain.DomainConfig{
			Prefix:            "edu_",
			Hours:             domain.BusinessHours{Start: 0, End: 24},
			WeekendRestricted: []string{"booking"},
		},
	}

	svc.Now = clockAt(10, time.Saturday)
	rej := svc.Validate("/edu/booking/42", http.Header{})
	if rej == nil || rej.Kind != domain.RejectRuleViolation {
		t.Fatalf("expected rule_violation on saturday, got %+v", rej)
	}

	svc.Now = clockAt(10, time.Wednesday)
	if rej := svc.Validate("/edu/booking/42", http.Header{}); rej != nil {
		t.Fatalf("expected booking to pass on wednesday, got %+v", rej)
	}

	svc.Now = clockAt(10, time.Sunday)
	if rej := svc.Validate("/edu/schedule", http.Header{}); rej != nil {
		t.Fatalf("expected non-restricted path to pass on sunday, got %+v", rej)
	}
}

func TestValidator_ControlledResourceHeader(t *testing.T) {
	svc := ValidatorService{
		Config: domain.DomainConfig{
			Prefix:              "pharma_",
			Hours:               domain.BusinessHours{Start: 0, End: 24},
			ControlledFragments: []string{"controlled"},
			ControlledHeader:    "X-Prescription-ID",
		},
	}

	rej := svc.Validate("/pharma/controlled/opioids", http.Header{})
	if rej == nil || rej.Kind != domain.RejectRuleViolation {
		t.Fatalf("expected rule_violation without prescription, got %+v", rej)
	}

	headers := http.Header{}
	headers.Set("X-Prescription-ID", "RX-1")
	if rej := svc.Validate("/pharma/controlled/opioids", headers); rej != nil {
		t.Fatalf("expected prescription header to pass, got %+v", rej)
	}
}
