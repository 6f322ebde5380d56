package models

import "testing"

func ptr[T any](v T) *T { return &v }

func TestSentimentClamped(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want *float64
	}{
		{"absent", nil, nil},
		{"in range", ptr(0.25), ptr(0.25)},
		{"above upper bound", ptr(2.5), ptr(1.0)},
		{"at upper bound", ptr(1.0), ptr(1.0)},
		{"below lower bound", ptr(-3.0), ptr(-1.0)},
		{"at lower bound", ptr(-1.0), ptr(-1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalysisInput{SentimentScore: tt.in}.Sentiment()
			switch {
			case tt.want == nil:
				if got != nil {
					t.Errorf("Sentiment() = %v, want nil", *got)
				}
			case got == nil:
				t.Errorf("Sentiment() = nil, want %v", *tt.want)
			case *got != *tt.want:
				t.Errorf("Sentiment() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestConfidenceClamped(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want *float64
	}{
		{"absent", nil, nil},
		{"in range", ptr(0.9), ptr(0.9)},
		{"above one", ptr(1.3), ptr(1.0)},
		{"negative", ptr(-0.4), ptr(0.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalysisInput{Confidence: tt.in}.ConfidenceClamped()
			switch {
			case tt.want == nil:
				if got != nil {
					t.Errorf("ConfidenceClamped() = %v, want nil", *got)
				}
			case got == nil:
				t.Errorf("ConfidenceClamped() = nil, want %v", *tt.want)
			case *got != *tt.want:
				t.Errorf("ConfidenceClamped() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestUrgencyDefaultsToLow(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want string
	}{
		{"absent", nil, UrgencyLow},
		{"empty", ptr(""), UrgencyLow},
		{"high", ptr(UrgencyHigh), UrgencyHigh},
		{"medium", ptr(UrgencyMedium), UrgencyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (AnalysisInput{UrgencyLevel: tt.in}).Urgency(); got != tt.want {
				t.Errorf("Urgency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReasonsNeverNil(t *testing.T) {
	if got := (AnalysisInput{}).Reasons(); got == nil || len(got) != 0 {
		t.Errorf("Reasons() = %v, want empty non-nil slice", got)
	}

	if got := (AnalysisInput{UrgencyReasons: []string{"deadline"}}).Reasons(); len(got) != 1 {
		t.Errorf("Reasons() = %v", got)
	}
}

func TestTopicTrimmed(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"absent", nil, nil},
		{"blank", ptr("   "), nil},
		{"padded", ptr("  roads \t"), ptr("roads")},
		{"clean", ptr("parking"), ptr("parking")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalysisInput{Topic: tt.in}.TopicTrimmed()
			switch {
			case tt.want == nil:
				if got != nil {
					t.Errorf("TopicTrimmed() = %q, want nil", *got)
				}
			case got == nil:
				t.Errorf("TopicTrimmed() = nil, want %q", *tt.want)
			case *got != *tt.want:
				t.Errorf("TopicTrimmed() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestDeriveSummary(t *testing.T) {
	tests := []struct {
		name             string
		subject, snippet string
		want             *string
	}{
		{"snippet wins", "Pothole on 5th", "The pothole keeps growing.", ptr("The pothole keeps growing.")},
		{"subject fallback", "Pothole on 5th", "  ", ptr("Pothole on 5th")},
		{"both blank", " ", "\t", nil},
		{"snippet trimmed", "", "  urgent \n", ptr("urgent")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveSummary(tt.subject, tt.snippet)
			switch {
			case tt.want == nil:
				if got != nil {
					t.Errorf("DeriveSummary() = %q, want nil", *got)
				}
			case got == nil:
				t.Errorf("DeriveSummary() = nil, want %q", *tt.want)
			case *got != *tt.want:
				t.Errorf("DeriveSummary() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestIsValidUrgency(t *testing.T) {
	for _, level := range []string{UrgencyLow, UrgencyMedium, UrgencyHigh} {
		if !IsValidUrgency(level) {
			t.Errorf("IsValidUrgency(%q) = false", level)
		}
	}
	for _, bad := range []string{"", "critical", "LOW"} {
		if IsValidUrgency(bad) {
			t.Errorf("IsValidUrgency(%q) = true", bad)
		}
	}
}
