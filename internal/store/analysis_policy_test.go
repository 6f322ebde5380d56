package store

import "testing"

func TestBuildMergeSet(t *testing.T) {
	tests := []struct {
		name     string
		policy   []fieldPolicy
		firstArg int
		want     string
	}{
		{
			"overwrite",
			[]fieldPolicy{{column: "sentiment_score", mode: overwriteAlways}},
			2,
			"sentiment_score = $2",
		},
		{
			"keep if present",
			[]fieldPolicy{{column: "topic", mode: keepIfPresent}},
			3,
			"topic = COALESCE($3, topic)",
		},
		{
			"keep then default",
			[]fieldPolicy{{column: "confidence", mode: keepThenDefault, fallback: "0.75"}},
			2,
			"confidence = COALESCE($2, confidence, 0.75)",
		},
		{
			"mixed placeholders increment in order",
			[]fieldPolicy{
				{column: "a", mode: overwriteAlways},
				{column: "b", mode: keepIfPresent},
			},
			5,
			"a = $5, b = COALESCE($6, b)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildMergeSet(tt.policy, tt.firstArg)
			if got != tt.want {
				t.Errorf("buildMergeSet() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThreadPolicyNeverOverwrites(t *testing.T) {
	for _, p := range threadPolicy {
		if p.mode == overwriteAlways {
			t.Errorf("thread column %s must not overwrite stored values", p.column)
		}
	}
}

func TestMessagePolicyAlwaysOverwrites(t *testing.T) {
	for _, p := range messagePolicy {
		if p.mode != overwriteAlways {
			t.Errorf("message column %s must restate the latest analysis", p.column)
		}
	}
}
