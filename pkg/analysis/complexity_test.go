package analysis

import (
	"math"
	"slices"
	"testing"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name      string
		agents    int
		rooms     []string
		edges     []string
		steps     int
		wantScore float64
		wantClass Class
		reasons   []string
	}{
		{
			name:      "direct tunnel",
			agents:    5,
			edges:     []string{"Sv", "Sd"},
			steps:     1,
			wantScore: 40 + 5,
			wantClass: ClassVerySimple,
			reasons:   []string{"direct Sv-Sd tunnel", "1 step"},
		},
		{
			name:      "fork",
			agents:    4,
			rooms:     []string{"A", "B"},
			edges:     []string{"Sv", "A", "Sv", "B", "A", "Sd", "B", "Sd"},
			steps:     4,
			wantScore: 20 + 0 + 4 - 3,
			wantClass: ClassSimple,
			reasons:   []string{"no bottleneck", "2 paths"},
		},
		{
			name:      "shared corridor",
			agents:    3,
			rooms:     []string{"A", "B", "C", "D"},
			edges:     []string{"Sv", "A", "Sv", "B", "A", "C", "B", "C", "C", "D", "D", "Sd"},
			steps:     6,
			wantScore: 7.5 + 20 + 8 - 3,
			wantClass: ClassModerate,
		},
		{
			name:      "crowded line",
			agents:    40,
			rooms:     []string{"M"},
			edges:     []string{"Sv", "M", "M", "Sd"},
			steps:     41,
			wantScore: 40 + 10 + 2,
			wantClass: ClassComplex,
			reasons:   []string{"2 bottlenecks", "high ant/capacity ratio (40.0)", "41 steps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := build(t, tt.agents, tt.rooms, tt.edges...)
			c := Assess(n, Analyze(n), tt.steps)

			if math.Abs(c.Score-tt.wantScore) > 1e-9 {
				t.Errorf("Score = %v, want %v", c.Score, tt.wantScore)
			}
			if c.Class != tt.wantClass {
				t.Errorf("Class = %s, want %s", c.Class, tt.wantClass)
			}
			if tt.reasons != nil && !slices.Equal(c.Reasons, tt.reasons) {
				t.Errorf("Reasons = %q, want %q", c.Reasons, tt.reasons)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  Class
	}{
		{0, ClassVerySimple},
		{15, ClassVerySimple},
		{15.5, ClassSimple},
		{30, ClassSimple},
		{50, ClassModerate},
		{70, ClassComplex},
		{70.1, ClassVeryComplex},
	}
	for _, tt := range tests {
		if got := classify(tt.score); got != tt.want {
			t.Errorf("classify(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
