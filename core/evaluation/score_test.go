package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []CriteriaScore
		want   float64
	}{
		{name: "no scores", scores: nil, want: 0},
		{
			name: "full marks yield 100 times the weight sum",
			scores: []CriteriaScore{
				{Score: 10, MaxScore: 10, Weight: 0.25},
				{Score: 10, MaxScore: 10, Weight: 0.25},
				{Score: 10, MaxScore: 10, Weight: 0.2},
				{Score: 10, MaxScore: 10, Weight: 0.2},
				{Score: 10, MaxScore: 10, Weight: 0.1},
			},
			want: 100,
		},
		{
			name: "partial marks",
			scores: []CriteriaScore{
				{Score: 5, MaxScore: 10, Weight: 0.5},
				{Score: 2, MaxScore: 4, Weight: 0.5},
			},
			want: 50,
		},
		{
			name: "zero max score contributes nothing",
			scores: []CriteriaScore{
				{Score: 7, MaxScore: 0, Weight: 0.5},
				{Score: 10, MaxScore: 10, Weight: 0.5},
			},
			want: 50,
		},
		{
			name: "negative max score contributes nothing",
			scores: []CriteriaScore{
				{Score: 7, MaxScore: -1, Weight: 0.5},
				{Score: 10, MaxScore: 10, Weight: 0.5},
			},
			want: 50,
		},
		{
			name: "weights above 1 in total are not clamped",
			scores: []CriteriaScore{
				{Score: 10, MaxScore: 10, Weight: 0.7},
				{Score: 10, MaxScore: 10, Weight: 0.5},
			},
			want: 120,
		},
		{
			name:   "zero score",
			scores: []CriteriaScore{{Score: 0, MaxScore: 10, Weight: 1}},
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TotalScore(tt.scores), 1e-9)
		})
	}
}
