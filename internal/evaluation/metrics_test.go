package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecallAtK(t *testing.T) {
	cases := []struct {
		name      string
		relevant  []string
		retrieved []string
		k         int
		want      float64
	}{
		{"all found", []string{"a", "b"}, []string{"a", "b", "c"}, 10, 1.0},
		{"half found", []string{"a", "b"}, []string{"a", "x", "y"}, 10, 0.5},
		{"none found", []string{"a"}, []string{"x", "y"}, 10, 0.0},
		{"found outside cutoff", []string{"c"}, []string{"a", "b", "c"}, 2, 0.0},
		{"no relevant items", nil, []string{"a"}, 10, 0.0},
		{"empty retrieved", []string{"a"}, nil, 10, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, RecallAtK(tc.relevant, tc.retrieved, tc.k), 1e-9)
		})
	}
}

func TestMRRAtK(t *testing.T) {
	cases := []struct {
		name      string
		relevant  []string
		retrieved []string
		k         int
		want      float64
	}{
		{"first position", []string{"a"}, []string{"a", "b"}, 10, 1.0},
		{"third position", []string{"c"}, []string{"a", "b", "c"}, 10, 1.0 / 3.0},
		{"outside cutoff", []string{"c"}, []string{"a", "b", "c"}, 2, 0.0},
		{"not found", []string{"z"}, []string{"a", "b"}, 10, 0.0},
		{"no relevant items", nil, []string{"a"}, 10, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, MRRAtK(tc.relevant, tc.retrieved, tc.k), 1e-9)
		})
	}
}
