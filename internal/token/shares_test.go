package token

import (
	"net/url"
	"testing"
)

func TestDecodeShareMatrix(t *testing.T) {
	tests := []struct {
		name             string
		form             url.Values
		itemCount        int
		participantCount int
		want             [][]float64
	}{
		{
			name: "full matrix",
			form: url.Values{
				"share_0_0": {"1"},
				"share_0_1": {"0"},
				"share_1_0": {"0.5"},
				"share_1_1": {"0.5"},
			},
			itemCount:        2,
			participantCount: 2,
			want:             [][]float64{{1, 0}, {0.5, 0.5}},
		},
		{
			name:             "missing cells default to zero",
			form:             url.Values{"share_1_1": {"0.25"}},
			itemCount:        2,
			participantCount: 2,
			want:             [][]float64{{0, 0}, {0, 0.25}},
		},
		{
			name: "out-of-range keys ignored",
			form: url.Values{
				"share_0_0":  {"1"},
				"share_5_0":  {"1"},
				"share_0_9":  {"1"},
				"share_-1_0": {"1"},
				"share_0_-1": {"1"},
			},
			itemCount:        1,
			participantCount: 1,
			want:             [][]float64{{1}},
		},
		{
			name: "unparseable and negative values become zero",
			form: url.Values{
				"share_0_0": {"half"},
				"share_0_1": {"-0.5"},
				"share_1_0": {""},
				"share_1_1": {"NaN"},
			},
			itemCount:        2,
			participantCount: 2,
			want:             [][]float64{{0, 0}, {0, 0}},
		},
		{
			name: "unrelated and malformed keys ignored",
			form: url.Values{
				"even_split":  {"on"},
				"state":       {"token"},
				"share_0":     {"1"},
				"share_a_b":   {"1"},
				"share_0_1_2": {"1"},
				"share_0_0":   {" 0.75 "},
			},
			itemCount:        1,
			participantCount: 1,
			want:             [][]float64{{0.75}},
		},
		{
			name:             "zero-by-zero matrix",
			form:             url.Values{"share_0_0": {"1"}},
			itemCount:        0,
			participantCount: 0,
			want:             [][]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeShareMatrix(tt.form, tt.itemCount, tt.participantCount)
			if len(got) != len(tt.want) {
				t.Fatalf("len(matrix) = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if len(got[i]) != len(tt.want[i]) {
					t.Fatalf("len(matrix[%d]) = %d, want %d", i, len(got[i]), len(tt.want[i]))
				}
				for j := range tt.want[i] {
					if got[i][j] != tt.want[i][j] {
						t.Errorf("matrix[%d][%d] = %v, want %v", i, j, got[i][j], tt.want[i][j])
					}
				}
			}
		})
	}
}
