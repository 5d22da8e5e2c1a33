package main

import (
	"testing"

	"github.com/paulmach/orb"
)

func Test_parseBounds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  orb.Bound
	}{
		{
			"izu oshima",
			"34.672182,139.331932,34.808917,139.472122",
			orb.Bound{
				Min: orb.Point{139.331932, 34.672182},
				Max: orb.Point{139.472122, 34.808917},
			},
		},
		{
			"with spaces",
			" 44.6848, -93.5778, 45.202, -92.7482 ",
			orb.Bound{
				Min: orb.Point{-93.5778, 44.6848},
				Max: orb.Point{-92.7482, 45.202},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBounds(tt.input)
			if got != tt.want {
				t.Fatalf("parseBounds(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
