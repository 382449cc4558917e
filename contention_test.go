package bystander

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentionMeasure_DetectedIncrementsCount(t *testing.T) {
	var c ContentionMeasure
	assert.Equal(t, 0, c.Count())

	c.Detected()
	c.Detected()
	c.Detected()

	assert.Equal(t, 3, c.Count())
}

func TestContentionMeasure_UseSlowPath(t *testing.T) {
	tests := []struct {
		name      string
		events    int
		threshold int
		want      bool
	}{
		{name: "below threshold", events: 1, threshold: 2, want: false},
		{name: "at threshold", events: 2, threshold: 2, want: false},
		{name: "above threshold", events: 3, threshold: 2, want: true},
		{name: "zero events never escalates", events: 0, threshold: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ContentionMeasure
			for i := 0; i < tt.events; i++ {
				c.Detected()
			}
			assert.Equal(t, tt.want, c.UseSlowPath(tt.threshold))
		})
	}
}
