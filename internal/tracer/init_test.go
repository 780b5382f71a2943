package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	shutdown := InitTracer()
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampleRatio(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{raw: "", want: 1},
		{raw: "0.25", want: 0.25},
		{raw: "-1", want: 0},
		{raw: "7", want: 1},
		{raw: "half", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("OTEL_SAMPLE_RATIO", tt.raw)
			assert.Equal(t, tt.want, sampleRatio())
		})
	}
}
