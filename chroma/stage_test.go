package chroma

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordStage notes the buffer alpha it saw, for ordering assertions.
type recordStage struct {
	name string
	seen []byte
	fail error
}

func (r *recordStage) Apply(buf *Buffer) error {
	if r.fail != nil {
		return r.fail
	}
	r.seen = append(r.seen, buf.Alpha(0, 0))
	buf.SetAlpha(0, 0, buf.Alpha(0, 0)+1)
	return nil
}

func (r *recordStage) Name() string { return r.name }

func TestChainAppliesStagesInOrder(t *testing.T) {
	first := &recordStage{name: "first"}
	second := &recordStage{name: "second"}

	chain := NewChain()
	chain.Add(first)
	chain.Add(second)
	require.Equal(t, 2, chain.Len())

	buf := NewBuffer(1, 1)
	require.NoError(t, chain.Apply(buf))

	assert.Equal(t, []byte{0}, first.seen)
	assert.Equal(t, []byte{1}, second.seen, "second stage sees the first stage's output")
	assert.Equal(t, byte(2), buf.Alpha(0, 0))
}

func TestChainAbortsOnStageFailure(t *testing.T) {
	boom := errors.New("boom")
	first := &recordStage{name: "first"}
	failing := &recordStage{name: "failing", fail: boom}
	third := &recordStage{name: "third"}

	chain := NewChain()
	chain.Add(first)
	chain.Add(failing)
	chain.Add(third)

	err := chain.Apply(NewBuffer(1, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.Empty(t, third.seen, "stages after the failure must not run")
}

func TestChainClear(t *testing.T) {
	chain := NewChain()
	chain.Add(&recordStage{name: "only"})
	chain.Clear()
	assert.Zero(t, chain.Len())

	require.NoError(t, chain.Apply(NewBuffer(1, 1)))
}

func TestChainNilBuffer(t *testing.T) {
	assert.ErrorIs(t, NewChain().Apply(nil), ErrDrawFailure)
}

func TestAlphaScaleStage(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		alpha  byte
		want   byte
	}{
		{name: "halves alpha", factor: 0.5, alpha: 200, want: 100},
		{name: "identity", factor: 1.0, alpha: 123, want: 123},
		{name: "zero factor clears", factor: 0, alpha: 255, want: 0},
		{name: "factor above one clamped", factor: 1.5, alpha: 100, want: 100},
		{name: "negative factor clamped", factor: -1, alpha: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer(1, 1)
			buf.Set(0, 0, 9, 8, 7, tt.alpha)

			stage := NewAlphaScaleStage(tt.factor)
			require.NoError(t, stage.Apply(buf))

			r, g, b, a := buf.At(0, 0)
			assert.Equal(t, tt.want, a)
			assert.Equal(t, byte(9), r)
			assert.Equal(t, byte(8), g)
			assert.Equal(t, byte(7), b)
		})
	}

	assert.Equal(t, "AlphaScale(0.50)", NewAlphaScaleStage(0.5).Name())
	assert.ErrorIs(t, NewAlphaScaleStage(0.5).Apply(nil), ErrDrawFailure)
}
