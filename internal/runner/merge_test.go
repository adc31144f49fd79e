package runner

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

func TestMerge_FirstSnapshotAppendsAll(t *testing.T) {
	m := NewMerger(DefaultOverlapMax)

	assert.Equal(t, outcomes(1, 2, 3), m.Merge(outcomes(1, 2, 3)))
	assert.Equal(t, outcomes(1, 2, 3), m.reference())
}

func TestMerge_SameSnapshotTwiceAddsNothing(t *testing.T) {
	m := NewMerger(DefaultOverlapMax)
	m.Merge(outcomes(5, 0, 12, 7))

	assert.Empty(t, m.Merge(outcomes(5, 0, 12, 7)))
	assert.Equal(t, outcomes(5, 0, 12, 7), m.reference())
}

func TestMerge_PureReversalAddsNothing(t *testing.T) {
	m := NewMerger(DefaultOverlapMax)
	m.Merge(outcomes(1, 2, 3))

	assert.Empty(t, m.Merge(outcomes(3, 2, 1)))
	assert.Equal(t, outcomes(1, 2, 3), m.reference())
}

func TestMerge_GrowingRepeatsAppendOnlyTail(t *testing.T) {
	m := NewMerger(DefaultOverlapMax)
	m.Merge(outcomes(3, 3, 3))

	assert.Equal(t, outcomes(3), m.Merge(outcomes(3, 3, 3, 3)))
}

func TestMerge_SlidingWindow(t *testing.T) {
	m := NewMerger(DefaultOverlapMax)
	m.Merge(outcomes(1, 2, 3, 4, 5))

	assert.Equal(t, outcomes(6, 7), m.Merge(outcomes(3, 4, 5, 6, 7)))
	assert.Equal(t, outcomes(3, 4, 5, 6, 7), m.reference())
}

func TestMerge_NewestFirstWindow(t *testing.T) {
	m := NewMerger(DefaultOverlapMax)
	m.Merge(outcomes(1, 2, 3, 4, 5))

	assert.Equal(t, outcomes(6, 7), m.Merge(outcomes(7, 6, 5, 4, 3)))
	assert.Equal(t, outcomes(3, 4, 5, 6, 7), m.reference())
}

func TestMerge_TiePrefersGivenOrder(t *testing.T) {
	m := NewMerger(DefaultOverlapMax)
	m.Merge(outcomes(1, 2, 3))

	// [3] совпадает в обеих ориентациях
	assert.Equal(t, outcomes(9, 8, 3), m.Merge(outcomes(3, 9, 8, 3)))
}

func TestMerge_NoOverlapAppendsWholeSnapshot(t *testing.T) {
	m := NewMerger(DefaultOverlapMax)
	m.Merge(outcomes(1, 2, 3))

	assert.Equal(t, outcomes(9, 10), m.Merge(outcomes(9, 10)))
}

func TestMerge_EmptyKeepsReference(t *testing.T) {
	m := NewMerger(DefaultOverlapMax)
	m.Merge(outcomes(4, 4))

	assert.Nil(t, m.Merge(nil))
	assert.Equal(t, outcomes(4, 4), m.reference())
}

func TestMerge_Seed(t *testing.T) {
	m := NewMerger(3)
	m.Seed(outcomes(1, 2, 3, 4, 5))

	require.Equal(t, outcomes(3, 4, 5), m.reference())
	assert.Equal(t, outcomes(6), m.Merge(outcomes(4, 5, 6)))
}

func toOutcomes(raw []uint8) []models.Outcome {
	out := make([]models.Outcome, len(raw))
	for i, v := range raw {
		out[i] = models.Outcome(v % 15)
	}
	return out
}

func TestMerge_GrowingSnapshotsProperty(t *testing.T) {
	prop := func(raw []uint8, cut uint8) bool {
		seq := toOutcomes(raw)
		if len(seq) == 0 {
			return true
		}
		i := int(cut)%len(seq) + 1
		m := NewMerger(DefaultOverlapMax)
		first := m.Merge(seq[:i])
		rest := m.Merge(seq)
		again := m.Merge(seq)

		got := append(first, rest...)
		return equal(got, seq) && len(again) == 0
	}
	require.NoError(t, quick.Check(prop, nil))
}

func TestMerge_OutputIsSuffixOfChosenOrientation(t *testing.T) {
	prop := func(a, b []uint8) bool {
		prev, next := toOutcomes(a), toOutcomes(b)
		m := NewMerger(DefaultOverlapMax)
		m.Merge(prev)
		added := m.Merge(next)
		ref := m.reference()
		if len(next) == 0 {
			return len(added) == 0
		}
		if len(added) > len(ref) {
			return false
		}
		return equal(ref[len(ref)-len(added):], added) &&
			(equal(ref, next) || equal(ref, reversed(next)))
	}
	require.NoError(t, quick.Check(prop, nil))
}
