package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-author-api/internal/domain/entity"
)

func samplesOf(texts ...string) []*entity.Sample {
	out := make([]*entity.Sample, 0, len(texts))
	for i, text := range texts {
		out = append(out, &entity.Sample{
			ID:      string(rune('a' + i)),
			OwnerID: "owner",
			RawText: text,
		})
	}
	return out
}

func TestAnalyze(t *testing.T) {
	t.Run("empty samples", func(t *testing.T) {
		stats := Analyze(nil)
		assert.Zero(t, stats.SampleCount)
		assert.Zero(t, stats.AvgLengthWords)
	})

	t.Run("average and median word lengths", func(t *testing.T) {
		stats := Analyze(samplesOf(
			"one two three",
			"one two three four five",
			"one two three four five six seven",
		))
		assert.Equal(t, 3, stats.SampleCount)
		assert.InDelta(t, 5.0, stats.AvgLengthWords, 0.001)
		assert.InDelta(t, 5.0, stats.MedianLengthWords, 0.001)
	})

	t.Run("median uses upper middle for even counts", func(t *testing.T) {
		stats := Analyze(samplesOf("w", "w w", "w w w", "w w w w"))
		assert.InDelta(t, 3.0, stats.MedianLengthWords, 0.001)
	})

	t.Run("frequent words are lowercased and stopwords dropped", func(t *testing.T) {
		stats := Analyze(samplesOf(
			"The Mountain stood tall. The mountain was silent.",
			"A mountain, again the mountain.",
		))
		require.NotEmpty(t, stats.FrequentWords)
		assert.Equal(t, "mountain", stats.FrequentWords[0].Word)
		assert.Equal(t, 4, stats.FrequentWords[0].Count)
		for _, wf := range stats.FrequentWords {
			assert.NotEqual(t, "the", wf.Word)
			assert.NotEqual(t, "a", wf.Word)
		}
	})

	t.Run("common openings keep the first twenty words", func(t *testing.T) {
		long := "alpha beta gamma delta epsilon zeta eta theta iota kappa " +
			"lambda mu nu xi omicron pi rho sigma tau upsilon phi chi psi"
		stats := Analyze(samplesOf(long))
		require.Len(t, stats.CommonOpenings, 1)
		assert.Equal(t,
			"alpha beta gamma delta epsilon zeta eta theta iota kappa "+
				"lambda mu nu xi omicron pi rho sigma tau upsilon",
			stats.CommonOpenings[0])
	})

	t.Run("repeated openings rank first", func(t *testing.T) {
		stats := Analyze(samplesOf(
			"good morning friends",
			"good morning friends",
			"hello out there",
		))
		require.NotEmpty(t, stats.CommonOpenings)
		assert.Equal(t, "good morning friends", stats.CommonOpenings[0])
	})
}

func TestStatisticalSummary(t *testing.T) {
	t.Run("empty stats yield empty summary", func(t *testing.T) {
		assert.Empty(t, StatisticalSummary(&Stats{}))
		assert.Empty(t, StatisticalSummary(nil))
	})

	t.Run("summary mentions lengths and vocabulary", func(t *testing.T) {
		stats := Analyze(samplesOf(
			"the mountain stood tall over the valley",
			"the mountain was quiet at dawn",
		))
		summary := StatisticalSummary(stats)
		assert.Contains(t, summary, "average")
		assert.Contains(t, summary, "mountain")
	})
}
