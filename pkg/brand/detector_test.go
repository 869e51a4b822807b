package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	d := NewDetector()

	t.Run("exact brand word", func(t *testing.T) {
		assert.Equal(t, "pepsi", d.Detect("Pepsi ürünleri nelerdir?"))
		assert.Equal(t, "lipton", d.Detect("lipton çay çeşitleri"))
	})

	t.Run("typo still matches", func(t *testing.T) {
		assert.Equal(t, "pepsi", d.Detect("pepsii fiyatları"))
		assert.Equal(t, "erikli", d.Detect("eriklii su"))
	})

	t.Run("no brand falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultBrand, d.Detect("şirket iletişim bilgileri"))
		assert.Equal(t, DefaultBrand, d.Detect("çalışma saatleriniz nedir"))
	})

	t.Run("unrelated words do not match", func(t *testing.T) {
		assert.Equal(t, DefaultBrand, d.Detect("pencere camı tamiri"))
	})
}

func TestPartialSimilarity(t *testing.T) {
	d := NewDetector()

	// A trailing typo leaves a perfect window, so the score must clear the
	// cutoff instead of being diluted by the extra character.
	assert.GreaterOrEqual(t, d.partialSimilarity("pepsii", "pepsi"), scoreCutoff)
	assert.GreaterOrEqual(t, d.partialSimilarity("eriklii", "erikli"), scoreCutoff)

	// Sharing a prefix is not enough.
	assert.Less(t, d.partialSimilarity("pencere", "pepsi"), scoreCutoff)

	// Symmetric regardless of which side is longer.
	assert.Equal(t, d.partialSimilarity("pepsii", "pepsi"), d.partialSimilarity("pepsi", "pepsii"))
}
