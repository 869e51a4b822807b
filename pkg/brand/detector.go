package brand

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Known brands. Values must match the vector index metadata exactly.
var KnownBrands = []string{
	"pepsi",
	"pürsu",
	"doğanay",
	"kızılay",
	"pınar",
	"golf",
	"lipton",
	"fruko",
	"erikli",
	"fritolay",
	"yedigün",
}

// DefaultBrand is the catch-all filter when no confident match exists.
const DefaultBrand = "sirket_genel"

// scoreCutoff is the minimum partial similarity (0-1) to accept a match.
// Tolerates typos like "pepsii" without matching unrelated words.
const scoreCutoff = 0.84

// Detector matches query words against the known brand list using partial
// Levenshtein similarity: the brand is scored against the best same-length
// window of the word, so a trailing typo ("pepsii") does not dilute the
// score the way whole-word normalization would.
type Detector struct {
	metric *metrics.Levenshtein
}

func NewDetector() *Detector {
	return &Detector{metric: metrics.NewLevenshtein()}
}

// Detect returns the first brand a query word matches with similarity at or
// above the cutoff, or DefaultBrand. Pure and local, safe to call without
// retry.
func (d *Detector) Detect(query string) string {
	words := strings.Fields(strings.ToLower(query))

	for _, word := range words {
		for _, known := range KnownBrands {
			if d.partialSimilarity(word, known) >= scoreCutoff {
				return known
			}
		}
	}
	return DefaultBrand
}

// partialSimilarity slides a window the length of the shorter string over
// the longer one and keeps the best Levenshtein similarity.
func (d *Detector) partialSimilarity(word, known string) float64 {
	longer, shorter := []rune(word), []rune(known)
	if len(longer) < len(shorter) {
		longer, shorter = shorter, longer
	}
	if len(shorter) == 0 {
		return 0
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		if score := strutil.Similarity(window, string(shorter), d.metric); score > best {
			best = score
		}
	}
	return best
}
