package guard

import (
	"fmt"
	"regexp"
	"strings"

	"gelisim-chatbot-be/internal/pkg/apperrors"
)

// Limits applied at the API layer, on top of DTO validation. An attacker can
// bypass the frontend with curl, so the gateway enforces its own ceilings
// before any token is billed.
const (
	MaxQueryChars     = 1000
	MaxQueryTokensEst = 350
	MinQueryChars     = 2
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// NormalizeQuery trims, strips control characters and collapses internal
// whitespace. The normalized form is the query's identity for caching and
// admission purposes.
func NormalizeQuery(query string) string {
	query = strings.TrimSpace(query)
	query = controlChars.ReplaceAllString(query, "")
	query = whitespace.ReplaceAllString(query, " ")
	return query
}

// EstimateTokenCount gives a fast upper-bound token estimate. Turkish text
// averages roughly one token per three characters; exact counting (tiktoken)
// adds latency for no security benefit here.
func EstimateTokenCount(text string) int {
	return len([]rune(text))/3 + 1
}

// ValidateQuerySize rejects queries over the character or estimated-token
// ceiling with a QueryTooLarge error.
func ValidateQuerySize(query string) error {
	if len([]rune(query)) > MaxQueryChars {
		return apperrors.NewQueryTooLarge(fmt.Sprintf(
			"Sorgunuz çok uzun (%d karakter). Maksimum %d karakter gönderebilirsiniz.",
			len([]rune(query)), MaxQueryChars,
		))
	}

	if EstimateTokenCount(query) > MaxQueryTokensEst {
		return apperrors.NewQueryTooLarge("Sorgunuz çok karmaşık/uzun. Lütfen daha kısa bir soru sorun.")
	}

	return nil
}
