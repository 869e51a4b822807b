package guard

import "regexp"

// Known prompt injection patterns (case-insensitive). Heuristic, not proof:
// false negatives are expected, false positives should be rare on legitimate
// domain queries.
var injectionPatterns = []string{
	`ignore\s+(all\s+)?(previous|above|prior)\s+(instructions?|prompts?)`,
	`disregard\s+(all\s+)?(previous|above|prior)`,
	`you\s+are\s+now\s+(?:a|an)\s+`,
	`system\s*:\s*`,
	`<\|system\|>`,
	`act\s+as\s+(?:a|an)\s+`,
	`forget\s+(everything|all|your|previous)`,
	`new\s+instructions?\s*:`,
	`override\s+(your|system|all)\s+`,
	`pretend\s+(you|that|to)\s+`,
	`jailbreak`,
	`dan\s+mode`,
}

// Compiled once at package load.
var compiledPatterns = func() []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(injectionPatterns))
	for i, p := range injectionPatterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}()

// DetectInjection reports whether the text matches any known adversarial
// pattern. The caller must short-circuit the pipeline on a match: no
// retrieval, no generation, fixed refusal message.
func DetectInjection(text string) bool {
	for _, pattern := range compiledPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// MatchedPattern returns the first matching pattern for logging, or "".
func MatchedPattern(text string) string {
	for _, pattern := range compiledPatterns {
		if pattern.MatchString(text) {
			return pattern.String()
		}
	}
	return ""
}
