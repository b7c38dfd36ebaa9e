package analyzer

import (
	"strings"
	"unicode"
)

// #region features

// features holds the statistical measurements shared by all scorers,
// computed once per turn.
type features struct {
	Lower          string
	Tokens         []string
	WordCount      int
	Exclamations   int
	Questions      int
	ExclaimDensity float32 // exclamation marks per sentence
	CapsRatio      float32 // fraction of letters that are upper-case
	Ellipses       int
	RepeatedWord   bool // any token appearing 3+ times
	SentenceCount  int
}

// extractFeatures normalizes text and computes lexical statistics.
// Control characters are stripped; case is folded for matching.
func extractFeatures(text string) features {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)

	var letters, uppers int
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}

	lower := strings.ToLower(strings.TrimSpace(cleaned))
	tokens := tokenize(lower)

	sentences := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentenceCount := len(sentences)
	if sentenceCount == 0 {
		sentenceCount = 1
	}

	exclaims := strings.Count(cleaned, "!")

	f := features{
		Lower:          lower,
		Tokens:         tokens,
		WordCount:      len(tokens),
		Exclamations:   exclaims,
		Questions:      strings.Count(cleaned, "?"),
		ExclaimDensity: float32(exclaims) / float32(sentenceCount),
		Ellipses:       strings.Count(cleaned, "..."),
		SentenceCount:  sentenceCount,
	}
	if letters > 0 {
		f.CapsRatio = float32(uppers) / float32(letters)
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		if len(tok) < 3 {
			continue
		}
		counts[tok]++
		if counts[tok] >= 3 {
			f.RepeatedWord = true
		}
	}

	return f
}

// #endregion

// #region tokenize

// tokenize splits case-folded text into word tokens, trimming punctuation.
func tokenize(lower string) []string {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	return fields
}

// #endregion

// #region phrase-match

// containsPhrase matches a lexicon phrase against a turn. Multi-word
// phrases use substring containment; single words require a whole-token
// match so "now" does not fire on "know".
func containsPhrase(f features, phrase string) bool {
	if strings.ContainsRune(phrase, ' ') {
		return strings.Contains(f.Lower, phrase)
	}
	for _, tok := range f.Tokens {
		if tok == phrase {
			return true
		}
	}
	return false
}

// #endregion

// #region clamp

// clamp restricts v to [0, 1].
func clamp(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
