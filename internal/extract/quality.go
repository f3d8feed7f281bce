package extract

import (
	"strings"
	"unicode"
)

const (
	minMeaningfulChars = 100
	minMeaningfulWords = 20
	minAlphaFraction   = 0.30
)

// IsMeaningful reports whether extracted text looks like genuine document prose
// rather than scanner noise. Scanned or garbled PDFs yield near-empty text or a
// high density of non-alphabetic artifacts; all three thresholds must hold.
func IsMeaningful(text string) bool {
	cleaned := strings.TrimSpace(text)
	if len(cleaned) < minMeaningfulChars {
		return false
	}
	if len(strings.Fields(cleaned)) < minMeaningfulWords {
		return false
	}

	alpha := 0
	total := 0
	for _, r := range cleaned {
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	return float64(alpha) >= float64(total)*minAlphaFraction
}
