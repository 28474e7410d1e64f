// Package syllable estimates syllable timing for spoken text.
//
// Segment boundaries are allocated proportionally across the waveform
// duration, one equal share per syllable. This is deliberately not phoneme
// alignment: cassette-toy mouth mechanics only resolve syllable-scale
// motion, and proportional allocation tracks real speech closely enough at
// that granularity.
package syllable

import (
	"regexp"
	"strings"

	"github.com/book-expert/animatronics-service/internal/core"
)

var (
	wordPattern  = regexp.MustCompile(`[a-z0-9']+`)
	vowelPattern = regexp.MustCompile(`[aeiouy]+`)
)

// CountWord estimates the number of syllables in a single word. The estimate
// counts vowel groups and corrects for the most common silent endings; it is
// never below one for a non-empty word.
func CountWord(word string) int {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return 0
	}

	groups := vowelPattern.FindAllString(word, -1)
	count := len(groups)

	// Trailing silent e: "make" is one syllable, but keep the vowel for
	// consonant-le endings like "table".
	if strings.HasSuffix(word, "e") &&
		!strings.HasSuffix(word, "le") &&
		!strings.HasSuffix(word, "ee") &&
		count > 1 {
		count--
	}

	// Past-tense -ed is usually silent after most consonants: "walked",
	// "talked". It stays voiced after t or d: "wanted", "needed".
	if strings.HasSuffix(word, "ed") && count > 1 && len(word) > 3 {
		before := word[len(word)-3]
		if before != 't' && before != 'd' {
			count--
		}
	}

	if count < 1 {
		count = 1
	}

	return count
}

// CountText estimates the total syllable count of a text.
func CountText(text string) int {
	total := 0
	for _, word := range words(text) {
		total += CountWord(word)
	}

	return total
}

// Segments splits a waveform of totalSamples into one contiguous segment per
// syllable of the text, allocated proportionally. Empty text or an empty
// waveform yields no segments.
func Segments(text string, totalSamples int) []core.SyllableSegment {
	if totalSamples <= 0 {
		return nil
	}

	count := CountText(text)
	if count == 0 {
		return nil
	}

	segments := make([]core.SyllableSegment, count)
	for i := range segments {
		segments[i] = core.SyllableSegment{
			Start: i * totalSamples / count,
			End:   (i + 1) * totalSamples / count,
		}
	}

	return segments
}

func words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}
