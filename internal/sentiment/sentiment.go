// Package sentiment scores the emotional polarity of a response text.
//
// The scorer is a small valence lexicon with negation and intensity
// handling, producing a compound score in [-1, 1]: the sum of matched word
// valences normalized by sqrt(sum² + 15). The score only has to bias an eye
// motor a fraction either side of center, so a compact lexicon is plenty.
package sentiment

import (
	"math"
	"regexp"
	"strings"
)

// normalizationAlpha flattens the valence sum into [-1, 1].
const normalizationAlpha = 15.0

// negationDamp is the factor applied to a valence when a negation word
// appears shortly before it ("not happy" reads as mildly negative, not as
// the mirror of "happy").
const negationDamp = -0.74

// negationWindow is how many preceding words a negation affects.
const negationWindow = 3

// boosterStep is the valence adjustment contributed by an intensifier.
const boosterStep = 0.293

var tokenPattern = regexp.MustCompile(`[a-z']+`)

// valences maps lexicon words to their polarity on a -4..4 scale.
var valences = map[string]float64{
	"amazing": 2.8, "awesome": 3.1, "beautiful": 2.9, "best": 3.2,
	"brilliant": 2.8, "calm": 1.3, "celebrate": 2.7, "cheerful": 2.5,
	"comfort": 1.5, "delight": 2.9, "delighted": 3.0, "eager": 1.6,
	"enjoy": 2.2, "excellent": 3.1, "excited": 2.4, "fantastic": 2.6,
	"favorite": 2.0, "fond": 1.9, "friend": 2.2, "friendly": 2.2,
	"fun": 2.3, "glad": 2.0, "good": 1.9, "grateful": 2.3, "great": 3.1,
	"happy": 2.7, "hope": 1.9, "hug": 2.1, "joy": 2.8, "kind": 2.4,
	"laugh": 2.6, "like": 1.5, "love": 3.2, "loved": 2.9, "lovely": 2.8,
	"magical": 2.2, "marvelous": 3.0, "nice": 1.8, "perfect": 2.7,
	"play": 1.3, "pleasant": 2.3, "pleased": 2.3, "proud": 2.2,
	"safe": 1.8, "smile": 2.0, "special": 1.7, "story": 0.6,
	"sunny": 1.9, "super": 2.9, "sweet": 2.0, "thank": 1.9,
	"thanks": 1.9, "warm": 1.6, "welcome": 2.0, "wonderful": 2.7,
	"yay": 2.4,

	"afraid": -2.2, "alone": -1.4, "angry": -2.3, "awful": -2.0,
	"bad": -2.5, "broken": -1.6, "cry": -2.2, "danger": -2.4,
	"dark": -0.9, "dead": -3.3, "disappointed": -2.1, "evil": -3.4,
	"fail": -2.3, "fear": -2.2, "fight": -1.6, "gloomy": -1.9,
	"hate": -2.7, "hated": -2.8, "horrible": -2.5, "hurt": -2.1,
	"lonely": -2.0, "lost": -1.3, "mad": -2.2, "mean": -1.7,
	"miserable": -2.8, "monster": -1.6, "nightmare": -2.5, "no": -1.2,
	"pain": -2.3, "sad": -2.1, "scared": -2.2, "scary": -2.2,
	"sick": -1.9, "sorry": -0.3, "terrible": -2.1, "trouble": -1.8,
	"ugly": -2.3, "unhappy": -2.2, "upset": -1.8, "worried": -1.6,
	"worst": -3.1, "wrong": -2.1,
}

// negations flip the polarity of a following lexicon word.
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nothing": {}, "nobody": {},
	"neither": {}, "cannot": {}, "can't": {}, "won't": {}, "don't": {},
	"doesn't": {}, "didn't": {}, "isn't": {}, "wasn't": {}, "aren't": {},
	"couldn't": {}, "shouldn't": {}, "wouldn't": {}, "without": {},
}

// boosters strengthen or dampen the following lexicon word.
var boosters = map[string]float64{
	"absolutely": boosterStep, "completely": boosterStep,
	"extremely": boosterStep, "incredibly": boosterStep,
	"really": boosterStep, "so": boosterStep, "totally": boosterStep,
	"very": boosterStep,
	"almost": -boosterStep, "barely": -boosterStep, "hardly": -boosterStep,
	"kind": -boosterStep, "kinda": -boosterStep, "slightly": -boosterStep,
	"somewhat": -boosterStep,
}

// Score returns the compound sentiment of a text in [-1, 1]. Empty or
// unmatched text scores exactly 0 (neutral).
func Score(text string) float64 {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return 0
	}

	sum := 0.0

	for i, token := range tokens {
		valence, ok := valences[token]
		if !ok {
			continue
		}

		// "no" is itself a lexicon word but acts as a negation when a
		// scored word follows it; skip it in that position.
		if token == "no" && i+1 < len(tokens) {
			if _, next := valences[tokens[i+1]]; next {
				continue
			}
		}

		valence = applyContext(tokens, i, valence)
		sum += valence
	}

	compound := sum / math.Sqrt(sum*sum+normalizationAlpha)

	return math.Min(math.Max(compound, -1), 1)
}

// applyContext adjusts a word's valence for negations and boosters in the
// preceding window.
func applyContext(tokens []string, index int, valence float64) float64 {
	for back := 1; back <= negationWindow && index-back >= 0; back++ {
		prev := tokens[index-back]

		if _, ok := negations[prev]; ok {
			valence *= negationDamp

			continue
		}

		if boost, ok := boosters[prev]; ok {
			if valence < 0 {
				boost = -boost
			}
			// Intensifiers further away contribute less.
			valence += boost * (1 - 0.05*float64(back-1))
		}
	}

	return valence
}
