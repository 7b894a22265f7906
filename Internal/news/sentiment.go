package news

import "strings"

// Analyzer scores headline text with a weighted lexicon. Polarity lands
// in [-1, 1]: negative values bearish, positive bullish, 0 neutral.
type Analyzer struct {
	positiveWords map[string]float64
	negativeWords map[string]float64
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positiveWords: map[string]float64{
			// Strong positive (0.8-1.0)
			"surge": 1.0, "soar": 1.0, "skyrocket": 1.0, "breakthrough": 0.95,
			"bullish": 0.9, "rally": 0.9, "breakout": 0.85, "outperform": 0.85,

			// Moderate positive (0.5-0.79)
			"beat": 0.75, "exceed": 0.75, "upgrade": 0.75, "jump": 0.7,
			"profit": 0.65, "growth": 0.65, "gain": 0.65, "strong": 0.6,
			"boost": 0.6, "climb": 0.55, "momentum": 0.55, "rebound": 0.5,
			"recover": 0.5, "upside": 0.5,

			// Mild positive (0.2-0.49)
			"rise": 0.4, "higher": 0.4, "positive": 0.35, "solid": 0.35,
			"promising": 0.3, "steady": 0.25, "stable": 0.2, "opportunity": 0.3,
		},
		negativeWords: map[string]float64{
			// Strong negative (0.8-1.0)
			"crash": 1.0, "plunge": 1.0, "collapse": 1.0, "plummet": 0.95,
			"bankruptcy": 0.95, "crisis": 0.9, "tumble": 0.85, "panic": 0.85,

			// Moderate negative (0.5-0.79)
			"bearish": 0.75, "downgrade": 0.75, "lawsuit": 0.7, "warning": 0.7,
			"miss": 0.65, "loss": 0.65, "slump": 0.65, "decline": 0.6,
			"underperform": 0.6, "weak": 0.55, "drop": 0.55, "fall": 0.5,

			// Mild negative (0.2-0.49)
			"concern": 0.4, "risk": 0.35, "volatile": 0.35, "uncertainty": 0.35,
			"pressure": 0.3, "lower": 0.3, "slowdown": 0.3, "dip": 0.25,
			"pullback": 0.2, "headwind": 0.25, "caution": 0.2,
		},
	}
}

// Polarity scores one piece of text. Matched word weights are averaged,
// negatives subtracting, and the result stays inside [-1, 1]. Text with
// no lexicon hits is neutral.
func (a *Analyzer) Polarity(text string) float64 {
	words := strings.Fields(strings.ToLower(text))

	var score float64
	var matches int

	for _, word := range words {
		word = strings.Trim(word, ".,!?\"'()[]{}:;")

		if val, ok := a.positiveWords[word]; ok {
			score += val
			matches++
		} else if val, ok := a.negativeWords[word]; ok {
			score -= val
			matches++
		}
	}

	if matches == 0 {
		return 0
	}

	polarity := score / float64(matches)
	if polarity > 1 {
		polarity = 1
	}
	if polarity < -1 {
		polarity = -1
	}
	return polarity
}
