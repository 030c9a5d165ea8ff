package analyzer

import (
	"math"
	"regexp"
	"strings"
)

// Probability is the tier assigned to an AI content score.
type Probability string

const (
	ProbabilityLow    Probability = "Low"
	ProbabilityMedium Probability = "Medium"
	ProbabilityHigh   Probability = "High"
)

// Reasons name the sub-score that contributed most to a result.
const (
	ReasonPattern    = "pattern"
	ReasonBurstiness = "burstiness"
	ReasonListicle   = "listicle"
	ReasonNoContent  = "No content to analyze"
)

const (
	maxPatternScore = 5
	minSentences    = 5
)

// AIScore is the heuristic breakdown for one text.
type AIScore struct {
	PatternScore       int         `json:"patternScore"`
	BurstinessScore    int         `json:"burstinessScore"`
	ListStructureScore int         `json:"listStructureScore"`
	Total              int         `json:"total"`
	Probability        Probability `json:"probability"`
	Reason             string      `json:"reason"`
}

// Summary returns a sentence suitable for display.
func (s AIScore) Summary() string {
	switch {
	case s.Reason == ReasonNoContent:
		return ReasonNoContent
	case s.Probability == ProbabilityLow:
		return "No strong indicators of AI generation"
	case s.Reason == ReasonPattern:
		return "Contains common AI linguistic patterns"
	case s.Reason == ReasonBurstiness:
		return "Text has unusually uniform sentence structure"
	default:
		return "Content has high density of list structures"
	}
}

var aiPhrases = []string{
	"as a language model",
	"as an ai",
	"i'm an ai",
	"as an artificial intelligence",
	"in conclusion",
	"it is important to note",
	"it's important to note",
	"it's worth mentioning",
	"let me",
	"i don't have personal",
	"i don't have the ability to",
	"i cannot access",
	"i cannot browse",
}

var (
	transitionRegex = regexp.MustCompile(`(?i)\b(furthermore|moreover|additionally|consequently|therefore|thus|hence|accordingly|firstly|secondly|thirdly|finally)\b`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
	listMarkerRegex = regexp.MustCompile(`(?m)^([0-9]+\.\s|-\s|•\s)`)
	paragraphSplit  = regexp.MustCompile(`\n\s*\n`)
)

// ScoreAIContent scores text for stylistic markers of machine-generated
// prose. It never fails: text with no content scores Low.
func ScoreAIContent(text string) AIScore {
	if strings.TrimSpace(text) == "" {
		return AIScore{Probability: ProbabilityLow, Reason: ReasonNoContent}
	}

	s := AIScore{
		PatternScore:       patternScore(text),
		BurstinessScore:    burstinessScore(text),
		ListStructureScore: listicleScore(text),
	}
	s.Total = s.PatternScore + s.BurstinessScore + s.ListStructureScore

	switch {
	case s.Total > 7:
		s.Probability = ProbabilityHigh
	case s.Total > 4:
		s.Probability = ProbabilityMedium
	default:
		s.Probability = ProbabilityLow
	}

	// first max wins: pattern, then burstiness, then listicle
	s.Reason = ReasonPattern
	best := s.PatternScore
	if s.BurstinessScore > best {
		s.Reason, best = ReasonBurstiness, s.BurstinessScore
	}
	if s.ListStructureScore > best {
		s.Reason = ReasonListicle
	}
	return s
}

func patternScore(text string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, phrase := range aiPhrases {
		if strings.Contains(lower, phrase) {
			score++
		}
	}

	words := len(strings.Fields(text))
	if words > 0 {
		transitions := len(transitionRegex.FindAllStringIndex(text, -1))
		density := float64(transitions) / float64(words) * 100
		switch {
		case density > 2:
			score += 2
		case density > 1:
			score++
		}
	}

	return min(score, maxPatternScore)
}

func burstinessScore(text string) int {
	var lengths []float64
	for _, sentence := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		lengths = append(lengths, float64(len(strings.Fields(sentence))))
	}
	if len(lengths) < minSentences {
		return 0
	}

	var sum float64
	for _, l := range lengths {
		sum += l
	}
	mean := sum / float64(len(lengths))

	var sq float64
	for _, l := range lengths {
		sq += (l - mean) * (l - mean)
	}
	stdDev := math.Sqrt(sq / float64(len(lengths)))

	switch {
	case stdDev < 2:
		return 3
	case stdDev < 3:
		return 2
	case stdDev < 4:
		return 1
	default:
		return 0
	}
}

func listicleScore(text string) int {
	items := len(listMarkerRegex.FindAllStringIndex(text, -1))
	if items == 0 {
		return 0
	}

	paragraphs := 0
	for _, p := range paragraphSplit.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}
	paragraphs = max(paragraphs, 1)

	density := float64(items) / float64(paragraphs)
	switch {
	case density > 0.5:
		return 3
	case density > 0.3:
		return 2
	case density > 0.1:
		return 1
	default:
		return 0
	}
}
