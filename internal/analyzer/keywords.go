package analyzer

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

const (
	// MaxKeywords caps the number of extracted keywords per page.
	MaxKeywords = 5

	candidatePool = 15
	titleWeight   = 3
	bodyWeight    = 1
)

var (
	tokenRegex    = regexp.MustCompile(`\b[a-z]{4,15}\b`)
	validTagRegex = regexp.MustCompile(`^[a-z]{4,15}$`)
)

// PageSignal is the text extracted from one page load.
type PageSignal struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Headings    []string `json:"headings"`
	VisibleText string   `json:"visibleText"`
}

// AnalysisResult is the tagging signal produced for one page.
type AnalysisResult struct {
	Keywords []string `json:"keywords"`
	HasVideo bool     `json:"hasVideo"`
}

// Candidate is a keyword with its accumulated weight.
type Candidate struct {
	Word   string `json:"word"`
	Weight int    `json:"weight"`
}

// Candidates accumulates weighted word counts in first-seen order.
type Candidates struct {
	order   []string
	weights map[string]int
}

func (c *Candidates) add(word string, weight int) {
	if c.weights == nil {
		c.weights = make(map[string]int)
	}
	if _, seen := c.weights[word]; !seen {
		c.order = append(c.order, word)
	}
	c.weights[word] += weight
}

// Len returns the number of distinct words.
func (c Candidates) Len() int {
	return len(c.order)
}

// Weight returns the accumulated weight of word.
func (c Candidates) Weight(word string) int {
	return c.weights[word]
}

// Ranked returns candidates by weight descending; ties keep first-seen order.
func (c Candidates) Ranked() []Candidate {
	ranked := make([]Candidate, len(c.order))
	for i, w := range c.order {
		ranked[i] = Candidate{Word: w, Weight: c.weights[w]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	return ranked
}

// Extractor turns page text into tag keywords.
type Extractor struct {
	StopWords StopWords
	Cap       int
}

// NewExtractor returns an Extractor with the default stop words and cap.
func NewExtractor() *Extractor {
	return &Extractor{StopWords: DefaultStopWords, Cap: MaxKeywords}
}

// Candidates collects weighted words from the title (x3) and the
// description plus headings (x1).
func (e *Extractor) Candidates(sig PageSignal) Candidates {
	var c Candidates
	e.accumulate(&c, sig.Title, titleWeight)
	body := sig.Description + " " + strings.Join(sig.Headings, " ")
	e.accumulate(&c, body, bodyWeight)
	return c
}

func (e *Extractor) accumulate(c *Candidates, text string, weight int) {
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, word := range tokenRegex.FindAllString(strings.ToLower(text), -1) {
		if e.StopWords.Contains(word) {
			continue
		}
		c.add(word, weight)
	}
}

// IsValidTag reports whether word may be used as a tag.
func (e *Extractor) IsValidTag(word string) bool {
	return validTagRegex.MatchString(word) && !e.StopWords.Contains(word)
}

// Select ranks candidates and keeps up to Cap valid tags, topping up with
// the domain token when there is room.
func (e *Extractor) Select(c Candidates, domain string) []string {
	limit := e.Cap
	if limit <= 0 {
		limit = MaxKeywords
	}

	ranked := c.Ranked()
	if len(ranked) > candidatePool {
		ranked = ranked[:candidatePool]
	}

	keywords := []string{}
	for _, cand := range ranked {
		if len(keywords) >= limit {
			break
		}
		if e.IsValidTag(cand.Word) {
			keywords = append(keywords, cand.Word)
		}
	}

	if len(keywords) < limit && e.IsValidTag(domain) && !contains(keywords, domain) {
		keywords = append(keywords, domain)
	}
	return keywords
}

// Keywords runs candidate extraction and selection for one page.
func (e *Extractor) Keywords(sig PageSignal) []string {
	return e.Select(e.Candidates(sig), DomainToken(sig.URL))
}

// DomainToken returns the second-to-last dot segment of the URL's host,
// e.g. "github" for https://www.github.com/x. Returns "" when the URL has
// no host.
func DomainToken(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return ""
	}

	parts := strings.Split(host, ".")
	if len(parts) > 1 {
		return parts[len(parts)-2]
	}
	return parts[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ExtractCandidates is Candidates with an explicit stop-word set.
func ExtractCandidates(sig PageSignal, stop StopWords) Candidates {
	e := &Extractor{StopWords: stop}
	return e.Candidates(sig)
}

// SelectKeywords is Select with the default stop words and the given cap.
func SelectKeywords(c Candidates, domain string, cap int) []string {
	e := &Extractor{StopWords: DefaultStopWords, Cap: cap}
	return e.Select(c, domain)
}
