package analyzer

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestExtractor_Keywords(t *testing.T) {
	tests := []struct {
		name string
		sig  PageSignal
		want []string
	}{
		{
			name: "title outweighs body",
			sig: PageSignal{
				URL:         "https://www.example.com/post",
				Title:       "Golang Concurrency Patterns",
				Description: "Concurrency in golang explained",
				Headings:    []string{"Channels", "Goroutines"},
			},
			want: []string{"golang", "concurrency", "patterns", "explained", "channels"},
		},
		{
			name: "domain fills remaining slot",
			sig:  PageSignal{URL: "https://www.example.com", Title: "Hello"},
			want: []string{"hello", "example"},
		},
		{
			name: "empty text falls back to domain only",
			sig:  PageSignal{URL: "https://www.github.com/x", Title: "   "},
			want: []string{"github"},
		},
		{
			name: "short domain is not a tag",
			sig:  PageSignal{URL: "https://go.dev"},
			want: []string{},
		},
		{
			name: "tokens with digits are rejected",
			sig:  PageSignal{URL: "https://go.dev", Title: "Python3 tips4 rust"},
			want: []string{"rust"},
		},
		{
			name: "stop words are skipped",
			sig:  PageSignal{URL: "https://go.dev", Title: "The tutorial about kubernetes"},
			want: []string{"kubernetes"},
		},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Keywords(tt.sig)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keywords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractor_KeywordsAreAlwaysValid(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z]{4,15}$`)
	inputs := []PageSignal{
		{URL: "https://news.ycombinator.com", Title: "Show HN: A tiny database written in Rust in 500 lines"},
		{URL: "https://www.wikipedia.org", Title: "Photosynthesis", Description: strings.Repeat("chlorophyll light energy glucose ", 20)},
		{URL: "https://a.b", Title: "supercalifragilisticexpialidocious antidisestablishment ok"},
		{URL: "::", Title: "ÜBER straße café naïve résumé"},
		{URL: "https://example.org", Headings: []string{"one", "two", "three", "four", "five", "six", "seven", "eight"}},
	}

	e := NewExtractor()
	for _, sig := range inputs {
		got := e.Keywords(sig)
		if len(got) > MaxKeywords {
			t.Errorf("Keywords(%q) returned %d tags", sig.Title, len(got))
		}
		for _, tag := range got {
			if !valid.MatchString(tag) {
				t.Errorf("tag %q does not match the tag pattern", tag)
			}
			if DefaultStopWords.Contains(tag) {
				t.Errorf("tag %q is a stop word", tag)
			}
		}
	}
}

func TestCandidates_WeightsAndOrder(t *testing.T) {
	c := ExtractCandidates(PageSignal{
		Title:       "docker compose",
		Description: "compose files",
		Headings:    []string{"docker networking", "volumes"},
	}, DefaultStopWords)

	assert.Equal(t, c.Weight("docker"), 4)
	assert.Equal(t, c.Weight("compose"), 4)
	assert.Equal(t, c.Weight("files"), 1)
	assert.Equal(t, c.Len(), 5)

	ranked := c.Ranked()
	var words []string
	for _, r := range ranked {
		words = append(words, r.Word)
	}
	assert.DeepEqual(t, words, []string{"docker", "compose", "files", "networking", "volumes"})
}

func TestSelectKeywords_OnlyTopFifteen(t *testing.T) {
	var c Candidates
	for _, w := range []string{
		"alpha", "bravo", "charlie", "delta", "echoes", "foxtrot", "golfer",
		"hotel", "india", "juliet", "kilos", "limas", "mikes", "novembers", "oscar",
	} {
		c.add(w, 2)
	}
	c.add("zulu", 1)

	got := SelectKeywords(c, "", 20)
	assert.Check(t, is.Len(got, 15))
	assert.Check(t, !contains(got, "zulu"), "candidates past the pool size must be ignored")
}

func TestSelectKeywords_DomainNotDuplicated(t *testing.T) {
	var c Candidates
	c.add("github", 3)

	got := SelectKeywords(c, "github", MaxKeywords)
	assert.DeepEqual(t, got, []string{"github"})
}

func TestDomainToken(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.github.com/x", "github"},
		{"http://localhost:8080/", "localhost"},
		{"https://docs.python.org/3/", "python"},
		{"https://WWW.Example.COM", "example"},
		{"not a url", ""},
		{"://bad", ""},
	}

	for _, tt := range tests {
		if got := DomainToken(tt.url); got != tt.want {
			t.Errorf("DomainToken(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestScoreAIContent_StockPhrases(t *testing.T) {
	text := "As an AI, I cannot browse the internet. Furthermore, it is important to note that therefore, additionally, moreover."
	got := ScoreAIContent(text)
	if got.PatternScore < 3 {
		t.Errorf("PatternScore = %d, want >= 3", got.PatternScore)
	}
	if got.Reason != ReasonPattern {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonPattern)
	}
}

func TestScoreAIContent_UniformSentences(t *testing.T) {
	text := strings.Repeat("Furthermore the system handles every request in order. ", 10)
	got := ScoreAIContent(text)

	assert.Equal(t, got.BurstinessScore, 3)
	assert.Equal(t, got.PatternScore, 2)
	assert.Equal(t, got.Total, 5)
	assert.Equal(t, got.Probability, ProbabilityMedium)
	assert.Equal(t, got.Reason, ReasonBurstiness)
}

func TestScoreAIContent_High(t *testing.T) {
	text := "As an AI I summarise the topic here. " +
		"In conclusion the answer is always quite simple. " +
		"Let me explain the idea in small steps. " +
		"I cannot access the page you shared today. " +
		strings.Repeat("Furthermore the system handles every request in order. ", 6)

	got := ScoreAIContent(text)
	assert.Equal(t, got.PatternScore, 5)
	assert.Equal(t, got.BurstinessScore, 3)
	assert.Equal(t, got.Probability, ProbabilityHigh)
	assert.Equal(t, got.Summary(), "Contains common AI linguistic patterns")
}

func TestScoreAIContent_Listicle(t *testing.T) {
	text := "Intro\n\n1. First\n2. Second\n3. Third\n\nOutro"
	got := ScoreAIContent(text)

	assert.Equal(t, got.ListStructureScore, 3)
	assert.Equal(t, got.BurstinessScore, 0)
	assert.Equal(t, got.Probability, ProbabilityLow)
	assert.Equal(t, got.Reason, ReasonListicle)
	assert.Equal(t, got.Summary(), "No strong indicators of AI generation")
}

func TestListicleScore_IgnoresBlankBlocks(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Intro\n\n1. A\n\nOutro", 2},
		{"\n\nIntro\n\n1. A\n\nOutro\n\n", 2},
		{"Intro\n\n1. A\n\n   \n\nOutro", 2},
		{"No list here", 0},
	}

	for _, tt := range tests {
		if got := listicleScore(tt.text); got != tt.want {
			t.Errorf("listicleScore(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestScoreAIContent_NoContent(t *testing.T) {
	for _, text := range []string{"", "   \n\t"} {
		got := ScoreAIContent(text)
		want := AIScore{Probability: ProbabilityLow, Reason: ReasonNoContent}
		if got != want {
			t.Errorf("ScoreAIContent(%q) = %+v, want %+v", text, got, want)
		}
	}
}

func TestScoreAIContent_Deterministic(t *testing.T) {
	text := "Short one. A much longer sentence that rambles on and on without end. Hi. " +
		"Moreover, this is fine. Let me think about it for a moment or two before I answer."
	first := ScoreAIContent(text)
	for range 5 {
		if got := ScoreAIContent(text); got != first {
			t.Fatalf("ScoreAIContent not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestScoreAIContent_TieGoesToPattern(t *testing.T) {
	got := ScoreAIContent("plain words without any markers")
	assert.Equal(t, got.Total, 0)
	assert.Equal(t, got.Reason, ReasonPattern)
}

func TestVideoHeuristics(t *testing.T) {
	assert.Check(t, IsAdultURL("https://www.PornHub.com/view"))
	assert.Check(t, !IsAdultURL("https://example.com/hub"))
	assert.Check(t, IsVideoHost("https://www.youtube.com/watch?v=1"))
	assert.Check(t, !IsVideoHost("https://example.com/youtube"))
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want AnalysisResult
	}{
		{"https://www.youtube.com/watch?v=x", AnalysisResult{Keywords: []string{"youtube"}, HasVideo: true}},
		{"https://go.dev/doc", AnalysisResult{Keywords: []string{}, HasVideo: false}},
		{"https://blog.example.com", AnalysisResult{Keywords: []string{"example"}, HasVideo: false}},
		{"https://my-site.com", AnalysisResult{Keywords: []string{}, HasVideo: false}},
		{"https://shop24.de", AnalysisResult{Keywords: []string{}, HasVideo: false}},
		{"https://averyveryverylongdomainname.com", AnalysisResult{Keywords: []string{}, HasVideo: false}},
		{"https://www.about.com", AnalysisResult{Keywords: []string{}, HasVideo: false}},
		{"not a url", AnalysisResult{Keywords: []string{}, HasVideo: false}},
	}

	for _, tt := range tests {
		got := FromURL(tt.url)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FromURL(%q) = %+v, want %+v", tt.url, got, tt.want)
		}
	}
}
