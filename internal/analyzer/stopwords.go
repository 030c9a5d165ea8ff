package analyzer

// StopWords is a set of words never used as tags.
type StopWords map[string]struct{}

// NewStopWords builds a StopWords set from a word list.
func NewStopWords(words ...string) StopWords {
	s := make(StopWords, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Contains reports whether word is a stop word.
func (s StopWords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// DefaultStopWords is the built-in stop-word list: common English function
// words plus web boilerplate that makes poor tags.
var DefaultStopWords = NewStopWords(
	"a", "an", "the", "and", "or", "is", "in", "on", "at", "of", "for", "to",
	"with", "by", "from", "about", "as", "this", "that", "here", "there",
	"it", "its", "he", "she", "they", "we", "you", "i", "me", "him",
	"her", "us", "them", "my", "your", "his", "our", "their", "which",
	"what", "where", "when", "how", "why", "who", "whom", "have", "has",
	"had", "do", "does", "did", "be", "am", "are", "was", "were",
	"can", "could", "will", "would", "should", "get", "go", "see", "make",
	"know", "come", "find", "take", "made", "like", "just",
	"don", "t", "aren", "couldn", "didn", "doesn", "hadn", "hasn",
	"haven", "isn", "ma", "mightn", "mustn", "needn", "shan", "shouldn",
	"wasn", "weren", "won", "wouldn", "using", "based", "guide", "tutorial",
	"view", "read", "page", "http", "https", "com", "org", "net", "www",
	"article", "blog", "post", "news", "info", "data", "file", "pdf",
	"more", "most", "other", "some", "time", "very", "much", "many",
	"such", "long", "good", "great", "new", "old", "first", "last", "own",
	"over", "think", "also", "back", "after", "use", "work", "life", "only",
	"way", "even", "may", "say", "each", "right", "might", "came", "show",
	"every", "those", "feel", "fact", "hand", "high", "year", "day",
	"part", "head", "eye", "ask", "both", "home", "turn", "move",
)
