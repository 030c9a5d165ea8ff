package model

import (
	"regexp"
	"strings"
)

var (
	tagSuffixRegex = regexp.MustCompile(`\s*\[[^\[\]]*\]\s*$`)
	tagListRegex   = regexp.MustCompile(`\[([^\[\]]*)\]\s*$`)
)

// TitleTags parses the trailing "[tag1, tag2]" suffix of a title.
// Returns an empty slice when the title carries no suffix.
func TitleTags(title string) []string {
	m := tagListRegex.FindStringSubmatch(title)
	if m == nil {
		return []string{}
	}

	tags := []string{}
	for _, part := range strings.Split(m[1], ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// BaseTitle strips a trailing "[...]" suffix from a title.
func BaseTitle(title string) string {
	return tagSuffixRegex.ReplaceAllString(title, "")
}

// WithTags replaces any tag suffix on title with the given tags.
// An empty tag list leaves the title untouched.
func WithTags(title string, tags []string) string {
	if len(tags) == 0 {
		return title
	}

	suffix := "[" + strings.Join(tags, ", ") + "]"
	base := BaseTitle(title)
	if base == "" {
		return suffix
	}
	return base + " " + suffix
}
