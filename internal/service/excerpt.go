package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// DefaultExcerptLength is the notification excerpt length in runes.
const DefaultExcerptLength = 100

const ellipsis = "..."

// htmlTagPattern matches the tags a rich-text editor emits.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|u|s|strong|em|a|ul|ol|li|h[1-6]|blockquote|code|pre)[\s>/]`)

var blankLines = regexp.MustCompile(`\n{2,}`)

// containsHTML reports whether s appears to contain HTML markup.
func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// htmlToMarkdown converts editor HTML to Markdown. Plain text is returned
// unchanged, as is the input when conversion fails.
func htmlToMarkdown(s string) string {
	if s == "" || !containsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}

	return strings.TrimSpace(markdown)
}

// Excerpt renders review text for a notification: HTML becomes Markdown,
// paragraphs collapse to single lines, and the result is cut to limit runes
// with "..." appended when anything was dropped.
func Excerpt(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLength
	}

	s := strings.TrimSpace(htmlToMarkdown(text))
	s = blankLines.ReplaceAllString(s, "\n")

	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	cut := 0
	for i := range s {
		if cut == limit {
			return strings.TrimRightFunc(s[:i], isSpace) + ellipsis
		}
		cut++
	}
	return s
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}
