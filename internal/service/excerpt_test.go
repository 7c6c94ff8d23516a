package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestContainsHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "empty string", input: "", expected: false},
		{name: "plain text", input: "Loved every page of it.", expected: false},
		{name: "angle brackets but not HTML", input: "5 stars > 4 stars <3", expected: false},
		{name: "paragraph tags", input: "<p>Great read.</p>", expected: true},
		{name: "self-closing break", input: "Line one<br/>Line two", expected: true},
		{name: "underline from the editor", input: "<u>must read</u>", expected: true},
		{name: "uppercase tags", input: "<P>Uppercase paragraph</P>", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, containsHTML(tt.input))
		})
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "plain text unchanged", input: "This is plain text.", expected: "This is plain text."},
		{
			name:     "paragraphs to newlines",
			input:    "<p>First paragraph.</p><p>Second paragraph.</p>",
			expected: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:     "bold to markdown",
			input:    "This is <b>bold</b> and <strong>strong</strong> text.",
			expected: "This is **bold** and **strong** text.",
		},
		{
			name:     "italic to markdown",
			input:    "This is <i>italic</i> and <em>emphasized</em> text.",
			expected: "This is *italic* and *emphasized* text.",
		},
		{
			name:     "unordered list",
			input:    "<ul><li>Plot</li><li>Pacing</li></ul>",
			expected: "- Plot\n- Pacing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, htmlToMarkdown(tt.input))
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Run("short text kept", func(t *testing.T) {
		assert.Equal(t, "Great read.", Excerpt("  Great read.  ", 100))
	})

	t.Run("exactly at the limit is not truncated", func(t *testing.T) {
		text := strings.Repeat("a", 100)
		assert.Equal(t, text, Excerpt(text, 100))
	})

	t.Run("long text truncated with ellipsis", func(t *testing.T) {
		got := Excerpt(strings.Repeat("b", 150), 100)
		assert.Equal(t, strings.Repeat("b", 100)+"...", got)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		got := Excerpt(strings.Repeat("é", 150), 100)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 103, utf8.RuneCountInString(got))
	})

	t.Run("html converted before truncating", func(t *testing.T) {
		got := Excerpt("<p>First paragraph.</p><p>Second paragraph.</p>", 100)
		assert.Equal(t, "First paragraph.\nSecond paragraph.", got)
	})

	t.Run("trailing space before the cut is dropped", func(t *testing.T) {
		assert.Equal(t, "one two...", Excerpt("one two three", 8))
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		got := Excerpt(strings.Repeat("c", 150), 0)
		assert.Equal(t, DefaultExcerptLength+len(ellipsis), utf8.RuneCountInString(got))
	})
}
