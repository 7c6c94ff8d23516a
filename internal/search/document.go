// Package search provides the user directory index used for friend discovery.
// Display names are folded (lowercased, diacritics stripped) at index and
// query time so "Zoë" and "zoe" find each other.
package search

import (
	"strings"
	"unicode"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UserDocument is the indexed form of a user.
type UserDocument struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Folded      string `json:"folded"`
	UpdatedAt   int64  `json:"updated_at"` // Unix millis
}

// NewUserDocument builds the index document for u.
func NewUserDocument(u *domain.User) *UserDocument {
	return &UserDocument{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Folded:      strings.Join(Terms(u.DisplayName), " "),
		UpdatedAt:   u.LastSeenAt.UnixMilli(),
	}
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *UserDocument) ToMap() map[string]any {
	return map[string]any{
		"id":           d.ID,
		"display_name": d.DisplayName,
		"folded":       d.Folded,
		"updated_at":   d.UpdatedAt,
	}
}

// Fold lowercases s and strips combining marks after NFKD decomposition.
func Fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Terms folds s and splits it into letter/digit runs.
// "O'Brien-Zoë 2" -> ["o", "brien", "zoe", "2"].
func Terms(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
