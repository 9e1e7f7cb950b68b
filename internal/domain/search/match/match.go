// Package match implements case-insensitive substring matching of joke bodies.
package match

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/jokedex/internal/domain"
)

// Keyword matches text containing a keyword regardless of case.
// A Keyword is not safe for concurrent use; build one per query.
type Keyword struct {
	needle string
	caser  cases.Caser
}

// NewKeyword validates the keyword and prepares it for matching.
func NewKeyword(keyword string) (Keyword, error) {
	if keyword == "" {
		return Keyword{}, fmt.Errorf("%w: keyword is required", domain.ErrInvalidArgument)
	}
	caser := cases.Lower(language.Und)
	return Keyword{needle: caser.String(keyword), caser: caser}, nil
}

// Matches reports whether text contains the keyword.
func (k *Keyword) Matches(text string) bool {
	return strings.Contains(k.caser.String(text), k.needle)
}

// String returns the lower-cased keyword.
func (k *Keyword) String() string { return k.needle }
