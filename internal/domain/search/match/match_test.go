package match

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/jokedex/internal/domain"
)

func TestNewKeyword_Empty(t *testing.T) {
	_, err := NewKeyword("")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestKeyword_Matches(t *testing.T) {
	tests := []struct {
		keyword string
		text    string
		want    bool
	}{
		{"chicken", "Why did the chicken cross the road?", true},
		{"CHICKEN", "why did the chicken cross", true},
		{"chicken", "WHY DID THE CHICKEN CROSS", true},
		{"chick", "chicken", true},
		{"chicken", "no joke here", false},
		{"chicken", "", false},
		{" ", "two words", true},
		{"ÉCOLE", "une école", true},
	}
	for _, tc := range tests {
		t.Run(tc.keyword+"/"+tc.text, func(t *testing.T) {
			k, err := NewKeyword(tc.keyword)
			if err != nil {
				t.Fatalf("NewKeyword: %v", err)
			}
			if got := k.Matches(tc.text); got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestKeyword_String(t *testing.T) {
	k, err := NewKeyword("Chicken")
	if err != nil {
		t.Fatalf("NewKeyword: %v", err)
	}
	if k.String() != "chicken" {
		t.Errorf("String() = %q", k.String())
	}
}
