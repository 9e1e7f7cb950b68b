package joke

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/jokedex/internal/domain"
)

func TestNew(t *testing.T) {
	j := New("5tdwk4", "Why did the chicken cross the road?", "To get to the other side", -3)

	if j.ID() != "5tdwk4" {
		t.Errorf("ID() = %q", j.ID())
	}
	if j.Title() != "Why did the chicken cross the road?" {
		t.Errorf("Title() = %q", j.Title())
	}
	if j.Body() != "To get to the other side" {
		t.Errorf("Body() = %q", j.Body())
	}
	score, ok := j.Score()
	if !ok || score != -3 {
		t.Errorf("Score() = %d, %v", score, ok)
	}
	if got, err := j.RequireScore(); err != nil || got != -3 {
		t.Errorf("RequireScore() = %d, %v", got, err)
	}
}

func TestNewUnscored(t *testing.T) {
	j := NewUnscored("42", "", "")

	if j.HasScore() {
		t.Error("HasScore() = true, want false")
	}
	if j.ScorePtr() != nil {
		t.Errorf("ScorePtr() = %v, want nil", *j.ScorePtr())
	}
	_, err := j.RequireScore()
	if !errors.Is(err, domain.ErrMissingScore) {
		t.Errorf("RequireScore() error = %v, want ErrMissingScore", err)
	}
}

func TestReconstruct(t *testing.T) {
	zero := 0
	scored := Reconstruct("a", "t", "b", &zero)
	if !scored.HasScore() {
		t.Error("expected zero score to count as present")
	}
	if p := scored.ScorePtr(); p == nil || *p != 0 {
		t.Errorf("ScorePtr() = %v", p)
	}

	unscored := Reconstruct("b", "t", "b", nil)
	if unscored.HasScore() {
		t.Error("expected nil score to be absent")
	}
}

func TestScorePtr_IsCopy(t *testing.T) {
	j := New("a", "", "body", 5)
	p := j.ScorePtr()
	*p = 100

	if s, _ := j.Score(); s != 5 {
		t.Errorf("Score() = %d after mutating pointer, want 5", s)
	}
}
