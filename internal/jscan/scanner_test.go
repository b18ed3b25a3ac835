package jscan

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestSkipCommentsAndWhitespaceSkipsBothKinds(t *testing.T) {
	s := New([]byte("  /* block */ // line\n  next"))
	c := s.SkipCommentsAndWhitespace()
	assert.Equal(t, c, byte('n'))
	assert.Equal(t, s.Source[s.Pos], byte('n'))
}

func TestSkipCommentsAndWhitespaceReturnsZeroAtEnd(t *testing.T) {
	s := New([]byte("   /* only comment */  "))
	assert.Equal(t, s.SkipCommentsAndWhitespace(), byte(0))
	assert.Assert(t, s.Done())
}

func TestHasKeywordAtMatchesStandaloneKeyword(t *testing.T) {
	s := New([]byte("if (x) {}"))
	assert.Assert(t, s.HasKeywordAt("if"))
}

func TestHasKeywordAtRejectsIdentifierPrefix(t *testing.T) {
	s := New([]byte("ifValid(x)"))
	assert.Assert(t, !s.HasKeywordAt("if"))
}

func TestHasKeywordAtRejectsMidIdentifierPosition(t *testing.T) {
	s := New([]byte("notif"))
	s.Pos = 3
	assert.Assert(t, !s.HasKeywordAt("if"))
}

func TestIsKeywordStartAtBeginningOfInput(t *testing.T) {
	s := New([]byte("return"))
	assert.Assert(t, s.IsKeywordStart())
}
