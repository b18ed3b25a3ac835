package helpers

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestRemoveCommentsStripsBlockAndInlineComments(t *testing.T) {
	out, err := RemoveComments("/* a comment */aProp // trailing\nbProp")
	assert.NilError(t, err)
	assert.Equal(t, out, "aProp bProp")
}

func TestRemoveCommentsRejectsUnterminatedBlockComment(t *testing.T) {
	_, err := RemoveComments("aProp /* never closed")
	assert.ErrorContains(t, err, "unterminated comment")
}
