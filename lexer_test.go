package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexBasicTokens(t *testing.T) {
	pool := NewPool()
	toks, err := Lex("vstack\n  text \"hi\"\n", pool)
	require.NoError(t, err)

	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, TokValue)
	assert.Contains(t, kinds, TokIndent)
	assert.Contains(t, kinds, TokNewline)
	assert.Equal(t, TokEOF, kinds[len(kinds)-1])
}

func TestLexRejectsTabIndent(t *testing.T) {
	pool := NewPool()
	_, err := Lex("vstack\n\ttext \"x\"\n", pool)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, LexTabIndent, lexErr.Kind)
}

func TestLexUnterminatedString(t *testing.T) {
	pool := NewPool()
	_, err := Lex("text \"unterminated\n", pool)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, LexUnterminatedString, lexErr.Kind)
}

func TestLexOperatorsLongestMatch(t *testing.T) {
	pool := NewPool()
	toks, err := Lex("if a == b\n", pool)
	require.NoError(t, err)
	var ops []Op
	for _, tok := range toks {
		if tok.Kind == TokOp {
			ops = append(ops, tok.Op)
		}
	}
	assert.Contains(t, ops, OpEqual)
	assert.NotContains(t, ops, OpAssign)
}
