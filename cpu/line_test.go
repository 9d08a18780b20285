package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text   string
		expect line
	}){
		{"", line{}},
		{"   / only a comment, with a comma", line{}},
		{"HLT", line{Mnemonic: "HLT"}},
		{"\tlda ptr i\t/ indirect", line{Mnemonic: "lda", Operand: "ptr", Marker: "i"}},
		{"LOOP, ISZ CNT", line{Label: "LOOP", HasLabel: true, Mnemonic: "ISZ", Operand: "CNT"}},
		{"LOOP,ISZ CNT", line{Label: "LOOP", HasLabel: true, Mnemonic: "ISZ", Operand: "CNT"}},
		{"X_1,", line{Label: "X_1", HasLabel: true}},
		{"HEX $(A / 2, 1) / trailing", line{Mnemonic: "HEX", Operand: "$(A / 2, 1)"}},
		{"LDA $((A + 1) * 2) I", line{Mnemonic: "LDA", Operand: "$((A + 1) * 2)", Marker: "I"}},
	}

	for _, entry := range table {
		ln, err := parseLine(entry.text)
		assert.NoError(err, entry.text)
		entry.expect.Text = entry.text
		assert.Equal(entry.expect, ln, entry.text)
	}
}

func TestParseLineErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text   string
		target error
	}){
		{"END,", ErrLabelReserved},
		{", HLT", ErrLabelInvalid},
		{"A B, HLT", ErrLabelInvalid},
		{"LDA X Y", ErrIndirectInvalid},
		{"LDA X I I", ErrTokensExtra},
		{"HEX $(1", ErrExpressionClosed},
	}

	for _, entry := range table {
		_, err := parseLine(entry.text)
		assert.ErrorIs(err, ErrSyntax, entry.text)
		assert.ErrorIs(err, entry.target, entry.text)
	}
}

func TestExpression(t *testing.T) {
	assert := assert.New(t)

	expr, ok := expression("$(A + 1)")
	assert.True(ok)
	assert.Equal("A + 1", expr)

	_, ok = expression("A")
	assert.False(ok)
	_, ok = expression("$A")
	assert.False(ok)
}
