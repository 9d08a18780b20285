package message

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	assert := assert.New(t)

	errOne := errors.New("one")
	errTwo := errors.New("two")

	log := New("asm")
	log.Info("line %d", 1)
	log.Debug("trace")
	log.Error(errOne)

	assert.Equal(3, log.Len())
	assert.Equal(1, log.ErrorCount())
	assert.True(log.HasErrors())
	assert.True(errors.Is(log.Err(), errOne))

	other := New("cpu")
	other.Error(errTwo)
	log.Combine(other)
	log.Combine(nil)

	entries := log.Entries()
	assert.Equal([]Message{
		{Level: LEVEL_INFO, Source: "asm", Text: "line 1"},
		{Level: LEVEL_DEBUG, Source: "asm", Text: "trace"},
		{Level: LEVEL_ERROR, Source: "asm", Text: "one", Err: errOne},
		{Level: LEVEL_ERROR, Source: "cpu", Text: "two", Err: errTwo},
	}, entries)
	assert.Equal("cpu: error: two", entries[3].String())

	// Entries is a copy.
	entries[0].Text = "changed"
	assert.Equal("line 1", log.Entries()[0].Text)

	assert.Equal(2, log.ErrorCount())
	assert.True(errors.Is(log.Err(), errTwo))

	errs := slices.Collect(log.Filter(LEVEL_ERROR))
	assert.Len(errs, 2)
	infos := slices.Collect(log.Filter(LEVEL_INFO, LEVEL_DEBUG))
	assert.Len(infos, 2)

	log.Clear()
	assert.Equal(0, log.Len())
	assert.False(log.HasErrors())
	assert.NoError(log.Err())
}

func TestLogAdd(t *testing.T) {
	assert := assert.New(t)

	log := New("machine")
	log.Add(Message{Level: LEVEL_INFO, Source: "cpu", Text: "halted"})

	assert.Equal("cpu", log.Entries()[0].Source)
}

func TestConcat(t *testing.T) {
	assert := assert.New(t)

	one := New("one")
	one.Info("a")
	one.Info("b")
	two := New("two")
	two.Debug("c")

	var texts []string
	for msg := range Concat(one, nil, two) {
		texts = append(texts, msg.Text)
	}
	assert.Equal([]string{"a", "b", "c"}, texts)

	// Early exit.
	for msg := range Concat(one, two) {
		assert.Equal("a", msg.Text)
		break
	}

	var empty *Log
	assert.Equal(0, empty.Len())
	assert.Nil(empty.Entries())
	assert.NoError(empty.Err())
}

func TestLevel(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("info", LEVEL_INFO.String())
	assert.Equal("debug", LEVEL_DEBUG.String())
	assert.Equal("error", LEVEL_ERROR.String())
	assert.Equal("Level(7)", Level(7).String())
}
