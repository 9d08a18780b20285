package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq(t *testing.T) {
	assert := assert.New(t)

	even := IterSeqFilter(slices.Values([]int{1, 2, 3, 4}), func(v int) bool {
		return v%2 == 0
	})
	assert.Equal([]int{2, 4}, slices.Collect(even))

	all := IterSeqConcat(slices.Values([]int{1}), even, slices.Values([]int{9}))
	assert.Equal([]int{1, 2, 4, 9}, slices.Collect(all))

	var first []int
	for v := range all {
		first = append(first, v)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal([]int{1, 2}, first)
}
