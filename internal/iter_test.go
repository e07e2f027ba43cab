package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]int{"a": 1}
	second := map[string]int{"b": 2, "c": 3}

	all := map[string]int{}
	for key, value := range IterSeq2Concat(maps.All(first), maps.All(second)) {
		all[key] = value
	}
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	count := 0
	for range IterSeq2Concat(maps.All(first), maps.All(second)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	first := map[string]int{"z": 26, "a": 1}
	second := map[string]int{"m": 13, "a": 100}

	var keys []string
	var values []int
	for key, value := range IterSeq2Sorted(IterSeq2Concat(maps.All(first), maps.All(second))) {
		keys = append(keys, key)
		values = append(values, value)
	}

	// Later pairs replace earlier ones with the same key.
	assert.Equal([]string{"a", "m", "z"}, keys)
	assert.Equal([]int{100, 13, 26}, values)
}
