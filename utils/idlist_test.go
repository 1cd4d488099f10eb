package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIDList(t *testing.T) {
	assert.Equal(t, []string{"3", "1", "2"}, SplitIDList("3,1,2"))
	assert.Equal(t, []string{"3", "1"}, SplitIDList("3,1,3,1"), "duplicates removed, order kept")
	assert.Equal(t, []string{"7"}, SplitIDList(" 7 , ,7"))
	assert.Empty(t, SplitIDList(""))
	assert.Empty(t, SplitIDList("  "))
}

func TestCountIDList(t *testing.T) {
	assert.Equal(t, 0, CountIDList(""))
	assert.Equal(t, 3, CountIDList("1,2,3"))
	assert.Equal(t, 2, CountIDList("5,5,9"))
}

func TestJoinIDList(t *testing.T) {
	assert.Equal(t, "1,2,3", JoinIDList([]string{"1", "2", "3"}))
	assert.Equal(t, "", JoinIDList(nil))
}
