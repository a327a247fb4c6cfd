package span

import "testing"

import "github.com/stretchr/testify/assert"

func TestContains(t *testing.T) {
	s := New(5, 10, 5, 20)
	assert.True(t, s.Contains(5, 10))
	assert.True(t, s.Contains(5, 15))
	assert.True(t, s.Contains(5, 20))
	assert.False(t, s.Contains(5, 9))
	assert.False(t, s.Contains(5, 21))
	assert.False(t, s.Contains(4, 15))
	assert.False(t, s.Contains(6, 15))
}

func TestContainsMultiline(t *testing.T) {
	s := New(5, 10, 8, 20)
	assert.True(t, s.Contains(5, 10))
	assert.True(t, s.Contains(6, 0))
	assert.True(t, s.Contains(7, 50))
	assert.True(t, s.Contains(8, 20))
	assert.False(t, s.Contains(5, 9))
	assert.False(t, s.Contains(8, 21))
}

func TestContainsLine(t *testing.T) {
	s := New(5, 0, 8, 0)
	assert.True(t, s.ContainsLine(5))
	assert.True(t, s.ContainsLine(6))
	assert.True(t, s.ContainsLine(8))
	assert.False(t, s.ContainsLine(4))
	assert.False(t, s.ContainsLine(9))
}

func TestSizeOrdering(t *testing.T) {
	small := New(1, 0, 1, 5)
	big := New(1, 0, 3, 5)
	assert.True(t, Less(small, big))
	assert.False(t, Less(big, small))
}
