package record

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceID(t *testing.T) {
	assert.Equal(t, 3.0, CoerceID("3"))
	assert.Equal(t, 3.0, CoerceID(" 3 "))
	assert.Equal(t, 0.0, CoerceID(""))
	assert.Equal(t, 1001.0, CoerceID("1001"))
	assert.True(t, math.IsNaN(CoerceID("abc")))
}

func TestID(t *testing.T) {
	id, ok := ID(Record{"id": 3})
	assert.True(t, ok)
	assert.Equal(t, 3.0, id)

	id, ok = ID(Record{"id": 4.0})
	assert.True(t, ok)
	assert.Equal(t, 4.0, id)

	_, ok = ID(Record{"name": "x"})
	assert.False(t, ok)

	_, ok = ID(nil)
	assert.False(t, ok)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Laptop", "Laptop"},
		{1299.99, "1299.99"},
		{45.0, "45"},
		{7, "7"},
		{true, "true"},
		{[]any{"a", 1}, "a,1"},
		{[]string{"x", "y"}, "x,y"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stringify(tt.in))
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(2, 10))
	assert.Equal(t, 1, Compare(10.5, 2))
	assert.Equal(t, 0, Compare(3, 3.0))
	assert.Equal(t, -1, Compare("Accessories", "Electronics"))
	assert.Equal(t, -1, Compare(nil, 1))
	assert.Equal(t, 1, Compare("a", nil))
	assert.Equal(t, -1, Compare(false, true))
	assert.Equal(t, 1, Compare("10", "1"))
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Record{"id": 1, "name": "a"}
	cp := Clone(orig)
	cp["name"] = "b"
	assert.Equal(t, "a", orig["name"])
	assert.Nil(t, Clone(nil))
}
