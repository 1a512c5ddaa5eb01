package celx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/uideck/internal/record"
)

func newEval(t *testing.T) *Evaluator {
	t.Helper()
	e, err := NewEvaluator()
	require.NoError(t, err)
	return e
}

func TestMatches(t *testing.T) {
	e := newEval(t)
	r := record.Record{"name": "USB-C Hub", "price": 49.99, "stock": 0, "inStock": false}

	tests := []struct {
		expr string
		want bool
	}{
		{"_.inStock", false},
		{"_.stock == 0", true},
		{"_.price < 50", true},
		{"_.name.lowerAscii().contains('hub')", true},
		{"_.price > 100", false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Matches(tt.expr, r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesNonBool(t *testing.T) {
	e := newEval(t)
	_, err := e.Matches("_.name", record.Record{"name": "x"})
	require.Error(t, err)
}

func TestCompileError(t *testing.T) {
	e := newEval(t)
	require.Error(t, e.Compile("_.name ==="))
	require.NoError(t, e.Compile("_.name == 'x'"))
}

func TestFilter(t *testing.T) {
	e := newEval(t)
	recs := []record.Record{
		{"id": 1, "category": "Electronics"},
		{"id": 2, "category": "Accessories"},
		{"id": 3, "category": "Accessories"},
	}
	got, err := e.Filter("_.category == 'Accessories'", recs)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0]["id"])
}

func TestValidate(t *testing.T) {
	e := newEval(t)

	msg, err := e.Validate("value.size() >= 3 ? '' : 'too short'", "ab", "")
	require.NoError(t, err)
	assert.Equal(t, "too short", msg)

	msg, err = e.Validate("value.size() >= 3 ? '' : 'too short'", "abc", "")
	require.NoError(t, err)
	assert.Empty(t, msg)

	msg, err = e.Validate("value.matches('^[a-z]+$')", "ABC", "lowercase only")
	require.NoError(t, err)
	assert.Equal(t, "lowercase only", msg)

	msg, err = e.Validate("value > 0.0", 2.5, "must be positive")
	require.NoError(t, err)
	assert.Empty(t, msg)

	_, err = e.Validate("42", "x", "")
	require.Error(t, err)
}

func TestDefaultIsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestEvaluateConvertsCollections(t *testing.T) {
	e := newEval(t)
	out, err := e.Evaluate("[1, 2].map(x, x * 2)", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), int64(4)}, out)

	out, err = e.Evaluate("{'a': 1}", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1)}, out)
}
