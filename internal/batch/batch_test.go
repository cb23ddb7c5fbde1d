package batch

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/exprtree"
)

func TestWorked(t *testing.T) {
	examples := Worked()
	require.Len(t, examples, 11)

	outcomes := Run(exprtree.NewSession(nil), examples)
	require.Len(t, outcomes, len(examples))
	for _, o := range outcomes {
		assert.NoError(t, o.Err, o.Example.Expr)
		assert.True(t, o.OK(), "%s gave %v", o.Example.Expr, o.Value)
		assert.NotEmpty(t, o.InOrder)
		assert.Len(t, o.PostOrder, len(o.InOrder))
	}
	assert.Zero(t, Failures(outcomes))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Example
		wantErr error
	}{
		{
			name: "checked and unchecked",
			input: `examples:
  - expr: "(1+2)"
    want: 3
  - expr: "(2^10)"
    note: unchecked
`,
			want: []Example{
				{Expr: "(1+2)", Want: ptr(3)},
				{Expr: "(2^10)", Note: "unchecked"},
			},
		},
		{
			name: "tolerance",
			input: `examples:
  - expr: "(1/3)"
    want: 0.333
    tolerance: 0.01
`,
			want: []Example{
				{Expr: "(1/3)", Want: ptr(0.333), Tolerance: 0.01},
			},
		},
		{
			name:    "empty",
			input:   "examples: []\n",
			wantErr: ErrInvalidBatch,
		},
		{
			name: "missing expr",
			input: `examples:
  - want: 3
`,
			wantErr: ErrInvalidBatch,
		},
		{
			name: "negative tolerance",
			input: `examples:
  - expr: "(1+2)"
    tolerance: -1
`,
			wantErr: ErrInvalidBatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "%v is not %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("examples:\n  - expr: \"(1+2)\"\n    expected: 3\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("examples:\n  - expr: \"(6/4)\"\n    want: 1.5\n"), 0o644))

	examples, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, examples, 1)

	outcomes := Run(exprtree.NewSession(nil), examples)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].OK())
	assert.Equal(t, []string{"6", "/", "4"}, outcomes[0].InOrder)
	assert.Equal(t, []string{"6", "4", "/"}, outcomes[0].PostOrder)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	examples, err := Load(strings.NewReader("examples:\n  - expr: \"(2*3)\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []Example{{Expr: "(2*3)"}}, examples)
}

func TestRunFailures(t *testing.T) {
	examples := []Example{
		{Expr: "(1+2)", Want: ptr(4)},
		{Expr: "(1+", Want: ptr(1)},
		{Expr: "(0/0)"},
		{Expr: "(2*2)", Want: ptr(4)},
	}
	outcomes := Run(exprtree.NewSession(nil), examples)
	require.Len(t, outcomes, 4)

	assert.NoError(t, outcomes[0].Err)
	assert.False(t, outcomes[0].OK())

	var be *exprtree.EmptyExpressionError
	assert.ErrorAs(t, outcomes[1].Err, &be)
	assert.Nil(t, outcomes[1].InOrder)

	var de *exprtree.DomainError
	assert.ErrorAs(t, outcomes[2].Err, &de)
	assert.False(t, outcomes[2].OK())

	assert.True(t, outcomes[3].OK())
	assert.Equal(t, 3, Failures(outcomes))
}

func TestClose(t *testing.T) {
	cases := []struct {
		name      string
		got       float64
		want      float64
		tolerance float64
		ok        bool
	}{
		{"exact", 11, 11, 0, true},
		{"default tolerance", 1 + 1e-12, 1, 0, true},
		{"outside default", 1.001, 1, 0, false},
		{"relative", 7077888.001, 7077888, 1e-6, true},
		{"small absolute", 1e-12, 0, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.ok, Close(big.NewFloat(c.got), c.want, c.tolerance))
		})
	}
}

func ptr(f float64) *float64 {
	return &f
}
