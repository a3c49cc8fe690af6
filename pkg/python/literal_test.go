package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want any
	}{
		{"double-quoted string", `"42"`, "42"},
		{"single-quoted string", `'hello'`, "hello"},
		{"string with escapes", `"a\nb\\c"`, "a\nb\\c"},
		{"integer", "42", int64(42)},
		{"negative integer", "-7", int64(-7)},
		{"underscored integer", "1_000", int64(1000)},
		{"float", "1.5", 1.5},
		{"true", "True", true},
		{"false", "False", false},
		{"none", "None", nil},
		{"tuple", "(1, 2, 3)", []any{int64(1), int64(2), int64(3)}},
		{"list", `["a", "b"]`, []any{"a", "b"}},
		{"trailing comma", "(1, 2,)", []any{int64(1), int64(2)}},
		{"nested sequence", `(1, ("a", "b"))`, []any{int64(1), []any{"a", "b"}}},
		{"trailing comment", `"42"  # the answer`, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLiteral(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLiteral_Errors(t *testing.T) {
	invalid := []string{
		"",
		"compute_version()",
		"some_name",
		`"unterminated`,
		"(1, 2",
		`"42" "extra"`,
		"1 + 2",
	}

	for _, src := range invalid {
		_, err := ParseLiteral(src)
		assert.Error(t, err, "expected %q to fail", src)
	}
}
