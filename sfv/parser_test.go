package sfv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItem(t *testing.T) {
	t.Run("bare items", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			want  string
		}{
			{name: "integer", input: "42", want: "42"},
			{name: "negative integer", input: "-17", want: "-17"},
			{name: "decimal", input: "1.25", want: "1.25"},
			{name: "decimal trailing zeros", input: "1.250", want: "1.25"},
			{name: "negative decimal", input: "-0.5", want: "-0.5"},
			{name: "string", input: `"hello"`, want: `"hello"`},
			{name: "string with escapes", input: `"a\"b\\c"`, want: `"a\"b\\c"`},
			{name: "token", input: "sugar", want: "sugar"},
			{name: "star token", input: "*foo", want: "*foo"},
			{name: "token with slash and colon", input: "text/html:v2", want: "text/html:v2"},
			{name: "boolean true", input: "?1", want: "?1"},
			{name: "boolean false", input: "?0", want: "?0"},
			{name: "byte sequence", input: ":aGVsbG8=:", want: ":aGVsbG8=:"},
			{name: "unpadded byte sequence", input: ":aGVsbG8:", want: ":aGVsbG8=:"},
			{name: "empty byte sequence", input: "::", want: "::"},
			{name: "leading and trailing spaces", input: "  42  ", want: "42"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				item, err := ParseItem(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.want, item.Serialize())
			})
		}
	})

	t.Run("parameters", func(t *testing.T) {
		item, err := ParseItem(`2; foo;bar="baz";n=4`)
		require.NoError(t, err)

		params := item.Params()
		require.NotNil(t, params)
		assert.Equal(t, []string{"foo", "bar", "n"}, params.Keys())

		foo, ok := params.Get("foo")
		require.True(t, ok)
		assert.True(t, foo.(BooleanItem).Value())

		assert.Equal(t, `2;foo;bar="baz";n=4`, item.Serialize())
	})

	t.Run("typed results", func(t *testing.T) {
		item, err := ParseItem("1.25")
		require.NoError(t, err)

		decimal, ok := item.(DecimalItem)
		require.True(t, ok)
		assert.Equal(t, int64(1250), decimal.Thousandths())

		item, err = ParseItem(":aGVsbG8=:")
		require.NoError(t, err)

		seq, ok := item.(ByteSequenceItem)
		require.True(t, ok)
		assert.Equal(t, []byte("hello"), seq.Value())
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{name: "empty input", input: ""},
			{name: "trailing characters", input: "4 2"},
			{name: "invalid start", input: "#foo"},
			{name: "integer too long", input: "1234567890123456"},
			{name: "decimal integer part too long", input: "1234567890123.1"},
			{name: "decimal too many fractional digits", input: "1.2345"},
			{name: "decimal without fractional digits", input: "1."},
			{name: "unterminated string", input: `"abc`},
			{name: "invalid escape", input: `"a\x"`},
			{name: "control character in string", input: "\"a\tb\""},
			{name: "unterminated byte sequence", input: ":aGVsbG8="},
			{name: "invalid base64", input: ":a!b:"},
			{name: "bad boolean", input: "?2"},
			{name: "parameter key uppercase", input: "1;Foo=2"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseItem(tt.input)
				require.Error(t, err)

				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.GreaterOrEqual(t, parseErr.Offset, 0)
				assert.LessOrEqual(t, parseErr.Offset, len(tt.input))
			})
		}
	})

	t.Run("error carries offset", func(t *testing.T) {
		_, err := ParseItem("42 x")

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, parseErr.Offset)
		assert.Contains(t, parseErr.Error(), "offset 3")
	})
}

func TestParseList(t *testing.T) {
	t.Run("items and inner lists", func(t *testing.T) {
		list, err := ParseList(`sugar, tea, (a b);v=1, "rum"`)
		require.NoError(t, err)

		require.Len(t, list, 4)
		assert.Equal(t, `sugar, tea, (a b);v=1, "rum"`, list.Serialize())

		inner, ok := list[2].(InnerList)
		require.True(t, ok)
		assert.Len(t, inner.Items(), 2)
	})

	t.Run("whitespace around commas", func(t *testing.T) {
		list, err := ParseList("a,b ,\tc , d")
		require.NoError(t, err)
		assert.Equal(t, "a, b, c, d", list.Serialize())
	})

	t.Run("empty input yields empty list", func(t *testing.T) {
		list, err := ParseList("")
		require.NoError(t, err)
		assert.Empty(t, list)

		list, err = ParseList("   ")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("inner list item parameters", func(t *testing.T) {
		list, err := ParseList(`("foo";a;b=1);lvl=5`)
		require.NoError(t, err)
		assert.Equal(t, `("foo";a;b=1);lvl=5`, list.Serialize())
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{name: "trailing comma", input: "a, b,"},
			{name: "missing comma", input: "a b"},
			{name: "unterminated inner list", input: "(a b"},
			{name: "inner list missing separator", input: "(a\"b\")"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseList(tt.input)
				assert.Error(t, err)
			})
		}
	})
}

func TestParseDictionary(t *testing.T) {
	t.Run("mixed members", func(t *testing.T) {
		dict, err := ParseDictionary(`a=1, b;foo=*, c=(1 2), d="x"`)
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b", "c", "d"}, dict.Keys())
		assert.Equal(t, `a=1, b;foo=*, c=(1 2), d="x"`, dict.Serialize())
	})

	t.Run("bare key is boolean true", func(t *testing.T) {
		dict, err := ParseDictionary("a, b=?0")
		require.NoError(t, err)

		member, ok := dict.Get("a")
		require.True(t, ok)

		boolean, ok := member.(BooleanItem)
		require.True(t, ok)
		assert.True(t, boolean.Value())

		assert.Equal(t, "a, b=?0", dict.Serialize())
	})

	t.Run("duplicate key keeps first position and last value", func(t *testing.T) {
		dict, err := ParseDictionary("a=1, b=2, a=3")
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b"}, dict.Keys())

		member, ok := dict.Get("a")
		require.True(t, ok)
		assert.Equal(t, int64(3), member.(IntegerItem).Value())

		assert.Equal(t, "a=3, b=2", dict.Serialize())
	})

	t.Run("empty input yields empty dictionary", func(t *testing.T) {
		dict, err := ParseDictionary("")
		require.NoError(t, err)
		assert.Zero(t, dict.Len())
	})

	t.Run("keys with allowed characters", func(t *testing.T) {
		dict, err := ParseDictionary("*key-1.x_y=1")
		require.NoError(t, err)
		assert.True(t, dict.Has("*key-1.x_y"))
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{name: "trailing comma", input: "a=1,"},
			{name: "uppercase key", input: "A=1"},
			{name: "missing comma", input: "a=1 b=2"},
			{name: "missing value after equals", input: "a="},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseDictionary(tt.input)
				assert.Error(t, err)

				var parseErr *ParseError
				assert.True(t, errors.As(err, &parseErr))
			})
		}
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("canonical forms survive", func(t *testing.T) {
		inputs := []string{
			"42",
			"-1.5",
			`"a\"b"`,
			"token;p=1",
			":aGVsbG8=:",
			"?0",
		}

		for _, input := range inputs {
			t.Run(input, func(t *testing.T) {
				item, err := ParseItem(input)
				require.NoError(t, err)

				again, err := ParseItem(item.Serialize())
				require.NoError(t, err)
				assert.Equal(t, item.Serialize(), again.Serialize())
			})
		}
	})

	t.Run("parse normalizes to canonical", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			want  string
		}{
			{name: "list spacing", input: "a,b,  c", want: "a, b, c"},
			{name: "parameter spacing", input: "a; x=1", want: "a;x=1"},
			{name: "decimal zeros", input: "1.500", want: "1.5"},
			{name: "base64 padding", input: ":aGVsbG8:", want: ":aGVsbG8=:"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				list, err := ParseList(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.want, list.Serialize())
			})
		}
	})
}
