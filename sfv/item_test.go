package sfv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerItem(t *testing.T) {
	t.Run("serialize", func(t *testing.T) {
		tests := []struct {
			name  string
			value int64
			want  string
		}{
			{name: "zero", value: 0, want: "0"},
			{name: "positive", value: 42, want: "42"},
			{name: "negative", value: -17, want: "-17"},
			{name: "max digits", value: 999999999999999, want: "999999999999999"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, NewInteger(tt.value).Serialize())
			})
		}
	})

	t.Run("with parameters", func(t *testing.T) {
		item := NewInteger(2).WithParams(NewParameters().
			Add("foo", NewBoolean(true)).
			Add("bar", NewString("baz")))

		assert.Equal(t, `2;foo;bar="baz"`, item.Serialize())
	})

	t.Run("immutable", func(t *testing.T) {
		item := NewInteger(1)
		_ = item.WithParams(NewParameters().Add("a", NewBoolean(true)))

		assert.Nil(t, item.Params())
		assert.Equal(t, "1", item.Serialize())
	})
}

func TestDecimalItem(t *testing.T) {
	t.Run("serialize", func(t *testing.T) {
		tests := []struct {
			name        string
			thousandths int64
			want        string
		}{
			{name: "whole number keeps one fractional digit", thousandths: 1000, want: "1.0"},
			{name: "trailing zeros stripped", thousandths: 1250, want: "1.25"},
			{name: "three fractional digits", thousandths: 1234, want: "1.234"},
			{name: "leading fractional zero", thousandths: 10, want: "0.01"},
			{name: "negative", thousandths: -1250, want: "-1.25"},
			{name: "zero", thousandths: 0, want: "0.0"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, NewDecimal(tt.thousandths).Serialize())
			})
		}
	})

	t.Run("from float rounds to three digits", func(t *testing.T) {
		tests := []struct {
			name  string
			value float64
			want  string
		}{
			{name: "exact", value: 1.25, want: "1.25"},
			{name: "rounds down", value: 1.2341, want: "1.234"},
			{name: "rounds up", value: 1.2349, want: "1.235"},
			{name: "negative", value: -1.25, want: "-1.25"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, NewDecimalFromFloat(tt.value).Serialize())
			})
		}
	})

	t.Run("value accessors", func(t *testing.T) {
		item := NewDecimal(1250)
		assert.Equal(t, int64(1250), item.Thousandths())
		assert.InDelta(t, 1.25, item.Value(), 1e-9)
	})
}

func TestStringItem(t *testing.T) {
	t.Run("serialize", func(t *testing.T) {
		tests := []struct {
			name  string
			value string
			want  string
		}{
			{name: "plain", value: "hello", want: `"hello"`},
			{name: "empty", value: "", want: `""`},
			{name: "escapes quote", value: `he said "hi"`, want: `"he said \"hi\""`},
			{name: "escapes backslash", value: `a\b`, want: `"a\\b"`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, NewString(tt.value).Serialize())
			})
		}
	})

	t.Run("value is unquoted", func(t *testing.T) {
		assert.Equal(t, `he said "hi"`, NewString(`he said "hi"`).Value())
	})

	t.Run("rejects values outside printable ASCII", func(t *testing.T) {
		tests := []struct {
			name  string
			value string
		}{
			{name: "non-ASCII", value: "café"},
			{name: "control character", value: "a\tb"},
			{name: "DEL", value: "a\x7fb"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Panics(t, func() { NewString(tt.value) })
			})
		}
	})
}

func TestTokenItem(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "simple", value: "sugar"},
		{name: "star", value: "*"},
		{name: "mixed", value: "foo123/bar:baz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, NewToken(tt.value).Serialize())
		})
	}
}

func TestBooleanItem(t *testing.T) {
	assert.Equal(t, "?1", NewBoolean(true).Serialize())
	assert.Equal(t, "?0", NewBoolean(false).Serialize())
}

func TestByteSequenceItem(t *testing.T) {
	t.Run("serialize", func(t *testing.T) {
		assert.Equal(t, ":aGVsbG8=:", NewByteSequence([]byte("hello")).Serialize())
		assert.Equal(t, "::", NewByteSequence(nil).Serialize())
	})

	t.Run("value is a copy", func(t *testing.T) {
		src := []byte("hello")
		item := NewByteSequence(src)

		src[0] = 'x'
		assert.Equal(t, []byte("hello"), item.Value())

		got := item.Value()
		got[0] = 'y'
		assert.Equal(t, []byte("hello"), item.Value())
	})
}

func TestInnerList(t *testing.T) {
	t.Run("serialize", func(t *testing.T) {
		list := NewInnerList(NewToken("a"), NewInteger(2).WithParams(NewParameters().Add("x", NewBoolean(true))))
		assert.Equal(t, "(a 2;x)", list.Serialize())
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "()", NewInnerList().Serialize())
	})

	t.Run("with parameters", func(t *testing.T) {
		list := NewInnerList(NewString("a")).WithParams(NewParameters().Add("v", NewInteger(1)))
		assert.Equal(t, `("a");v=1`, list.Serialize())
	})

	t.Run("items returns a copy", func(t *testing.T) {
		list := NewInnerList(NewToken("a"), NewToken("b"))

		items := list.Items()
		items[0] = NewToken("x")

		require.Len(t, list.Items(), 2)
		assert.Equal(t, "(a b)", list.Serialize())
	})
}

func TestList(t *testing.T) {
	t.Run("serialize joins members", func(t *testing.T) {
		list := List{
			NewToken("sugar"),
			NewInnerList(NewToken("a"), NewToken("b")),
			NewInteger(5),
		}

		assert.Equal(t, "sugar, (a b), 5", list.Serialize())
	})

	t.Run("empty serializes to empty string", func(t *testing.T) {
		assert.Equal(t, "", List{}.Serialize())
	})
}

func TestAsItem(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(-7), want: "-7"},
		{name: "string", value: "hi", want: `"hi"`},
		{name: "bool", value: true, want: "?1"},
		{name: "bytes", value: []byte("hello"), want: ":aGVsbG8=:"},
		{name: "float64", value: 1.25, want: "1.25"},
		{name: "item passes through", value: NewToken("tok"), want: "tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := AsItem(tt.value)
			require.True(t, ok)
			assert.Equal(t, tt.want, item.Serialize())
		})
	}

	t.Run("unsupported type", func(t *testing.T) {
		_, ok := AsItem(struct{}{})
		assert.False(t, ok)
	})

	t.Run("non-ASCII string is not representable", func(t *testing.T) {
		_, ok := AsItem("café")
		assert.False(t, ok)
	})
}
