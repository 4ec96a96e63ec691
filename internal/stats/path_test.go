package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathParser_Segments(t *testing.T) {
	parser := NewPathParser([]string{"ホーム", "Home"})

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"empty", "", []string{}},
		{"no separator", "Books", []string{"books"}},
		{"root label stripped", "Home > Books > Manga > Shonen Manga", []string{"books", "manga", "shonen manga"}},
		{"japanese root label", "ホーム > 本・雑誌・漫画 > 漫画 > 少年漫画", []string{"本・雑誌・漫画", "漫画", "少年漫画"}},
		{"root label only", "Home", []string{}},
		{"root label not first", "Books > Home", []string{"books", "home"}},
		{"empty segments dropped", " > Books >  > Manga > ", []string{"books", "manga"}},
		{"bare angle bracket is not a separator", "Books>Manga", []string{"books>manga"}},
		{"angle bracket inside segment", "Home > A>B > C > D", []string{"a>b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.Segments(tt.path))
		})
	}
}

func TestExactKey(t *testing.T) {
	key, ok := ExactKey([]string{"a", "b", "c", "d"})
	assert.True(t, ok)
	assert.Equal(t, "a|b|c", key)

	_, ok = ExactKey([]string{"a", "b"})
	assert.False(t, ok)
}

func TestPrefixKey(t *testing.T) {
	key, ok := PrefixKey([]string{"a", "b", "c"}, 2)
	assert.True(t, ok)
	assert.Equal(t, "a|b|", key)

	key, ok = PrefixKey([]string{"a"}, 1)
	assert.True(t, ok)
	assert.Equal(t, "a|", key)

	_, ok = PrefixKey([]string{"a"}, 2)
	assert.False(t, ok)

	_, ok = PrefixKey(nil, 0)
	assert.False(t, ok)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "books|manga|shonen manga", NormalizeKey(" Books |Manga| Shonen Manga"))
}
