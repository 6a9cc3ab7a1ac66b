package blog

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello, World!", "hello-world"},
		{"  --Go 1.22 is out--  ", "go-1-22-is-out"},
		{"already-slugged", "already-slugged"},
		{"Ünïcode café", "n-code-caf"},
		{"Multiple   spaces\tand\nlines", "multiple-spaces-and-lines"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugifyShapeAndIdempotence(t *testing.T) {
	shape := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	titles := []string{
		"Hello, World!",
		"A/B testing: what we learned (part 2)",
		"---",
		"ÀÉÎ õ ü",
		"C++ & Go",
		"trailing dash-",
		"MiXeD CaSe 42",
	}

	for _, title := range titles {
		slug := Slugify(title)
		if slug != "" {
			assert.Regexp(t, shape, slug, "title %q", title)
		}
		assert.Equal(t, strings.ToLower(slug), slug)
		assert.Equal(t, slug, Slugify(slug), "title %q", title)
	}
}

func TestBaseSlugFallsBackForEmptySlug(t *testing.T) {
	assert.Equal(t, "post", baseSlug("¿¡!"))
	assert.Equal(t, "hello", baseSlug("Hello"))
}

func TestReadingTime(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("word ", n))
	}

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 1},
		{"only whitespace", " \n\t ", 1},
		{"two words", "one two", 1},
		{"whitespace runs", "a \n\t  b", 1},
		{"exactly 200", words(200), 1},
		{"201 words", words(201), 2},
		{"400 words", words(400), 2},
		{"401 words", words(401), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadingTime(tt.content))
		})
	}
}

func TestDeriveExcerpt(t *testing.T) {
	assert.Equal(t, "Short title...", DeriveExcerpt("  Short title "))

	long := strings.Repeat("é", 200)
	got := DeriveExcerpt(long)
	assert.Equal(t, strings.Repeat("é", 150)+"...", got)
}
