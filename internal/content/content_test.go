package content

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestDefaultSections(t *testing.T) {
	t.Parallel()
	lib, err := Default()
	require.NoError(t, err)

	about, err := lib.Section("about", "en")
	require.NoError(t, err)
	assert.Equal(t, "Our Story", about.Title)
	doc := parseHTML(t, string(about.HTML))
	assert.Equal(t, 3, doc.Find("li").Length())
	assert.Equal(t, "dry-aged in house", doc.Find("strong").First().Text())

	contact, err := lib.Section("contact", "ar")
	require.NoError(t, err)
	assert.Equal(t, "ar", contact.Lang)
	assert.Equal(t, "زورنا", contact.Title)
	require.Len(t, contact.Hours, 2)
	assert.Equal(t, "+20 123 456 7890", contact.Phone)
}

func TestSectionFallsBackToEnglish(t *testing.T) {
	t.Parallel()
	lib, err := Load(fstest.MapFS{
		"en/story.md": {Data: []byte("---\ntitle: Story\n---\nHello")},
	})
	require.NoError(t, err)

	sec, err := lib.Section("story", "ar")
	require.NoError(t, err)
	assert.Equal(t, "en", sec.Lang)
	assert.Equal(t, "Story", sec.Title)

	_, err = lib.Section("missing", "en")
	assert.True(t, errors.Is(err, ErrNotFound))

	var nilLib *Library
	_, err = nilLib.Section("story", "en")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRenderSanitizesMarkup(t *testing.T) {
	t.Parallel()
	lib, err := Load(fstest.MapFS{
		"en/x.md": {Data: []byte("Hi <script>alert(1)</script> [site](https://example.com) <a href=\"javascript:alert(1)\">bad</a>")},
	})
	require.NoError(t, err)

	sec, err := lib.Section("x", "en")
	require.NoError(t, err)
	html := string(sec.HTML)
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "javascript:")

	doc := parseHTML(t, html)
	link := doc.Find(`a[href="https://example.com"]`)
	require.Equal(t, 1, link.Length())
	rel, _ := link.Attr("rel")
	assert.Contains(t, rel, "nofollow")
	assert.Equal(t, "", sec.Title)
}

func TestLoadRejectsBrokenFrontMatter(t *testing.T) {
	t.Parallel()
	_, err := Load(fstest.MapFS{
		"en/x.md": {Data: []byte("---\ntitle: [unclosed\n---\nbody")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "front matter")
}

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()
	fm, body := splitFrontMatter("---\ntitle: A\n---\n\nBody")
	assert.Equal(t, "title: A", fm)
	assert.Equal(t, "Body", body)

	fm, body = splitFrontMatter("No front matter")
	assert.Empty(t, fm)
	assert.Equal(t, "No front matter", body)

	fm, body = splitFrontMatter("---\nunterminated")
	assert.Empty(t, fm)
	assert.Equal(t, "---\nunterminated", body)
}
