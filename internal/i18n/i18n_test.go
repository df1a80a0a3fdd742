package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := Default()
	require.NoError(t, err)
	return b
}

func TestTranslate(t *testing.T) {
	t.Parallel()
	b := defaultBundle(t)

	tests := []struct {
		name string
		lang string
		key  string
		want string
	}{
		{name: "english", lang: "en", key: "menu.title", want: "Our Menu"},
		{name: "arabic", lang: "ar", key: "menu.title", want: "المنيو بتاعنا"},
		{name: "missing key returns key", lang: "ar", key: "x.y.z", want: "x.y.z"},
		{name: "region subtag", lang: "ar-EG", key: "cart.total", want: "الإجمالي"},
		{name: "unsupported language uses default table", lang: "fr", key: "cart.total", want: "Total"},
		{name: "empty key", lang: "en", key: "", want: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, b.T(tc.lang, tc.key))
		})
	}
}

func TestTablesShareKeys(t *testing.T) {
	t.Parallel()
	b := defaultBundle(t)
	for key := range b.dict[DefaultLang] {
		_, ok := b.dict[Arabic][key]
		assert.True(t, ok, "ar is missing %q", key)
	}
	for key := range b.dict[Arabic] {
		_, ok := b.dict[DefaultLang][key]
		assert.True(t, ok, "en is missing %q", key)
	}
}

func TestResolveHonorsQValues(t *testing.T) {
	t.Parallel()
	b := defaultBundle(t)

	assert.Equal(t, "ar", b.Resolve("en;q=0.8, ar;q=0.9"))
	assert.Equal(t, "en", b.Resolve("fr-CA, de;q=0.5"))
	assert.Equal(t, "ar", b.Resolve("ar-SA"))
	assert.Equal(t, "en", b.Resolve(""))
	assert.Equal(t, "en", b.Resolve(";;;"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	b := defaultBundle(t)
	assert.Equal(t, "ar", b.Normalize(" AR "))
	assert.Equal(t, "en", b.Normalize("en_US"))
	assert.Equal(t, "", b.Normalize("xx"))
	assert.Equal(t, "", b.Normalize(""))
	assert.Equal(t, []string{"ar", "en"}, b.Supported())
}

func TestLoadFSRequiresFallback(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"ar.json": {Data: []byte(`{"a":"b"}`)},
	}
	_, err := LoadFS(fsys, ".", "en", []string{"en", "ar"})
	require.Error(t, err)

	fsys["en.json"] = &fstest.MapFile{Data: []byte(`{"a":"c"}`)}
	b, err := LoadFS(fsys, ".", "en", []string{"en", "ar", "fr"})
	require.NoError(t, err)
	assert.Equal(t, "b", b.T("ar", "a"))
	// fr is supported but has no table, so it reads from the fallback
	assert.Equal(t, "c", b.T("fr", "a"))

	fsys["en.json"] = &fstest.MapFile{Data: []byte(`{not json`)}
	_, err = LoadFS(fsys, ".", "en", nil)
	require.Error(t, err)
}

func TestLocalizer(t *testing.T) {
	t.Parallel()
	b := defaultBundle(t)

	l := NewLocalizer(b, "")
	assert.Equal(t, "en", l.Lang())
	assert.Equal(t, LTR, l.Dir())
	assert.Equal(t, "ar", l.Other())

	assert.True(t, l.SetLang("ar"))
	assert.Equal(t, RTL, l.Dir())
	assert.Equal(t, "المنيو بتاعنا", l.T("menu.title"))
	assert.Equal(t, "en", l.Other())

	assert.False(t, l.SetLang("de"))
	assert.Equal(t, "ar", l.Lang())

	assert.Equal(t, LTR, NewLocalizer(b, "zz").Dir())
}
