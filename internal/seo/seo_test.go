package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadeerens/ember-bloom-menu/internal/catalog"
)

func TestMenuSchema(t *testing.T) {
	t.Parallel()
	c, err := catalog.LoadDefault()
	require.NoError(t, err)

	var got struct {
		Type     string `json:"@type"`
		Sections []struct {
			Name  string `json:"name"`
			Items []struct {
				Name   string `json:"name"`
				Offers struct {
					Price    string `json:"price"`
					Currency string `json:"priceCurrency"`
				} `json:"offers"`
			} `json:"hasMenuItem"`
		} `json:"hasMenuSection"`
	}
	require.NoError(t, json.Unmarshal([]byte(JSON(Menu(c, "en"))), &got))

	assert.Equal(t, "Menu", got.Type)
	require.Len(t, got.Sections, 4)
	assert.Equal(t, "Desserts", got.Sections[2].Name)
	require.Len(t, got.Sections[2].Items, 3)

	total := 0
	for _, s := range got.Sections {
		total += len(s.Items)
	}
	assert.Equal(t, c.Len(), total)
	assert.Equal(t, "USD", got.Sections[0].Items[0].Offers.Currency)
	assert.Equal(t, "18.00", got.Sections[0].Items[0].Offers.Price)
}

func TestRestaurantSchema(t *testing.T) {
	t.Parallel()
	m := Restaurant("Ember & Bloom", "https://ember.example", "", "")
	assert.Equal(t, "https://ember.example#menu", m["hasMenu"])
	_, ok := m["telephone"]
	assert.False(t, ok)

	assert.Equal(t, "ar_EG", OGLocale("ar"))
	assert.Equal(t, "en_US", OGLocale("fr"))
}
