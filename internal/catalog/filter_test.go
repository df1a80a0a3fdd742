package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/cases"
)

func TestFilter(t *testing.T) {
	t.Parallel()
	c := loadDefault(t)

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "all categories without search returns everything",
			criteria: ParseCriteria("", ""),
			want:     []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"},
		},
		{
			name:     "desserts only",
			criteria: ParseCriteria("desserts", ""),
			want:     []string{"8", "9", "10"},
		},
		{
			name:     "english search is case insensitive",
			criteria: ParseCriteria("all", "TRUFFLE"),
			want:     []string{"1", "7"},
		},
		{
			name:     "lower case search matches the same items",
			criteria: ParseCriteria("all", "truffle"),
			want:     []string{"1", "7"},
		},
		{
			name:     "search matches descriptions",
			criteria: ParseCriteria("all", "parmesan"),
			want:     []string{"1", "7"},
		},
		{
			name:     "arabic search matches arabic name",
			criteria: ParseCriteria("all", "بالكمأة"),
			want:     []string{"1", "7"},
		},
		{
			name:     "arabic search matches arabic description",
			criteria: ParseCriteria("all", "القرنفل"),
			want:     []string{"12"},
		},
		{
			name:     "category and search combine",
			criteria: ParseCriteria("mains", "truffle"),
			want:     []string{"7"},
		},
		{
			name:     "ingredients are not searched",
			criteria: ParseCriteria("all", "Elderflower"),
			want:     []string{},
		},
		{
			name:     "category comparison is case sensitive",
			criteria: ParseCriteria("Desserts", ""),
			want:     []string{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := c.View(tc.criteria)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterResultIsOrderedSubsequence(t *testing.T) {
	t.Parallel()
	c := loadDefault(t)
	all := c.Items()

	queries := []Criteria{
		ParseCriteria("mains", ""),
		ParseCriteria("all", "with"),
		ParseCriteria("drinks", "rose"),
		ParseCriteria("appetizers", "z"),
	}
	for _, q := range queries {
		got := Filter(all, q)
		pos := 0
		for _, it := range got {
			for pos < len(all) && all[pos].ID != it.ID {
				pos++
			}
			if pos == len(all) {
				t.Fatalf("%+v: %s is out of catalog order", q, it.ID)
			}
			pos++
		}
		kept := map[string]bool{}
		for _, it := range got {
			kept[it.ID] = true
		}
		for _, it := range all {
			fold := cases.Fold()
			passes := matchesCategory(it, q.Category) && matchesSearch(it, fold, fold.String(q.Search), q.Search)
			assert.Equal(t, passes, kept[it.ID], "criteria %+v item %s", q, it.ID)
		}
	}
}

func TestCriteriaIsZero(t *testing.T) {
	t.Parallel()
	assert.True(t, ParseCriteria("", "").IsZero())
	assert.True(t, ParseCriteria("all", "").IsZero())
	assert.False(t, ParseCriteria("mains", "").IsZero())
	assert.False(t, ParseCriteria("", "duck").IsZero())
}
