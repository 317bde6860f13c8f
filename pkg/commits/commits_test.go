package commits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitplot/pkg/linelog"
)

const (
	testAuthorA = "Ada"
	testAuthorB = "Bo"
	testFile    = "src/app.js"
)

func rec(commit, author string, at time.Time, line int) linelog.LineRecord {
	return linelog.LineRecord{
		Commit:   commit,
		Author:   author,
		File:     testFile,
		Line:     line,
		Type:     "js",
		Datetime: at,
	}
}

func TestAggregate_GroupsInFirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	late := time.Date(2024, 3, 2, 14, 45, 0, 0, time.UTC)
	early := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	records := []linelog.LineRecord{
		rec("bbb", testAuthorB, late, 1),
		rec("aaa", testAuthorA, early, 1),
		rec("bbb", testAuthorA, early, 2),
		rec("aaa", testAuthorA, early, 2),
		rec("aaa", testAuthorA, early, 3),
	}

	got := Aggregate(records, TemplateURL("https://example.com/c/{id}"))

	require.Len(t, got, 2)
	assert.Equal(t, "bbb", got[0].ID)
	assert.Equal(t, "aaa", got[1].ID)

	// First record wins.
	assert.Equal(t, testAuthorB, got[0].Author)
	assert.True(t, got[0].Datetime.Equal(late))

	assert.Equal(t, 2, got[0].TotalLines)
	assert.Equal(t, 3, got[1].TotalLines)
	assert.Len(t, got[1].Lines, got[1].TotalLines)
	assert.Equal(t, "https://example.com/c/aaa", got[1].URL)
	assert.InDelta(t, 14.75, got[0].HourFrac, 1e-9)
	assert.InDelta(t, 9.5, got[1].HourFrac, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Aggregate(nil, nil))
}

func TestSortChronological_Stable(t *testing.T) {
	t.Parallel()

	same := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	summaries := []Summary{
		{ID: "late", Datetime: same.Add(time.Hour)},
		{ID: "first", Datetime: same},
		{ID: "second", Datetime: same},
	}

	SortChronological(summaries)

	ids := []string{summaries[0].ID, summaries[1].ID, summaries[2].ID}
	assert.Equal(t, []string{"first", "second", "late"}, ids)
}

func TestTemplateURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://git.example/x/commit/abc", TemplateURL("https://git.example/x/commit/")("abc"))
	assert.Equal(t, "https://git.example/x/abc/view", TemplateURL("https://git.example/x/{id}/view")("abc"))
	assert.Contains(t, TemplateURL("")("abc"), "/commit/abc")
}

func TestHourFrac_RoundTrip(t *testing.T) {
	t.Parallel()

	zone := time.FixedZone("-08:00", -8*3600)
	records := []linelog.LineRecord{
		rec("a", testAuthorA, time.Date(2024, 5, 1, 0, 0, 0, 0, zone), 1),
		rec("b", testAuthorA, time.Date(2024, 5, 1, 23, 59, 0, 0, zone), 1),
		rec("c", testAuthorA, time.Date(2024, 5, 2, 13, 20, 45, 0, time.UTC), 1),
	}

	for _, c := range Aggregate(records, nil) {
		assert.InDelta(t, HourFrac(c.Datetime), c.HourFrac, 1e-12)
		assert.GreaterOrEqual(t, c.HourFrac, 0.0)
		assert.Less(t, c.HourFrac, 24.0)
	}
}

func TestLines_Flattens(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	summaries := Aggregate([]linelog.LineRecord{
		rec("a", testAuthorA, at, 1),
		rec("b", testAuthorA, at, 1),
		rec("a", testAuthorA, at, 2),
	}, nil)

	lines := Lines(summaries)

	require.Len(t, lines, 3)
	assert.Equal(t, "a", lines[0].Commit)
	assert.Equal(t, "a", lines[1].Commit)
	assert.Equal(t, "b", lines[2].Commit)
}

func TestStore(t *testing.T) {
	t.Parallel()

	first := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	last := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

	store := NewStore([]linelog.LineRecord{
		rec("late", testAuthorA, last, 1),
		rec("early", testAuthorA, first, 1),
	}, nil)

	require.NoError(t, store.Validate())
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "early", store.Commits()[0].ID)
	assert.Len(t, store.Records(), 2)

	lo, hi, ok := store.Bounds()
	require.True(t, ok)
	assert.True(t, lo.Equal(first))
	assert.True(t, hi.Equal(last))
}

func TestStore_Empty(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)

	require.ErrorIs(t, store.Validate(), ErrEmptyDataset)
	assert.Zero(t, store.Len())

	_, _, ok := store.Bounds()
	assert.False(t, ok)

	var nilStore *Store
	assert.Zero(t, nilStore.Len())
	assert.Nil(t, nilStore.Commits())
}
