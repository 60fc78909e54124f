package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADeane6/plex-movie-rec/internal/catalog"
)

func browseCatalog() []catalog.Movie {
	return []catalog.Movie{
		{Title: "Inception", Directors: []string{"Christopher Nolan"}, Genres: []string{"Sci-Fi", "Thriller"}},
		{Title: "Interstellar", Directors: []string{"Christopher Nolan"}, Genres: []string{"Sci-Fi", "Drama"}},
		{Title: "Up", Directors: []string{"Pete Docter"}, Genres: []string{"Animation", "Adventure"}},
		{Title: "Arrival", Directors: []string{"Denis Villeneuve"}, Genres: []string{"Sci-Fi", "Drama"}},
	}
}

func TestSimilarByDirector(t *testing.T) {
	recs := SimilarByDirector(browseCatalog(), "Christopher Nolan", "Inception", 3)
	require.Len(t, recs, 1)
	assert.Equal(t, "Interstellar", recs[0].Title)
}

func TestSimilarByDirectorEmptyName(t *testing.T) {
	assert.Nil(t, SimilarByDirector(browseCatalog(), "", "", 3))
}

func TestSimilarByGenreRanksByOverlap(t *testing.T) {
	recs := SimilarByGenre(browseCatalog(), []string{"Sci-Fi", "Drama"}, "Arrival", 3)
	require.Len(t, recs, 2)
	// Interstellar shares both genres, Inception only one.
	assert.Equal(t, "Interstellar", recs[0].Title)
	assert.Equal(t, "Inception", recs[1].Title)
}

func TestSimilarByGenreNoOverlap(t *testing.T) {
	recs := SimilarByGenre(browseCatalog(), []string{"Documentary"}, "", 3)
	assert.Empty(t, recs)
}

func TestPopularSamplesWithoutRepeats(t *testing.T) {
	recs := Popular(browseCatalog(), 3)
	require.Len(t, recs, 3)

	seen := map[string]bool{}
	for _, r := range recs {
		assert.False(t, seen[r.Title])
		seen[r.Title] = true
	}
}

func TestPopularLimitClamped(t *testing.T) {
	recs := Popular(browseCatalog(), 10)
	assert.Len(t, recs, 4)
}

func TestRecentlyAddedReturnsTail(t *testing.T) {
	recs := RecentlyAdded(browseCatalog(), 2)
	require.Len(t, recs, 2)
	assert.Equal(t, "Up", recs[0].Title)
	assert.Equal(t, "Arrival", recs[1].Title)
}

func TestRecentlyAddedSmallCatalog(t *testing.T) {
	recs := RecentlyAdded(browseCatalog()[:1], 5)
	assert.Len(t, recs, 1)
}
