package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADeane6/plex-movie-rec/internal/catalog"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return f.vector, f.err
}

type fakeIndex struct {
	positions []int
	err       error
	gotLimit  int
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, limit int) ([]int, error) {
	f.gotLimit = limit
	return f.positions, f.err
}

func testMovies() []catalog.Movie {
	return []catalog.Movie{
		{Title: "Inception", Year: 2010, Genres: []string{"Sci-Fi", "Thriller"}, Key: "/library/metadata/1", Summary: "Dreams within dreams."},
		{Title: "Up", Year: 2009, Genres: []string{"Animation", "Adventure"}, Key: "/library/metadata/2", Summary: "A house with balloons."},
		{Title: "Arrival", Year: 2016, Genres: []string{"Sci-Fi", "Drama"}, Key: "/library/metadata/3", Summary: "First contact."},
	}
}

func TestRetrieveFormatsRankedResults(t *testing.T) {
	index := &fakeIndex{positions: []int{2, 0}}
	r := NewRetriever(&fakeEmbedder{vector: []float32{0.1}}, index, testMovies())

	recs, err := r.Retrieve(context.Background(), "cerebral sci-fi", 5)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Arrival", recs[0].Title)
	assert.Equal(t, "Sci-Fi, Drama", recs[0].Genres)
	assert.Equal(t, "/library/metadata/3", recs[0].Key)
	assert.Equal(t, "Inception", recs[1].Title)
	assert.Equal(t, 5, index.gotLimit)
}

func TestRetrieveSkipsOutOfRangePositions(t *testing.T) {
	index := &fakeIndex{positions: []int{1, 99, -1}}
	r := NewRetriever(&fakeEmbedder{vector: []float32{0.1}}, index, testMovies())

	recs, err := r.Retrieve(context.Background(), "anything", 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Up", recs[0].Title)
}

func TestRetrieveDefaultLimit(t *testing.T) {
	index := &fakeIndex{}
	r := NewRetriever(&fakeEmbedder{vector: []float32{0.1}}, index, testMovies())

	_, err := r.Retrieve(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, index.gotLimit)
}

func TestRetrieveEmbedderFailure(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{err: errors.New("rate limited")}, &fakeIndex{}, testMovies())

	_, err := r.Retrieve(context.Background(), "anything", 5)
	assert.Error(t, err)
}

func TestRetrieveIndexFailure(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{vector: []float32{0.1}}, &fakeIndex{err: errors.New("down")}, testMovies())

	_, err := r.Retrieve(context.Background(), "anything", 5)
	assert.Error(t, err)
}
