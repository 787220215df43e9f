// internal/services/metadata_service_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapedeck/tapedeck-backend/internal/config"
)

const searchPayload = `{
	"results": [
		{"id": 1, "title": "The Wraith", "release_date": "1986-11-21", "poster_path": "/wraith.jpg", "overview": "Turbo Interceptor.", "popularity": 12.5},
		{"id": 2, "title": "The Wraith II", "release_date": "1990-01-01", "poster_path": "", "overview": "", "popularity": 1.0}
	]
}`

const moviePayload = `{
	"id": 1,
	"title": "The Wraith",
	"release_date": "1986-11-21",
	"poster_path": "/wraith.jpg",
	"overview": "Turbo Interceptor.",
	"genres": [{"name": "Action"}, {"name": "Sci-Fi"}],
	"production_companies": [{"name": "New Century"}, {"name": "Other Studio"}],
	"credits": {"crew": [
		{"name": "Someone Else", "job": "Producer"},
		{"name": "Mike Marvin", "job": "Director"},
		{"name": "Second Unit", "job": "Director"}
	]}
}`

func newMetadataService(t *testing.T, handler http.HandlerFunc) *MetadataService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := newTestConfig()
	cfg.TMDB = config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p/w500",
		SearchTTL:    24,
		DetailsTTL:   168,
	}

	return NewMetadataService(cfg, nil)
}

func TestSearchMoviesRejectsShortQuery(t *testing.T) {
	service := newMetadataService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for a short query")
	})

	for _, query := range []string{"", "a", " a "} {
		_, err := service.SearchMovies(context.Background(), query, "")
		assert.ErrorIs(t, err, ErrQueryTooShort)
	}
}

func TestSearchMoviesBuildsPosterURLs(t *testing.T) {
	var gotQuery, gotYear, gotKey string
	service := newMetadataService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotYear = r.URL.Query().Get("year")
		gotKey = r.URL.Query().Get("api_key")
		w.Write([]byte(searchPayload))
	})

	results, err := service.SearchMovies(context.Background(), "wraith", "1986")
	require.NoError(t, err)

	assert.Equal(t, "wraith", gotQuery)
	assert.Equal(t, "1986", gotYear)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, results, 2)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/wraith.jpg", results[0].PosterURL)
	assert.Empty(t, results[1].PosterURL)
}

func TestGetMovieDetailsExtractsCredits(t *testing.T) {
	service := newMetadataService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/1", r.URL.Path)
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))
		w.Write([]byte(moviePayload))
	})

	details, err := service.GetMovieDetails(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "The Wraith", details.Title)
	assert.Equal(t, 1986, details.Year)
	// First crew entry whose job is Director wins.
	assert.Equal(t, "Mike Marvin", details.Director)
	// First production company is the studio.
	assert.Equal(t, "New Century", details.Studio)
	assert.Equal(t, "Action, Sci-Fi", details.Genres)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/wraith.jpg", details.PosterURL)
}

func TestUpstreamFailureSurfacesStatus(t *testing.T) {
	service := newMetadataService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_message": "The resource you requested could not be found."}`))
	})

	_, err := service.GetMovieDetails(context.Background(), 999)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusNotFound, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Message, "could not be found")
}

func TestLookupPosterReturnsBestMatch(t *testing.T) {
	service := newMetadataService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPayload))
	})

	url, err := service.LookupPoster(context.Background(), "The Wraith", 1986)
	require.NoError(t, err)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/wraith.jpg", url)
}

func TestLookupPosterNoResults(t *testing.T) {
	service := newMetadataService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	})

	url, err := service.LookupPoster(context.Background(), "Unknown Tape", 0)
	require.NoError(t, err)
	assert.Empty(t, url)
}
