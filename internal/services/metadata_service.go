// internal/services/metadata_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tapedeck/tapedeck-backend/internal/config"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

// PosterLookup is the slice of the metadata service the submission engine
// needs: resolve a poster image URL for a title, best-effort.
type PosterLookup interface {
	LookupPoster(ctx context.Context, title string, year int) (string, error)
}

var ErrQueryTooShort = errors.New("search query must be at least 2 characters")

// UpstreamError carries the status of a failed movie-database call so the
// proxy endpoints can surface it as a structured payload.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("metadata upstream returned %d: %s", e.StatusCode, e.Message)
}

type MetadataService struct {
	config     *config.Config
	httpClient *http.Client
	redis      *redis.Client
}

type MovieSearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	PosterURL   string  `json:"poster_url,omitempty"`
	Overview    string  `json:"overview"`
	Popularity  float64 `json:"popularity"`
}

type MovieDetails struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Director  string `json:"director"`
	Studio    string `json:"studio"`
	Genres    string `json:"genres"`
	PosterURL string `json:"poster_url,omitempty"`
	Overview  string `json:"overview"`
}

// Raw TMDB payloads.
type tmdbSearchResponse struct {
	Results []MovieSearchResult `json:"results"`
}

type tmdbMovieResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	Overview    string `json:"overview"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ProductionCompanies []struct {
		Name string `json:"name"`
	} `json:"production_companies"`
	Credits struct {
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

type tmdbErrorResponse struct {
	StatusMessage string `json:"status_message"`
}

func NewMetadataService(cfg *config.Config, redisClient *redis.Client) *MetadataService {
	return &MetadataService{
		config:     cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		redis:      redisClient,
	}
}

// SearchMovies proxies a title search to the movie database. Results are
// cached; the API key stays server-side.
func (s *MetadataService) SearchMovies(ctx context.Context, query, year string) ([]MovieSearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}

	cacheKey := "tmdb:search:" + utils.HashString(strings.ToLower(query)+"|"+year)
	var cached tmdbSearchResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached.Results, nil
	}

	params := url.Values{}
	params.Set("api_key", s.config.TMDB.APIKey)
	params.Set("query", query)
	if year != "" {
		params.Set("year", year)
	}

	var response tmdbSearchResponse
	if err := s.get(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	for i := range response.Results {
		if response.Results[i].PosterPath != "" {
			response.Results[i].PosterURL = s.config.TMDB.ImageBaseURL + response.Results[i].PosterPath
		}
	}

	s.cacheSet(ctx, cacheKey, response, time.Duration(s.config.TMDB.SearchTTL)*time.Hour)
	return response.Results, nil
}

// GetMovieDetails fetches full metadata for one movie: director is the first
// crew member with job "Director", studio the first production company, and
// genres are joined as comma-separated text.
func (s *MetadataService) GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error) {
	cacheKey := fmt.Sprintf("tmdb:movie:%d", movieID)
	var cached MovieDetails
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	params := url.Values{}
	params.Set("api_key", s.config.TMDB.APIKey)
	params.Set("append_to_response", "credits")

	var response tmdbMovieResponse
	if err := s.get(ctx, fmt.Sprintf("/movie/%d", movieID), params, &response); err != nil {
		return nil, err
	}

	details := &MovieDetails{
		ID:       response.ID,
		Title:    response.Title,
		Overview: response.Overview,
	}

	if len(response.ReleaseDate) >= 4 {
		fmt.Sscanf(response.ReleaseDate[:4], "%d", &details.Year)
	}

	for _, crew := range response.Credits.Crew {
		if crew.Job == "Director" {
			details.Director = crew.Name
			break
		}
	}

	if len(response.ProductionCompanies) > 0 {
		details.Studio = response.ProductionCompanies[0].Name
	}

	genres := make([]string, 0, len(response.Genres))
	for _, genre := range response.Genres {
		genres = append(genres, genre.Name)
	}
	details.Genres = strings.Join(genres, ", ")

	if response.PosterPath != "" {
		details.PosterURL = s.config.TMDB.ImageBaseURL + response.PosterPath
	}

	s.cacheSet(ctx, cacheKey, details, time.Duration(s.config.TMDB.DetailsTTL)*time.Hour)
	return details, nil
}

// LookupPoster resolves a poster URL for a title, used to pre-fill new
// submissions. Best match wins; any failure just means no poster.
func (s *MetadataService) LookupPoster(ctx context.Context, title string, year int) (string, error) {
	yearStr := ""
	if year > 0 {
		yearStr = fmt.Sprintf("%d", year)
	}

	results, err := s.SearchMovies(ctx, title, yearStr)
	if err != nil {
		return "", err
	}

	for _, result := range results {
		if result.PosterURL != "" {
			return result.PosterURL, nil
		}
	}

	return "", nil
}

func (s *MetadataService) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	requestURL := s.config.TMDB.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build metadata request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read metadata response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var upstreamErr tmdbErrorResponse
		json.Unmarshal(body, &upstreamErr)
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    upstreamErr.StatusMessage,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode metadata response: %w", err)
	}

	return nil
}

func (s *MetadataService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.redis == nil {
		return false
	}

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).Warn("Metadata cache read failed")
		}
		return false
	}

	return json.Unmarshal(data, out) == nil
}

func (s *MetadataService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		logrus.WithError(err).Warn("Metadata cache write failed")
	}
}
