package popularity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pders01/flick/internal/catalog"
	"github.com/pders01/flick/internal/config"
)

// AppwriteStore keeps search counts as documents in an Appwrite collection,
// spoken to over its REST API.
type AppwriteStore struct {
	endpoint   string
	projectID  string
	apiKey     string
	documents  string
	imageBase  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// query is an Appwrite JSON query, sent as a queries[] parameter.
type query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

type document struct {
	ID         string `json:"$id"`
	SearchTerm string `json:"searchTerm"`
	Count      int    `json:"count"`
	MovieID    int    `json:"movie_id"`
	PosterURL  string `json:"poster_url"`
	Title      string `json:"title"`
	UpdatedAt  string `json:"$updatedAt,omitempty"`
}

type documentList struct {
	Total     int        `json:"total"`
	Documents []document `json:"documents"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func NewAppwriteStore(cfg config.AppwriteConfig, imageBase string, logger zerolog.Logger) *AppwriteStore {
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	return &AppwriteStore{
		endpoint:  endpoint,
		projectID: cfg.ProjectID,
		apiKey:    cfg.APIKey,
		documents: fmt.Sprintf("/databases/%s/collections/%s/documents",
			url.PathEscape(cfg.DatabaseID), url.PathEscape(cfg.CollectionID)),
		imageBase: imageBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "appwrite").Logger(),
	}
}

func (s *AppwriteStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *AppwriteStore) RecordSearch(ctx context.Context, term string, movie catalog.Movie) error {
	existing, err := s.find(ctx, term)
	if err != nil {
		return err
	}

	if existing != nil {
		payload := map[string]any{
			"data": map[string]any{"count": existing.Count + 1},
		}
		if err := s.do(ctx, http.MethodPatch, s.documents+"/"+url.PathEscape(existing.ID), nil, payload, nil); err != nil {
			return fmt.Errorf("updating search count: %w", err)
		}
		s.logger.Debug().Str("term", term).Int("count", existing.Count+1).Msg("search count incremented")
		return nil
	}

	payload := map[string]any{
		"documentId": "unique()",
		"data": map[string]any{
			"searchTerm": term,
			"count":      1,
			"movie_id":   movie.ID,
			"title":      movie.Title,
			"poster_url": movie.PosterURL(s.imageBase),
		},
	}
	if err := s.do(ctx, http.MethodPost, s.documents, nil, payload, nil); err != nil {
		return fmt.Errorf("creating search record: %w", err)
	}
	s.logger.Debug().Str("term", term).Msg("search record created")
	return nil
}

func (s *AppwriteStore) Trending(ctx context.Context, limit int) ([]TrendingEntry, error) {
	queries := []query{{Method: "orderDesc", Attribute: "count"}}
	if limit > 0 {
		queries = append(queries, query{Method: "limit", Values: []any{limit}})
	}

	var list documentList
	if err := s.do(ctx, http.MethodGet, s.documents, queries, nil, &list); err != nil {
		return nil, fmt.Errorf("listing trending searches: %w", err)
	}

	records := make([]Record, 0, len(list.Documents))
	for _, d := range list.Documents {
		records = append(records, d.record())
	}
	return rank(records), nil
}

func (s *AppwriteStore) find(ctx context.Context, term string) (*document, error) {
	queries := []query{{Method: "equal", Attribute: "searchTerm", Values: []any{term}}}

	var list documentList
	if err := s.do(ctx, http.MethodGet, s.documents, queries, nil, &list); err != nil {
		return nil, fmt.Errorf("looking up search term: %w", err)
	}
	if len(list.Documents) == 0 {
		return nil, nil
	}
	return &list.Documents[0], nil
}

func (s *AppwriteStore) do(ctx context.Context, method, path string, queries []query, payload any, out any) error {
	target := s.endpoint + path
	if len(queries) > 0 {
		params := url.Values{}
		for _, q := range queries {
			encoded, err := json.Marshal(q)
			if err != nil {
				return fmt.Errorf("encoding query: %w", err)
			}
			params.Add("queries[]", string(encoded))
		}
		target += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Appwrite-Project", s.projectID)
	if s.apiKey != "" {
		req.Header.Set("X-Appwrite-Key", s.apiKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil && eb.Message != "" {
			apiErr.Message = eb.Message
			apiErr.Type = eb.Type
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (d document) record() Record {
	rec := Record{
		ID:         d.ID,
		SearchTerm: d.SearchTerm,
		Count:      d.Count,
		MovieID:    d.MovieID,
		PosterURL:  d.PosterURL,
		Title:      d.Title,
	}
	if t, err := time.Parse(time.RFC3339Nano, d.UpdatedAt); err == nil {
		rec.UpdatedAt = t
	}
	return rec
}
