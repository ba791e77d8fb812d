package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"linkmark/internal/apperrors"
	"linkmark/internal/metrics"
	"linkmark/internal/models"
)

// metaUserAgent identifies the fetcher to target sites.
const metaUserAgent = "Mozilla/5.0 (compatible; BookmarkBot/1.0)"

// MetaService fetches a page once per invocation and extracts best-effort
// preview metadata. No retry, no caching; the caller proceeds without metadata
// on failure.
type MetaService interface {
	Fetch(ctx context.Context, rawURL string) (*models.PageMeta, error)
}

type metaServiceImpl struct {
	client *http.Client
}

func NewMetaService(client *http.Client) MetaService {
	if client == nil {
		client = http.DefaultClient
	}
	return &metaServiceImpl{client: client}
}

func (s *metaServiceImpl) Fetch(ctx context.Context, rawURL string) (*models.PageMeta, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url is required", apperrors.ErrValidation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("Invalid URL for metadata fetch")
		return nil, fmt.Errorf("%w: invalid url", apperrors.ErrValidation)
	}
	req.Header.Set("User-Agent", metaUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.MetaFetchTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("url", rawURL).Msg("Metadata fetch failed")
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.MetaFetchTotal.WithLabelValues("fetch_error").Inc()
		log.Warn().Int("status", resp.StatusCode).Str("url", rawURL).Msg("Metadata fetch returned non-success status")
		return nil, apperrors.ErrFetch
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		metrics.MetaFetchTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("url", rawURL).Msg("Failed to parse fetched HTML")
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	// Open Graph first, then the conventional tags, then the raw URL.
	title := doc.Find(`meta[property="og:title"]`).AttrOr("content", "")
	if title == "" {
		title = doc.Find("title").First().Text()
	}
	if title == "" {
		title = rawURL
	}

	description := doc.Find(`meta[property="og:description"]`).AttrOr("content", "")
	if description == "" {
		description = doc.Find(`meta[name="description"]`).AttrOr("content", "")
	}

	imageURL := doc.Find(`meta[property="og:image"]`).AttrOr("content", "")

	metrics.MetaFetchTotal.WithLabelValues("success").Inc()
	log.Debug().Str("url", rawURL).Str("title", title).Msg("Extracted page metadata")

	return &models.PageMeta{
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
	}, nil
}
