package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/config"
	"verse-scene-api/domain"
)

type verseApiResponse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// verseTextFetcher resolves verse text over HTTP and memoizes responses for
// the session: generating narration twice for the same verse, or stepping
// back to a verse already visited, must not hit the upstream again.
type verseTextFetcher struct {
	ContentFetcher
	logger      outbound.LoggerPort
	verseConfig *config.VerseConfig
	cache       *gocache.Cache
}

func NewVerseTextFetcher(contentFetcher ContentFetcher, verseConfig *config.VerseConfig, logger outbound.LoggerPort) outbound.VerseTextPort {
	ttl := time.Duration(verseConfig.CacheTtlMinutes) * time.Minute
	return &verseTextFetcher{
		ContentFetcher: contentFetcher,
		logger:         logger,
		verseConfig:    verseConfig,
		cache:          gocache.New(ttl, 2*ttl),
	}
}

func (v *verseTextFetcher) Fetch(ctx context.Context, reference string, languageCode string) (string, error) {
	cacheKey := languageCode + "|" + reference
	if cached, found := v.cache.Get(cacheKey); found {
		return cached.(string), nil
	}

	httpReq, err := v.getRequest(ctx, reference, languageCode)
	if err != nil {
		v.logger.Error(err, "failed to create the verse lookup request")
		return "", err
	}

	rawRes, err := v.FetchContent(httpReq)
	if err != nil {
		return "", err
	}

	var verseRes verseApiResponse
	if err := json.Unmarshal(rawRes, &verseRes); err != nil {
		v.logger.Error(err, "failed to unmarshal the verse response")
		return "", &domain.GenerationError{Stage: domain.StageVerseText, Cause: err}
	}
	if verseRes.Text == "" {
		return "", &domain.VerseNotFoundError{Reference: reference, Stage: domain.StageVerseText}
	}

	v.cache.SetDefault(cacheKey, verseRes.Text)
	return verseRes.Text, nil
}

func (v *verseTextFetcher) getRequest(ctx context.Context, reference string, languageCode string) (*http.Request, error) {
	lookupUrl := fmt.Sprintf("%s?reference=%s&language=%s",
		v.verseConfig.ApiUrl, url.QueryEscape(reference), url.QueryEscape(languageCode))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", lookupUrl, nil)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("api-key", v.verseConfig.ApiKey)
	httpReq.Header.Set("Accept", "application/json")

	return httpReq, nil
}
