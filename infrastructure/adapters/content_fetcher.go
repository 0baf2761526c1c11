package adapters

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/domain"
)

// ContentFetcher is the single HTTP seam every collaborator adapter goes
// through. It classifies failures into the pipeline taxonomy: transport
// errors and 5xx responses are communication failures, 404 maps to the
// not-found sentinel, anything else non-2xx is a generation failure.
type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
}

type contentFetcher struct {
	logger  outbound.LoggerPort
	client  *http.Client
	limiter *rate.Limiter
}

func NewContentFetcher(logger outbound.LoggerPort, requestsPerSecond float64) ContentFetcher {
	return &contentFetcher{
		logger:  logger,
		client:  &http.Client{Timeout: 120 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, &domain.CommunicationError{Cause: err}
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error(err, "failed to close the response body")
		}
	}(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		payload, _ := io.ReadAll(res.Body)
		c.logger.ErrorWithFields(nil, "HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  res.StatusCode,
			"message": string(payload),
		})
		switch {
		case res.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%s: %w", req.URL.Path, domain.ErrStatusNotFound)
		case res.StatusCode >= 500:
			return nil, &domain.CommunicationError{
				Cause: fmt.Errorf("server returned status %d", res.StatusCode),
			}
		default:
			return nil, &domain.GenerationError{
				Cause: fmt.Errorf("request rejected with status %d: %s", res.StatusCode, payload),
			}
		}
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.Error(err, "failed to read the response body")
		return nil, &domain.CommunicationError{Cause: err}
	}

	return payload, nil
}
