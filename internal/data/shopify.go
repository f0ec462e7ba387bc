package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// shopifyRepo uploads articles through the Shopify admin REST API.
type shopifyRepo struct {
	shopDomain  string
	accessToken string
	blogID      string
	apiVersion  string
	client      *http.Client
}

// NewPublisherRepo creates a Shopify publisher repository.
func NewPublisherRepo(shopDomain, accessToken, blogID, apiVersion string) repo.PublisherRepo {
	return &shopifyRepo{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		blogID:      blogID,
		apiVersion:  apiVersion,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// newPublisherRepoForTest allows pointing the repo at a test server.
func newPublisherRepoForTest(baseURL string, client *http.Client) *shopifyRepo {
	return &shopifyRepo{
		shopDomain: baseURL,
		blogID:     "1",
		apiVersion: "2024-01",
		client:     client,
	}
}

type shopifyArticlePayload struct {
	Title       string             `json:"title"`
	BodyHTML    string             `json:"body_html"`
	SummaryHTML string             `json:"summary_html,omitempty"`
	Image       *shopifyImageInput `json:"image,omitempty"`
	Published   bool               `json:"published"`
}

type shopifyImageInput struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

type shopifyArticleResponse struct {
	Article struct {
		ID     int64  `json:"id"`
		Handle string `json:"handle"`
	} `json:"article"`
}

func (s *shopifyRepo) Publish(ctx context.Context, req *repo.PublishRequest) (*repo.PublishResponse, error) {
	payload := struct {
		Article shopifyArticlePayload `json:"article"`
	}{
		Article: shopifyArticlePayload{
			Title:       req.Title,
			BodyHTML:    req.BodyHTML,
			SummaryHTML: req.Excerpt,
			Published:   true,
		},
	}
	if req.Image != nil {
		payload.Article.Image = &shopifyImageInput{Src: req.Image.URL, Alt: req.Image.Alt}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &domain.PublishError{Err: fmt.Errorf("marshal article: %w", err)}
	}

	var result shopifyArticleResponse
	var pubErr *domain.PublishError
	err = retry.Do(
		func() error {
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.articlesURL(), bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			httpReq.Header.Set("Content-Type", "application/json")
			if s.accessToken != "" {
				httpReq.Header.Set("X-Shopify-Access-Token", s.accessToken)
			}

			resp, err := s.client.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			switch {
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return json.Unmarshal(respBody, &result)
			case resp.StatusCode == http.StatusUnprocessableEntity:
				// Validation rejection: retrying cannot help.
				pubErr = parseValidationErrors(respBody)
				return retry.Unrecoverable(pubErr)
			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				return retry.Unrecoverable(fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody))
			default:
				return fmt.Errorf("HTTP %d", resp.StatusCode)
			}
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if pubErr != nil {
			return nil, pubErr
		}
		return nil, &domain.PublishError{Err: err}
	}

	return &repo.PublishResponse{
		ExternalID: strconv.FormatInt(result.Article.ID, 10),
		Handle:     result.Article.Handle,
	}, nil
}

func (s *shopifyRepo) articlesURL() string {
	base := s.shopDomain
	if len(base) < 4 || base[:4] != "http" {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/admin/api/%s/blogs/%s/articles.json", base, s.apiVersion, s.blogID)
}

// parseValidationErrors turns a 422 body into a PublishError with
// field-level messages. Shopify returns either
// {"errors": {"field": ["msg", ...]}} or {"errors": "msg"}.
func parseValidationErrors(body []byte) *domain.PublishError {
	var fielded struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &fielded); err == nil && len(fielded.Errors) > 0 {
		fields := make([]string, 0, len(fielded.Errors))
		for field, msgs := range fielded.Errors {
			for _, msg := range msgs {
				fields = append(fields, field+" "+msg)
			}
		}
		sort.Strings(fields)
		return &domain.PublishError{Fields: fields}
	}

	var plain struct {
		Errors string `json:"errors"`
	}
	if err := json.Unmarshal(body, &plain); err == nil && plain.Errors != "" {
		return &domain.PublishError{Fields: []string{plain.Errors}}
	}

	return &domain.PublishError{Err: fmt.Errorf("validation failed: %s", body)}
}
