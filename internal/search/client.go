package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ragchat/internal/models"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var (
	ErrStatus = errors.New("unexpected status from search backend")
	ErrDecode = errors.New("search backend returned a non-JSON body")
)

// Request is an immutable snapshot of one submission. Category and Rerank
// are ignored for Self-RAG.
type Request struct {
	ID       string
	Query    string
	TopK     int
	Mode     models.RAGMode
	Category models.QueryCategory
	Rerank   bool
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the backend at baseURL. A zero timeout
// leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Target returns the path and query string for req. Parameter order is
// fixed to match what the backend documents.
func Target(req Request) string {
	query := url.PathEscape(req.Query)
	topK := strconv.Itoa(req.TopK)

	if req.Mode == models.ModeSelfRAG {
		return fmt.Sprintf("/search/self_rag/%s?top_k=%s", query, url.QueryEscape(topK))
	}
	return fmt.Sprintf("/search/adaptive_query/%s?k=%s&rerank_mode=%s&query_category=%s",
		query,
		url.QueryEscape(topK),
		strconv.FormatBool(req.Rerank),
		url.QueryEscape(string(req.Category)),
	)
}

func (c *Client) URL(req Request) string {
	return c.baseURL + Target(req)
}

// Search issues the GET for req and decodes the answer. A response whose
// ResourceCollection is not array-shaped still succeeds, with
// ResourcesValid set to false.
func (c *Client) Search(ctx context.Context, req Request) (models.SearchResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(req), nil)
	if err != nil {
		return models.SearchResult{}, errors.Wrap(err, "build search request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return models.SearchResult{}, errors.Wrap(err, "search request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.SearchResult{}, errors.Wrap(err, "read search response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.SearchResult{}, errors.Wrapf(ErrStatus, "status %d", resp.StatusCode)
	}

	return Decode(body)
}

// Decode parses a backend response body.
func Decode(body []byte) (models.SearchResult, error) {
	if !gjson.ValidBytes(body) {
		return models.SearchResult{}, ErrDecode
	}

	root := gjson.ParseBytes(body)
	result := models.SearchResult{
		Text: root.Get("text").String(),
	}

	rc := root.Get("ResourceCollection")
	if !rc.IsArray() {
		return result, nil
	}

	items := rc.Array()
	resources := make([]models.Resource, 0, len(items))
	for _, item := range items {
		// Non-object entries become empty cards so the count still matches
		resources = append(resources, models.Resource{
			Topic:     item.Get("topic").String(),
			Title:     item.Get("title").String(),
			Principle: item.Get("principle").String(),
		})
	}
	result.Resources = resources
	result.ResourcesValid = true
	return result, nil
}

// Health checks the backend root route, which answers "running".
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return errors.Wrap(err, "build health request")
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, "health request failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrStatus, "status %d", resp.StatusCode)
	}
	return nil
}
