// Package mailchimp is a read-mostly Mailchimp API client for the
// public site: it lists sent campaigns, fetches campaign HTML, and
// subscribes readers to the newsletter list. Campaign data is memoized
// in process-local TTL caches, and upstream failures degrade to empty
// results so the newsletter pages never hard-fail on a flaky upstream.
package mailchimp

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

	"github.com/harlowpress/author-site/internal/config"
	"github.com/harlowpress/author-site/internal/pkg/httpretry"
	"github.com/harlowpress/author-site/internal/pkg/logger"
	"github.com/harlowpress/author-site/internal/pkg/ttlcache"
)

const (
	defaultServerPrefix = "us1"
	defaultListLimit    = 10

	campaignsKeyPrefix = "campaigns:"
	contentKeyPrefix   = "content:"
)

// Client is a Mailchimp API client with read-through caching
type Client struct {
	apiKey     string
	baseURL    string
	httpClient httpretry.HTTPDoer
	campaigns  *ttlcache.Cache[[]Campaign]
	content    *ttlcache.Cache[string]
}

// NewClient creates a new Mailchimp API client. The upstream host is
// derived from the API key's server prefix unless cfg.BaseURL overrides
// it (tests point it at a local server). An empty API key is tolerated:
// every operation then degrades per its documented failure policy.
func NewClient(cfg config.MailchimpConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0", ServerPrefix(cfg.APIKey))
	}
	ttl := cfg.CacheTTL()
	if ttl <= 0 {
		ttl = time.Hour
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpretry.NewRetryClient(&http.Client{Timeout: timeout}, 3),
		campaigns:  ttlcache.New[[]Campaign](ttl),
		content:    ttlcache.New[string](ttl),
	}
}

// ServerPrefix returns the data-center segment embedded in a Mailchimp
// API key: the part after the last dash ("abc123-us7" yields "us7").
// Keys without a dash fall back to "us1". The prefix determines the
// upstream hostname, so this derivation must stay exact.
func ServerPrefix(apiKey string) string {
	if i := strings.LastIndex(apiKey, "-"); i >= 0 && i+1 < len(apiKey) {
		return apiKey[i+1:]
	}
	return defaultServerPrefix
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// APIError is a non-2xx upstream response. Detail carries Mailchimp's
// human-readable message when the error body could be parsed.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("mailchimp API error: status %d", e.StatusCode)
}

// doRequest makes an HTTP request to the Mailchimp API with Basic Auth.
// Mailchimp ignores the username; only the password (the API key) matters.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth("anystring", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(respBody, &errBody)
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: errBody.Detail}
	}

	return respBody, nil
}

// GetCampaigns returns up to limit sent campaigns, newest send first.
// The result is served from cache when fresh. Any upstream failure
// (transport error, non-2xx, malformed body) degrades to an empty
// slice: the newsletter archive renders "no emails found" rather than
// an error page.
func (c *Client) GetCampaigns(ctx context.Context, limit int) []Campaign {
	if limit <= 0 {
		limit = defaultListLimit
	}
	cacheKey := fmt.Sprintf("%s%d", campaignsKeyPrefix, limit)

	if cached, ok := c.campaigns.Get(cacheKey); ok {
		return cached
	}

	if !c.Configured() {
		logger.Warn("mailchimp API key not configured, returning no campaigns")
		return []Campaign{}
	}

	params := url.Values{}
	params.Set("count", fmt.Sprintf("%d", limit))
	params.Set("sort_field", "send_time")
	params.Set("sort_dir", "DESC")
	params.Set("status", "sent")

	body, err := c.doRequest(ctx, http.MethodGet, "/campaigns?"+params.Encode(), nil)
	if err != nil {
		logger.Warn("fetching campaigns failed", "error", err.Error())
		return []Campaign{}
	}

	var resp campaignsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Warn("parsing campaigns response failed", "error", err.Error())
		return []Campaign{}
	}

	campaigns := make([]Campaign, 0, len(resp.Campaigns))
	for _, ac := range resp.Campaigns {
		campaigns = append(campaigns, Campaign{
			ID:             ac.ID,
			WebID:          ac.WebID,
			Type:           ac.Type,
			CreateTime:     ac.CreateTime,
			ArchiveURL:     ac.ArchiveURL,
			Status:         ac.Status,
			EmailsSent:     ac.EmailsSent,
			SendTime:       ac.SendTime,
			ContentUpdated: ac.ContentUpdated,
			SubjectLine:    ac.Settings.SubjectLine,
			Title:          ac.Settings.Title,
			FromName:       ac.Settings.FromName,
			ReplyTo:        ac.Settings.ReplyTo,
		})
	}

	c.campaigns.Set(cacheKey, campaigns)
	return campaigns
}

// GetCampaignContent returns the raw HTML body for one campaign.
// A missing or empty body reports ok=false and is never cached, so a
// later retry is not suppressed by a cached negative.
func (c *Client) GetCampaignContent(ctx context.Context, campaignID string) (string, bool) {
	cacheKey := contentKeyPrefix + campaignID

	if cached, ok := c.content.Get(cacheKey); ok {
		return cached, true
	}

	if !c.Configured() {
		logger.Warn("mailchimp API key not configured, returning no content", "campaign", campaignID)
		return "", false
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/campaigns/"+url.PathEscape(campaignID)+"/content", nil)
	if err != nil {
		logger.Warn("fetching campaign content failed", "campaign", campaignID, "error", err.Error())
		return "", false
	}

	var resp contentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Warn("parsing campaign content failed", "campaign", campaignID, "error", err.Error())
		return "", false
	}
	if resp.HTML == "" {
		return "", false
	}

	c.content.Set(cacheKey, resp.HTML)
	return resp.HTML, true
}

// RefreshCampaigns drops the cached campaign list for limit and
// refetches, guaranteeing an upstream round trip regardless of TTL.
func (c *Client) RefreshCampaigns(ctx context.Context, limit int) []Campaign {
	if limit <= 0 {
		limit = defaultListLimit
	}
	c.campaigns.Delete(fmt.Sprintf("%s%d", campaignsKeyPrefix, limit))
	return c.GetCampaigns(ctx, limit)
}

// RefreshCampaignContent is the forced-refresh variant of
// GetCampaignContent.
func (c *Client) RefreshCampaignContent(ctx context.Context, campaignID string) (string, bool) {
	c.content.Delete(contentKeyPrefix + campaignID)
	return c.GetCampaignContent(ctx, campaignID)
}

// Subscribe adds email to the given list with status "subscribed".
// All failure modes come back as a SubscribeResult value; a duplicate
// signup is reported with a reader-appropriate message rather than the
// raw upstream wording.
func (c *Client) Subscribe(ctx context.Context, listID, email, firstName, lastName string) SubscribeResult {
	if !c.Configured() || listID == "" {
		return SubscribeResult{Success: false, Error: "Newsletter signup is not configured"}
	}

	reqBody := memberRequest{
		EmailAddress: email,
		Status:       "subscribed",
		MergeFields:  mergeFields{FirstName: firstName, LastName: lastName},
	}

	_, err := c.doRequest(ctx, http.MethodPost, "/lists/"+url.PathEscape(listID)+"/members", reqBody)
	if err == nil {
		logger.Info("newsletter subscription created", "email", email, "list", listID)
		return SubscribeResult{Success: true}
	}

	if isAlreadyMember(err) {
		return SubscribeResult{Success: false, Error: "This email is already subscribed"}
	}

	logger.Warn("newsletter subscription failed", "email", email, "error", err.Error())
	if apiErr, ok := err.(*APIError); ok && apiErr.Detail != "" {
		return SubscribeResult{Success: false, Error: apiErr.Detail}
	}
	return SubscribeResult{Success: false, Error: "Failed to subscribe"}
}

// isAlreadyMember classifies a duplicate signup by inspecting the
// upstream message, because Mailchimp reports this condition with a
// generic 400 and no structured code. The substring match is brittle
// against upstream wording changes; keeping it in one predicate keeps
// it a single point of change.
func isAlreadyMember(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Detail), "already a list member")
}
