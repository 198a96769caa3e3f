package elevenlabs

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/code-100-precent/LingSync/pkg/apperr"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL  = "https://api.elevenlabs.io/v1"
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 100

	KindAgents        = "agents"
	KindConversations = "conversations"
)

// Record is one raw provider object, exactly as decoded
type Record = map[string]any

// Config ElevenLabs Conversational AI client settings
type Config struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	PageSize int
}

// ConversationQuery narrows a conversation listing
type ConversationQuery struct {
	AgentID string
}

// Client fetches agents and conversations from the provider.
// It tolerates the current /convai endpoints and the older unprefixed ones.
type Client struct {
	opt    Config
	client *resty.Client
}

func NewClient(opt Config) *Client {
	if opt.BaseURL == "" {
		opt.BaseURL = DefaultBaseURL
	}
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	if opt.PageSize <= 0 {
		opt.PageSize = DefaultPageSize
	}

	if opt.APIKey == "" {
		logrus.WithField("provider", "elevenlabs").Warn("elevenlabs: missing ELEVENLABS_API_KEY")
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opt.BaseURL, "/")).
		SetTimeout(opt.Timeout).
		SetHeader("xi-api-key", opt.APIKey).
		SetHeader("Accept", "application/json")

	return &Client{opt: opt, client: client}
}

// FetchAgents lists agents, falling back to the legacy endpoint on 404
func (c *Client) FetchAgents(ctx context.Context) ([]Record, error) {
	params := map[string]string{
		"page_size": strconv.Itoa(c.opt.PageSize),
	}
	return c.fetch(ctx, KindAgents, "/convai/agents", "/agents", params, nil)
}

// FetchConversations lists conversations, optionally filtered by agent
func (c *Client) FetchConversations(ctx context.Context, q ConversationQuery) ([]Record, error) {
	params := map[string]string{
		"page_size":    strconv.Itoa(c.opt.PageSize),
		"summary_mode": "exclude",
	}
	legacy := map[string]string{}
	if q.AgentID != "" {
		params["agent_id"] = q.AgentID
		legacy["agent_id"] = q.AgentID
	}
	return c.fetch(ctx, KindConversations, "/convai/conversations", "/conversations", params, legacy)
}

func (c *Client) fetch(ctx context.Context, kind, primary, legacy string, params, legacyParams map[string]string) ([]Record, error) {
	start := time.Now()
	status, body, err := c.get(ctx, primary, params)
	if err != nil {
		return nil, apperr.NewRemoteFetchError(kind, primary, 0, err)
	}

	endpoint := primary
	if status == http.StatusNotFound {
		logrus.WithFields(logrus.Fields{
			"provider": "elevenlabs",
			"kind":     kind,
			"endpoint": legacy,
		}).Info("elevenlabs: primary endpoint not found, using legacy endpoint")

		endpoint = legacy
		status, body, err = c.get(ctx, legacy, legacyParams)
		if err != nil {
			return nil, apperr.NewRemoteFetchError(kind, legacy, 0, err)
		}
	}

	if status < 200 || status > 299 {
		logrus.WithFields(logrus.Fields{
			"provider": "elevenlabs",
			"kind":     kind,
			"endpoint": endpoint,
			"status":   status,
		}).Warn("elevenlabs: fetch failed")
		return nil, apperr.NewRemoteFetchError(kind, endpoint, status, nil)
	}

	// a 2xx body that is not JSON carries no records
	var payload any
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &payload); err != nil {
			logrus.WithFields(logrus.Fields{
				"provider": "elevenlabs",
				"kind":     kind,
				"endpoint": endpoint,
				"status":   status,
			}).WithError(err).Warn("elevenlabs: undecodable response body, treating as empty")
			payload = nil
		}
	}

	records := ExtractList(payload, kind)
	logrus.WithFields(logrus.Fields{
		"provider": "elevenlabs",
		"kind":     kind,
		"endpoint": endpoint,
		"count":    len(records),
		"latency":  time.Since(start).String(),
	}).Debug("elevenlabs: fetch completed")
	return records, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) (int, []byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode(), resp.Body(), nil
}

// ExtractList pulls the record list out of a decoded payload.
// Accepted shapes are {key: [...]}, {data: [...]} and a bare array; anything else yields an empty list.
// Non-object elements are skipped.
func ExtractList(payload any, key string) []Record {
	var items []any
	switch v := payload.(type) {
	case map[string]any:
		if list, ok := v[key].([]any); ok {
			items = list
		} else if list, ok := v["data"].([]any); ok {
			items = list
		}
	case []any:
		items = v
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records
}
