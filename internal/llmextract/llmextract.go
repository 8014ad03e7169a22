// Package llmextract sends a document to an LLM collaborator and parses the
// returned line items. The boundary is deliberately forgiving: a model that
// returns malformed JSON yields an empty result, never a propagated parse
// error. Transport failures are returned so the caller can degrade to
// table-only extraction.
package llmextract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/pricerhq/takeoff/internal/document"
	"github.com/pricerhq/takeoff/internal/providers"
)

// Extractor produces line items from a document.
type Extractor interface {
	Extract(ctx context.Context, doc document.Document) ([]document.LineItem, error)
}

// Config holds tunables for the LLM extraction call.
type Config struct {
	Model             string
	Timeout           time.Duration
	MaxAttempts       int
	RequestsPerMinute int
}

// Client is a provider-backed Extractor.
type Client struct {
	llm     providers.LLMClient
	limiter *providers.RateLimiter
	model   string
	timeout time.Duration
	retries uint
	logger  *slog.Logger
}

// NewClient creates an Extractor on top of an LLMClient.
func NewClient(llm providers.LLMClient, cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		llm:     llm,
		limiter: providers.NewRateLimiter(cfg.RequestsPerMinute),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		retries: uint(cfg.MaxAttempts),
		logger:  logger,
	}
}

// errMalformed marks responses that arrived but could not be understood.
// These are retried, and after the last attempt they degrade to an empty
// result instead of failing the pipeline.
var errMalformed = errors.New("malformed LLM response")

// Extract asks the model for line items. A nil error with an empty slice
// means the model responded but produced nothing usable.
func (c *Client) Extract(ctx context.Context, doc document.Document) ([]document.LineItem, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	userPayload, err := buildUserPayload(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build LLM payload: %w", err)
	}

	requestID := uuid.New().String()
	req := &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPayload},
		},
		Model:       c.model,
		Temperature: 0.1,
		ResponseFormat: &providers.ResponseFormat{
			Type:       "json_schema",
			JSONSchema: json.RawMessage(lineItemsSchema),
		},
		RequestID: requestID,
	}

	var items []document.LineItem
	err = retry.Do(
		func() error {
			result, chatErr := c.llm.Chat(ctx, req)
			if chatErr != nil {
				return chatErr
			}
			parsed, parseErr := parseWireItems(result)
			if parseErr != nil {
				return fmt.Errorf("%w: %v", errMalformed, parseErr)
			}
			items = parsed
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retries),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			c.logger.Warn("LLM extraction attempt failed",
				"attempt", attempt+1,
				"request_id", requestID,
				"error", err)
		}),
	)
	if err != nil {
		if errors.Is(err, errMalformed) {
			c.logger.Warn("LLM returned malformed line items, treating as empty",
				"request_id", requestID,
				"error", err)
			return nil, nil
		}
		return nil, err
	}

	c.logger.Debug("LLM extraction complete",
		"request_id", requestID,
		"items", len(items))
	return items, nil
}

// parseWireItems converts a chat result into line items. Any response that
// is not valid JSON of the expected shape is an error for the retry loop.
func parseWireItems(result *providers.ChatResult) ([]document.LineItem, error) {
	raw := result.ParsedJSON
	if len(raw) == 0 {
		parsed, err := providers.ParseStructuredJSON(result.Content)
		if err != nil {
			return nil, err
		}
		raw = parsed
	}

	if err := providers.ValidateStructuredJSON(json.RawMessage(lineItemsSchema), raw); err != nil {
		return nil, err
	}

	var wire wireResult
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode line items: %w", err)
	}

	items := make([]document.LineItem, 0, len(wire.LineItems))
	for _, w := range wire.LineItems {
		item := w.toLineItem()
		if item.Description == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
