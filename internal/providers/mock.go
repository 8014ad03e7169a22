package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // fail after N requests (0 = never)
	ResponseText string
	ResponseJSON json.RawMessage

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// RequestCount returns how many Chat calls were made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Chat returns the configured response, honoring latency, failure settings
// and context cancellation.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	n := c.requestCount.Add(1)

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Latency):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.ShouldFail || (c.FailAfter > 0 && n > int64(c.FailAfter)) {
		return &ChatResult{
			RequestID:    req.RequestID,
			Provider:     MockClientName,
			ErrorType:    "mock_failure",
			ErrorMessage: "mock client configured to fail",
		}, fmt.Errorf("mock client configured to fail")
	}

	result := &ChatResult{
		RequestID: req.RequestID,
		Provider:  MockClientName,
		ModelUsed: "mock-model",
		Success:   true,
	}
	if len(c.ResponseJSON) > 0 {
		result.Content = string(c.ResponseJSON)
		result.ParsedJSON = c.ResponseJSON
	} else {
		result.Content = c.ResponseText
	}
	return result, nil
}
