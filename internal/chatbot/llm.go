package chatbot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// LLMClient relays chat completions to an upstream LLM endpoint.
type LLMClient struct {
	url  string
	rest *resty.Client
}

// NewLLMClient builds a relay client for the given endpoint.
func NewLLMClient(url string, timeout time.Duration) *LLMClient {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second) // default fallback
	}
	return &LLMClient{url: url, rest: r}
}

type llmRequest struct {
	System  string `json:"system"`
	Context string `json:"context,omitempty"`
	Message string `json:"message"`
}

type llmResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Complete sends one completion request and returns the reply text.
func (c *LLMClient) Complete(ctx context.Context, system, contextStr, message string) (string, error) {
	respBody := &llmResponse{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(llmRequest{System: system, Context: contextStr, Message: message}).
		SetResult(respBody).
		Post(c.url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("llm relay: %s", resp.Status())
	}
	if respBody.Error != "" {
		return "", fmt.Errorf("llm relay: %s", respBody.Error)
	}
	if respBody.Response == "" {
		return "", fmt.Errorf("llm relay: empty response")
	}
	return respBody.Response, nil
}
