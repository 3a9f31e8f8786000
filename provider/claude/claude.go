// Package claude adapts the Anthropic Messages API to the provider contract.
package claude

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	apperrors "github.com/sweetpotato0/deepread/errors"
	"github.com/sweetpotato0/deepread/message"
	"github.com/sweetpotato0/deepread/provider"
)

// Config holds Claude provider configuration
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int64
	Temperature float64
}

// DefaultConfig returns default Claude configuration
func DefaultConfig(apiKey, baseURL string) *Config {
	return &Config{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       "claude-3-5-sonnet-20241022",
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// WithModel set model.
func (cfg *Config) WithModel(model string) *Config {
	cfg.Model = model
	return cfg
}

// WithMaxTokens set the completion token ceiling.
func (cfg *Config) WithMaxTokens(n int64) *Config {
	cfg.MaxTokens = n
	return cfg
}

// Client implements the provider.Client interface for Claude
type Client struct {
	config *Config
	client anthropic.Client
}

// New creates a new Claude provider using the official SDK
func New(config *Config) *Client {
	if config.Model == "" {
		config.Model = "claude-3-5-sonnet-20241022"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}

	return &Client{
		config: config,
		client: anthropic.NewClient(options...),
	}
}

// Stream implements provider.Client. Tool-use input fragments are forwarded
// raw (partial JSON), keyed by the content-block index.
func (c *Client) Stream(ctx context.Context, req *provider.Request) iter.Seq2[*provider.Chunk, error] {
	return func(yield func(*provider.Chunk, error) bool) {
		if req == nil {
			yield(nil, fmt.Errorf("stream request cannot be nil"))
			return
		}

		params := c.buildParams(req)
		stream := c.client.Messages.NewStreaming(ctx, params)
		defer stream.Close()

		sawToolUse := false
		finish := provider.FinishStop

		for stream.Next() {
			event := stream.Current()

			switch event.Type {
			case "content_block_start":
				start := event.AsContentBlockStart()
				if start.ContentBlock.Type == "tool_use" {
					sawToolUse = true
					chunk := &provider.Chunk{ToolCalls: []provider.ToolCallDelta{{
						Index: int(start.Index),
						ID:    start.ContentBlock.ID,
						Name:  start.ContentBlock.Name,
					}}}
					if !yield(chunk, nil) {
						return
					}
				}
			case "content_block_delta":
				delta := event.AsContentBlockDelta()
				switch delta.Delta.Type {
				case "text_delta":
					if delta.Delta.Text != "" {
						if !yield(&provider.Chunk{Text: delta.Delta.Text}, nil) {
							return
						}
					}
				case "thinking_delta":
					if delta.Delta.Thinking != "" {
						if !yield(&provider.Chunk{Reasoning: delta.Delta.Thinking}, nil) {
							return
						}
					}
				case "input_json_delta":
					if delta.Delta.PartialJSON != "" {
						chunk := &provider.Chunk{ToolCalls: []provider.ToolCallDelta{{
							Index:     int(delta.Index),
							Arguments: delta.Delta.PartialJSON,
						}}}
						if !yield(chunk, nil) {
							return
						}
					}
				}
			case "message_delta":
				md := event.AsMessageDelta()
				finish = mapStopReason(string(md.Delta.StopReason), sawToolUse)
			}
		}

		if err := stream.Err(); err != nil {
			yield(nil, fmt.Errorf("%w: claude: %v", apperrors.ErrStreamInterrupted, err))
			return
		}

		yield(&provider.Chunk{FinishReason: finish}, nil)
	}
}

func (c *Client) buildParams(req *provider.Request) anthropic.MessageNewParams {
	var systemPrompts []string
	conversation := make([]anthropic.MessageParam, 0, len(req.Messages))

	for _, msg := range req.Messages {
		switch msg.Role {
		case message.RoleSystem:
			systemPrompts = append(systemPrompts, msg.Content)
		case message.RoleUser:
			conversation = append(conversation,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case message.RoleAssistant:
			conversation = append(conversation, encodeAssistant(msg))
		case message.RoleTool:
			conversation = append(conversation,
				anthropic.NewUserMessage(anthropic.NewToolResultBlock(msg.ToolID, msg.Content, false)))
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		Messages:  conversation,
		MaxTokens: maxTokens,
	}

	if len(systemPrompts) > 0 {
		params.System = []anthropic.TextBlockParam{
			{Text: strings.Join(systemPrompts, "\n")},
		}
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.config.Temperature
	}
	if temperature > 0 {
		params.Temperature = param.NewOpt(temperature)
	}

	for _, schema := range req.Tools {
		toolParam := anthropic.ToolParam{
			Name:        schema.Name,
			Description: anthropic.String(schema.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema.Parameters["properties"],
			},
		}
		if required, ok := schema.Parameters["required"].([]string); ok {
			toolParam.InputSchema.Required = required
		}
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{OfTool: &toolParam})
	}

	return params
}

func encodeAssistant(msg *message.Message) anthropic.MessageParam {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.ToolCalls))
	if msg.Content != "" {
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		input := any(tc.Args)
		blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
	}
	if len(blocks) == 0 {
		blocks = append(blocks, anthropic.NewTextBlock(""))
	}
	return anthropic.NewAssistantMessage(blocks...)
}

func mapStopReason(reason string, sawToolUse bool) provider.FinishReason {
	switch reason {
	case "tool_use":
		return provider.FinishToolCalls
	case "max_tokens":
		return provider.FinishLength
	case "":
		if sawToolUse {
			return provider.FinishToolCalls
		}
		return provider.FinishStop
	default:
		return provider.FinishStop
	}
}
