// Package openai adapts any OpenAI-compatible chat-completions endpoint
// (OpenAI, DeepSeek, and the like) to the provider contract.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
	apperrors "github.com/sweetpotato0/deepread/errors"
	"github.com/sweetpotato0/deepread/message"
	"github.com/sweetpotato0/deepread/provider"
)

// Config holds OpenAI provider configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// WithBaseURL set BaseURL.
func (cfg *Config) WithBaseURL(url string) *Config {
	cfg.BaseURL = url
	return cfg
}

// WithAPIKey set api key.
func (cfg *Config) WithAPIKey(apiKey string) *Config {
	cfg.APIKey = apiKey
	return cfg
}

// WithModel set model.
func (cfg *Config) WithModel(model string) *Config {
	cfg.Model = model
	return cfg
}

// DefaultConfig returns default OpenAI configuration
func DefaultConfig() *Config {
	return &Config{
		Model:       "gpt-4o-mini",
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Client implements the provider.Client interface for OpenAI-compatible APIs
type Client struct {
	config *Config
	client openai.Client
}

// New creates a new OpenAI provider using the official SDK
func New(config *Config) *Client {
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}

	return &Client{
		config: config,
		client: openai.NewClient(options...),
	}
}

// Stream implements provider.Client. Tool-call argument fragments are passed
// through raw; finalization belongs to the caller's accumulator.
func (c *Client) Stream(ctx context.Context, req *provider.Request) iter.Seq2[*provider.Chunk, error] {
	return func(yield func(*provider.Chunk, error) bool) {
		if req == nil {
			yield(nil, fmt.Errorf("stream request cannot be nil"))
			return
		}

		params, err := c.buildParams(req)
		if err != nil {
			yield(nil, err)
			return
		}

		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			if len(event.Choices) == 0 {
				continue
			}
			choice := event.Choices[0]

			chunk := &provider.Chunk{
				Text:         choice.Delta.Content,
				FinishReason: mapFinishReason(choice.FinishReason),
			}

			// DeepSeek-style reasoning arrives as an extra delta field.
			if f, ok := choice.Delta.JSON.ExtraFields["reasoning_content"]; ok {
				var reasoning string
				if err := json.Unmarshal([]byte(f.Raw()), &reasoning); err == nil {
					chunk.Reasoning = reasoning
				}
			}

			for _, tc := range choice.Delta.ToolCalls {
				chunk.ToolCalls = append(chunk.ToolCalls, provider.ToolCallDelta{
					Index:     int(tc.Index),
					ID:        tc.ID,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				})
			}

			if chunk.Text == "" && chunk.Reasoning == "" &&
				len(chunk.ToolCalls) == 0 && chunk.FinishReason == provider.FinishNone {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			yield(nil, fmt.Errorf("%w: openai: %v", apperrors.ErrStreamInterrupted, err))
		}
	}
}

func (c *Client) buildParams(req *provider.Request) (openai.ChatCompletionNewParams, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case message.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case message.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case message.RoleAssistant:
			assistantMsg := openai.AssistantMessage(msg.Content)
			if len(msg.ToolCalls) > 0 && assistantMsg.OfAssistant != nil {
				assistantMsg.OfAssistant.ToolCalls = encodeToolCalls(msg.ToolCalls)
			}
			messages = append(messages, assistantMsg)
		case message.RoleTool:
			messages = append(messages, openai.ToolMessage(msg.Content, msg.ToolID))
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    shared.ChatModel(c.config.Model),
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.config.Temperature
	}
	if temperature > 0 {
		params.Temperature = param.NewOpt(temperature)
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(maxTokens)
	}

	for _, schema := range req.Tools {
		params.Tools = append(params.Tools, openai.ChatCompletionFunctionTool(
			shared.FunctionDefinitionParam{
				Name:        schema.Name,
				Description: param.NewOpt(schema.Description),
				Parameters:  shared.FunctionParameters(schema.Parameters),
			},
		))
	}

	return params, nil
}

func encodeToolCalls(calls []message.ToolCall) []openai.ChatCompletionMessageToolCallUnionParam {
	params := make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(calls))
	for _, tc := range calls {
		arguments := tc.RawArguments
		if arguments == "" {
			raw, err := json.Marshal(tc.Args)
			if err != nil {
				raw = []byte("{}")
			}
			arguments = string(raw)
		}
		params = append(params, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: tc.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      tc.Name,
					Arguments: arguments,
				},
			},
		})
	}
	return params
}

func mapFinishReason(reason string) provider.FinishReason {
	switch reason {
	case "":
		return provider.FinishNone
	case "tool_calls":
		return provider.FinishToolCalls
	case "length":
		return provider.FinishLength
	default:
		return provider.FinishStop
	}
}
