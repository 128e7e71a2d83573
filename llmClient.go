package careermentor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
)

const (
	DefaultBaseURL       = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel         = "gemini-2.0-flash"
	DefaultMaxToolRounds = 4
)

// Define a custom type for context keys
type ContextKey string

// LLMConfig is the process-wide completion configuration.
type LLMConfig struct {
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// Tracing attaches session identifiers to upstream requests.
	Tracing       bool `yaml:"tracing"`
	MaxToolRounds int  `yaml:"max_tool_rounds"`
}

// LLM is a Completer backed by an OpenAI-compatible chat-completions endpoint.
type LLM struct {
	config LLMConfig
	client openai.Client
	logger *slog.Logger
}

var _ Completer = &LLM{}

func NewLLM(config LLMConfig, opts ...option.RequestOption) *LLM {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.MaxToolRounds <= 0 {
		config.MaxToolRounds = DefaultMaxToolRounds
	}
	opts = append([]option.RequestOption{
		option.WithBaseURL(config.BaseURL),
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &LLM{
		config: config,
		client: openai.NewClient(opts...),
		logger: slog.Default(),
	}
}

func (c *LLM) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

func (c *LLM) Model() string {
	return c.config.Model
}

func (c *LLM) optsWithIds(ctx context.Context) []option.RequestOption {
	opts := []option.RequestOption{}
	if !c.config.Tracing {
		return opts
	}
	if sessionID, ok := ctx.Value(ContextKey("sessionID")).(string); ok {
		opts = append(opts, option.WithHeader("X-Session-Id", sessionID))
	}
	if turnID, ok := ctx.Value(ContextKey("turnID")).(string); ok {
		opts = append(opts, option.WithHeader("X-Turn-Id", turnID))
	}
	return opts
}

func (c *LLM) NewStreaming(ctx context.Context, params openai.ChatCompletionNewParams) *ssestream.Stream[openai.ChatCompletionChunk] {
	return c.client.Chat.Completions.NewStreaming(ctx, params, c.optsWithIds(ctx)...)
}

// Stream implements Completer. Tool calls requested by the model are executed
// between completions and only text deltas are surfaced as fragments.
func (c *LLM) Stream(ctx context.Context, ag *Agent, history []Message) FragmentStream {
	s := &replyStream{
		ctx:    ctx,
		llm:    c,
		agent:  ag,
		logger: c.logger.With("agent", ag.Name()),
	}
	systemPrompt, err := ag.SystemPrompt()
	if err != nil {
		s.err = providerError("render system prompt", err)
		return s
	}
	s.messages = NewMessageList(systemPrompt, history)
	return s
}

type replyStream struct {
	ctx    context.Context
	llm    *LLM
	agent  *Agent
	logger *slog.Logger

	messages *MessageList
	stream   *ssestream.Stream[openai.ChatCompletionChunk]
	acc      openai.ChatCompletionAccumulator
	rounds   int

	current string
	usage   Usage
	err     error
	done    bool
}

func (s *replyStream) params() openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages: s.messages.All(),
		Model:    openai.ChatModel(s.llm.config.Model),
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	}
	if tools := s.agent.ToolParams(); len(tools) > 0 {
		params.Tools = tools
	}
	return params
}

func (s *replyStream) Next() bool {
	for {
		if s.err != nil || s.done {
			return false
		}

		if s.stream == nil {
			if s.rounds > s.llm.config.MaxToolRounds {
				s.err = providerError("stream", fmt.Errorf("%w: stopped after %d", ErrTooManyToolRounds, s.llm.config.MaxToolRounds))
				return false
			}
			s.stream = s.llm.NewStreaming(s.ctx, s.params())
			s.acc = openai.ChatCompletionAccumulator{}
			s.rounds++
		}

		if s.stream.Next() {
			chunk := s.stream.Current()
			s.acc.AddChunk(chunk)
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				s.current = chunk.Choices[0].Delta.Content
				return true
			}
			continue
		}

		err := s.stream.Err()
		s.stream.Close()
		s.stream = nil
		s.usage.Add(Usage{
			InputTokens:  s.acc.Usage.PromptTokens,
			OutputTokens: s.acc.Usage.CompletionTokens,
		})
		if err != nil {
			s.err = providerError("stream", err)
			return false
		}
		if len(s.acc.Choices) == 0 {
			s.err = providerError("stream", errors.New("completion returned no choices"))
			return false
		}

		message := s.acc.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			s.done = true
			return false
		}
		if message.Content != "" {
			s.logger.Warn("Completion returned both content and tool calls")
		}
		s.messages.Add(message.ToParam())
		s.messages.Add(runTools(s.ctx, s.agent, message.ToolCalls, s.logger)...)
	}
}

func (s *replyStream) Current() string {
	return s.current
}

func (s *replyStream) Err() error {
	return s.err
}

func (s *replyStream) Usage() Usage {
	return s.usage
}

func (s *replyStream) Close() error {
	s.done = true
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	return err
}
