// Package consult implements the per-turn orchestration of the consultation:
// resolve pending research, decide whether to search, call the language model,
// validate the extraction, merge state and shape the next reply.
package consult

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/growthdesk/consultor-cli/internal/grounding"
	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/profile"
	"github.com/growthdesk/consultor-cli/internal/research"
	"github.com/growthdesk/consultor-cli/pkg/anthropic"
)

// Completer is the language-model collaborator. It returns the raw completion
// text; parsing and fallback are the engine's responsibility.
type Completer interface {
	Complete(ctx context.Context, system string, messages []model.Message) (string, error)
}

const (
	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 1500
	maxHistory       = 10
)

// RateLimitedCompleter wraps the Anthropic client with a request rate limit
// shared across all sessions served by this process.
type RateLimitedCompleter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
}

// NewCompleter builds the production completer. rps bounds requests per
// second; zero disables the limit.
func NewCompleter(client anthropic.Client, modelName string, rps float64) *RateLimitedCompleter {
	if modelName == "" {
		modelName = defaultModel
	}
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &RateLimitedCompleter{
		client:    client,
		model:     modelName,
		maxTokens: defaultMaxTokens,
		limiter:   limiter,
	}
}

func (c *RateLimitedCompleter) Complete(ctx context.Context, system string, messages []model.Message) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	msgs := make([]anthropic.Message, len(messages))
	for i, m := range messages {
		msgs[i] = anthropic.Message{Role: m.Role, Content: m.Content}
	}
	temp := 0.5
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		System:      system,
		Messages:    msgs,
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// TurnInput is everything one turn needs. The state is owned by the turn for
// its duration; the caller persists the returned state before the next turn.
type TurnInput struct {
	SessionID   string
	Messages    []model.Message
	UserMessage string
	State       profile.State
}

// TurnOutput is the result of one turn.
type TurnOutput struct {
	Reply            string                `json:"reply"`
	State            profile.State         `json:"state"`
	SearchPerformed  bool                  `json:"search_performed"`
	SearchQuery      string                `json:"search_query,omitempty"`
	SearchSources    []research.Source     `json:"search_sources,omitempty"`
	ReadyForAnalysis bool                  `json:"ready_for_analysis"`
	FieldsCollected  []profile.Field       `json:"fields_collected"`
	FieldsMissing    []profile.Field       `json:"fields_missing"`
	NewTasks         []profile.TaskRecord  `json:"new_tasks,omitempty"`
}

// Engine runs consultation turns. It holds no per-session state; every turn
// is parametrized by the state passed in, so one engine serves any number of
// concurrent sessions.
type Engine struct {
	completer   Completer
	gatherer    *research.Gatherer
	validator   *grounding.Validator
	minPriority int
}

// Option configures the engine.
type Option func(*Engine)

// WithMinPriority overrides the number of priority fields needed for readiness.
func WithMinPriority(n int) Option {
	return func(e *Engine) {
		e.minPriority = n
	}
}

// WithValidator overrides the grounding validator.
func WithValidator(v *grounding.Validator) Option {
	return func(e *Engine) {
		e.validator = v
	}
}

// NewEngine builds an engine. completer may be nil when no credential is
// configured; turns then return a static error reply. gatherer may be nil to
// disable research entirely.
func NewEngine(completer Completer, gatherer *research.Gatherer, opts ...Option) *Engine {
	e := &Engine{
		completer:   completer,
		gatherer:    gatherer,
		validator:   grounding.NewValidator(),
		minPriority: profile.DefaultMinPriority,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
