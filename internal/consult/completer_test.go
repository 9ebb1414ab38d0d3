package consult

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/pkg/anthropic"
)

type fakeAnthropic struct {
	req  anthropic.MessageRequest
	resp *anthropic.MessageResponse
	err  error
}

func (f *fakeAnthropic) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestCompleterMapsRequest(t *testing.T) {
	fake := &fakeAnthropic{resp: &anthropic.MessageResponse{Text: "Oi, me conta mais!"}}
	c := NewCompleter(fake, "claude-3-5-haiku-latest", 0)

	text, err := c.Complete(context.Background(), "Você é uma consultora.", []model.Message{
		{Role: model.RoleUser, Content: "vendo brownies"},
		{Role: model.RoleAssistant, Content: "Que legal!"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Oi, me conta mais!", text)

	assert.Equal(t, "claude-3-5-haiku-latest", fake.req.Model)
	assert.Equal(t, int64(1500), fake.req.MaxTokens)
	assert.Equal(t, "Você é uma consultora.", fake.req.System)
	require.Len(t, fake.req.Messages, 2)
	assert.Equal(t, "user", fake.req.Messages[0].Role)
	assert.Equal(t, "assistant", fake.req.Messages[1].Role)
	require.NotNil(t, fake.req.Temperature)
	assert.InDelta(t, 0.5, *fake.req.Temperature, 0.001)
}

func TestCompleterDefaultModel(t *testing.T) {
	fake := &fakeAnthropic{resp: &anthropic.MessageResponse{Text: "ok"}}
	c := NewCompleter(fake, "", 0)

	_, err := c.Complete(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", fake.req.Model)
}

func TestCompleterPropagatesError(t *testing.T) {
	fake := &fakeAnthropic{err: eris.New("overloaded")}
	c := NewCompleter(fake, "", 0)

	_, err := c.Complete(context.Background(), "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestCompleterRateLimitRespectsContext(t *testing.T) {
	fake := &fakeAnthropic{resp: &anthropic.MessageResponse{Text: "ok"}}
	// One request per hundred seconds: the second call must wait and the
	// canceled context aborts it before the fake is reached.
	c := NewCompleter(fake, "", 0.01)

	_, err := c.Complete(context.Background(), "", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Complete(ctx, "", nil)
	require.Error(t, err)
}
