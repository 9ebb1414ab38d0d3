package consult

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/profile"
)

func marketState() profile.State {
	st := profile.NewState()
	st.Profile.Set(profile.FieldSegment, "brownies artesanais")
	st.Profile.Set(profile.FieldLocation, "Indaiatuba")
	return st
}

func TestDecideSearchDontKnowTargetsContextField(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleAssistant, Content: "Quais são seus principais concorrentes?"},
	}

	dec := decideSearch("não sei", messages, marketState())

	require.True(t, dec.do)
	assert.Equal(t, profile.FieldCompetitors, dec.field)
	assert.Equal(t, "Identificar concorrentes na região", dec.purpose)
	assert.Contains(t, dec.query, "brownies artesanais")
	assert.Contains(t, dec.query, "Indaiatuba")
	assert.False(t, dec.early)
}

func TestDecideSearchDontKnowFirstResearchable(t *testing.T) {
	dec := decideSearch("não faço ideia", nil, profile.NewState())

	require.True(t, dec.do)
	assert.Equal(t, profile.FieldIdealCustomer, dec.field)
	assert.Equal(t, "Definir perfil do cliente ideal", dec.purpose)
}

func TestDecideSearchDontKnowGenericFallback(t *testing.T) {
	st := marketState()
	for _, s := range profile.All() {
		if s.Researchable {
			st.Meta.MarkResearched(s.Name)
		}
	}

	dec := decideSearch("não sei mesmo", nil, st)

	require.True(t, dec.do)
	assert.Empty(t, dec.field)
	assert.Equal(t, "Pesquisa geral", dec.purpose)
	assert.Contains(t, dec.query, "informações mercado características")
}

func TestDecideSearchProblemStatement(t *testing.T) {
	dec := decideSearch("queria conseguir mais clientes", nil, marketState())

	require.True(t, dec.do)
	assert.Empty(t, dec.field)
	assert.Equal(t, "Como conseguir mais clientes", dec.purpose)
	assert.Equal(t, "como conseguir mais clientes brownies artesanais Indaiatuba estratégias marketing", dec.query)
}

func TestDecideSearchProblemPlaceholderFallbacks(t *testing.T) {
	dec := decideSearch("queria conseguir mais clientes", nil, profile.NewState())

	require.True(t, dec.do)
	assert.Contains(t, dec.query, "pequenos negócios")
	assert.Contains(t, dec.query, "Brasil")
}

func TestDecideSearchEarlyMarket(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleAssistant, Content: "Oi!"},
		{Role: model.RoleUser, Content: "vendo brownies em indaiatuba"},
	}

	t.Run("fires_once_in_window", func(t *testing.T) {
		dec := decideSearch("a loja fica no centro da cidade", messages, marketState())

		require.True(t, dec.do)
		assert.True(t, dec.early)
		assert.Equal(t, "Pesquisa inicial de mercado", dec.purpose)
		assert.Equal(t, "brownies artesanais Indaiatuba mercado oportunidades público-alvo", dec.query)
	})

	t.Run("already_done", func(t *testing.T) {
		st := marketState()
		st.Meta.EarlySearch = true
		dec := decideSearch("a loja fica no centro da cidade", messages, st)
		assert.False(t, dec.do)
	})

	t.Run("window_closed", func(t *testing.T) {
		long := make([]model.Message, 5)
		dec := decideSearch("a loja fica no centro da cidade", long, marketState())
		assert.False(t, dec.do)
	})

	t.Run("needs_segment_and_location", func(t *testing.T) {
		st := profile.NewState()
		st.Profile.Set(profile.FieldSegment, "brownies artesanais")
		dec := decideSearch("a loja fica no centro da cidade", messages, st)
		assert.False(t, dec.do)
	})
}
