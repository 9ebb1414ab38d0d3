package consult

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/growthdesk/consultor-cli/internal/profile"
	"github.com/growthdesk/consultor-cli/internal/research"
)

func TestBuildSystemPromptProfileAndSkeleton(t *testing.T) {
	st := profile.NewState()
	st.Profile.Set(profile.FieldSegment, "brownies artesanais")

	prompt := buildSystemPrompt(st, nil, "", "", nil)

	assert.Contains(t, prompt, `"segmento": "brownies artesanais"`)
	assert.Contains(t, prompt, "PRÓXIMO CAMPO A COLETAR: nome do negócio")
	assert.Contains(t, prompt, `"investimento_marketing": null`)
	assert.Contains(t, prompt, `"nome_negocio": null`)
}

func TestBuildSystemPromptTeachingBlock(t *testing.T) {
	findings := &research.Findings{Text: "[Docerias]: lista de concorrentes locais"}

	prompt := buildSystemPrompt(profile.NewState(), findings, "Identificar concorrentes na região", profile.FieldCompetitors, nil)

	assert.Contains(t, prompt, "INSTRUÇÃO CRÍTICA")
	assert.Contains(t, prompt, "principais concorrentes")
	assert.Contains(t, prompt, "[Docerias]: lista de concorrentes locais")
}

func TestBuildSystemPromptGenericFindings(t *testing.T) {
	findings := &research.Findings{Text: "dados gerais do mercado"}

	prompt := buildSystemPrompt(profile.NewState(), findings, "Pesquisa geral", "", nil)

	assert.Contains(t, prompt, "INSTRUÇÃO, USE OS DADOS")
	assert.NotContains(t, prompt, "INSTRUÇÃO CRÍTICA")
}

func TestBuildSystemPromptPendingBlock(t *testing.T) {
	pending := &profile.PendingResearch{
		Field:          profile.FieldCompetitors,
		SuggestedValue: "Doceria Central",
	}

	prompt := buildSystemPrompt(profile.NewState(), nil, "", "", pending)

	assert.Contains(t, prompt, "PESQUISA PENDENTE DE CONFIRMAÇÃO")
	assert.Contains(t, prompt, "Doceria Central")
}

func TestBuildSystemPromptAllCollected(t *testing.T) {
	st := profile.NewState()
	for _, s := range profile.All() {
		st.Profile.Set(s.Name, "valor")
	}

	prompt := buildSystemPrompt(st, nil, "", "", nil)

	assert.Contains(t, prompt, "TODOS OS CAMPOS COLETADOS")
}
