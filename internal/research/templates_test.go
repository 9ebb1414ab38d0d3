package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthdesk/consultor-cli/internal/profile"
)

func TestTemplateFor(t *testing.T) {
	tmpl, ok := TemplateFor(profile.FieldCompetitors)
	require.True(t, ok)
	assert.Equal(t, "Identificar concorrentes na região", tmpl.Description)

	_, ok = TemplateFor(profile.FieldBusinessName)
	assert.False(t, ok)
}

func TestExpandFallbacks(t *testing.T) {
	got := Expand("concorrentes de {tipo_produto} {segmento} em {localizacao}", nil)
	assert.Equal(t, "concorrentes de pequenos negócios em Brasil", got)
}

func TestExpandWithProfile(t *testing.T) {
	p := profile.Profile{
		profile.FieldBusinessName: "Brownies da Ana",
		profile.FieldSegment:      "brownies",
		profile.FieldLocation:     "Indaiatuba",
		profile.FieldProductType:  "doces",
	}
	got := Expand("{nome_negocio} {segmento} {tipo_produto} {localizacao}", p)
	assert.Equal(t, "Brownies da Ana brownies doces Indaiatuba", got)
}

func TestExpandProductTypeFallsBackToSegment(t *testing.T) {
	p := profile.Profile{profile.FieldSegment: "brownies"}
	got := Expand("{tipo_produto}", p)
	assert.Equal(t, "brownies", got)
}

func TestTaskDescription(t *testing.T) {
	p := profile.Profile{
		profile.FieldBusinessName: "Brownies da Ana",
		profile.FieldLocation:     "Indaiatuba",
	}
	got := TaskDescription(profile.FieldCompetitors, p)
	assert.Contains(t, got, "Brownies da Ana")
	assert.Contains(t, got, "Indaiatuba")

	got = TaskDescription(profile.FieldDeliveryTime, p)
	assert.Equal(t, "Aprofundar pesquisa sobre prazo de entrega", got)
}
