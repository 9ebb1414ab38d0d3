// Package research implements the assisted-research sub-workflow: when the
// user doesn't know a field, the engine searches the web, synthesizes a
// suggestion, and holds it pending until the user confirms, rejects or
// overrides it. Every outcome leaves a task record for the downstream
// planner.
package research

import (
	"strings"

	"github.com/growthdesk/consultor-cli/internal/profile"
)

// Template configures one researchable field: the search query, a short
// purpose line, and the follow-up task description. Placeholders are
// {nome_negocio}, {segmento}, {localizacao} and {tipo_produto}.
type Template struct {
	Search      string
	Description string
	Task        string
}

var templates = map[profile.Field]Template{
	profile.FieldCompetitors: {
		Search:      "concorrentes de {tipo_produto} {segmento} em {localizacao} lojas similares marcas",
		Description: "Identificar concorrentes na região",
		Task:        "Realizar estudo aprofundado de concorrência: mapear os principais concorrentes de {nome_negocio}, suas estratégias, preços e diferenciais na região de {localizacao}",
	},
	profile.FieldIdealCustomer: {
		Search:      "{segmento} {tipo_produto} {localizacao} perfil cliente típico público-alvo quem compra",
		Description: "Definir perfil do cliente ideal",
		Task:        "Criar persona detalhada do cliente ideal de {nome_negocio}: mapear demografia, comportamento de compra, dores e desejos",
	},
	profile.FieldDifferential: {
		Search:      "{segmento} {tipo_produto} diferencial competitivo como se destacar mercado",
		Description: "Identificar possíveis diferenciais competitivos",
		Task:        "Definir posicionamento e diferencial competitivo de {nome_negocio}: análise SWOT e proposta de valor",
	},
	profile.FieldProfitMargin: {
		Search:      "{segmento} {tipo_produto} margem de lucro média percentual setor brasil",
		Description: "Pesquisar margens típicas do setor",
		Task:        "Analisar estrutura de custos e margem de {nome_negocio}: identificar oportunidades de melhoria",
	},
	profile.FieldAvgTicket: {
		Search:      "{segmento} {tipo_produto} {localizacao} preço médio quanto custa",
		Description: "Pesquisar preços típicos do mercado",
		Task:        "Realizar análise de precificação para {nome_negocio}: comparar com concorrentes e identificar oportunidades",
	},
	profile.FieldMainBottleneck: {
		Search:      "{segmento} {tipo_produto} pequena empresa gargalos operacionais desafios comuns",
		Description: "Identificar gargalos típicos do setor",
		Task:        "Diagnosticar gargalos operacionais de {nome_negocio}: mapear processos e identificar ineficiências",
	},
	profile.FieldCustomerOrigin: {
		Search:      "{segmento} {tipo_produto} {localizacao} como conseguir clientes canais aquisição",
		Description: "Pesquisar canais típicos de aquisição de clientes",
		Task:        "Mapear jornada de aquisição de clientes de {nome_negocio}: identificar os melhores canais",
	},
	profile.FieldMainObjection: {
		Search:      "{segmento} {tipo_produto} objeções clientes reclamações motivos não comprar",
		Description: "Pesquisar objeções comuns do setor",
		Task:        "Identificar e criar estratégias para superar objeções de compra dos clientes de {nome_negocio}",
	},
}

// TemplateFor returns the research template for a field.
func TemplateFor(f profile.Field) (Template, bool) {
	t, ok := templates[f]
	return t, ok
}

// Expand fills template placeholders from the profile, with sane fallbacks
// so queries stay useful before the profile is complete.
func Expand(tmpl string, p profile.Profile) string {
	segment := p.Get(profile.FieldSegment)
	if segment == "" {
		segment = "pequenos negócios"
	}
	location := p.Get(profile.FieldLocation)
	if location == "" {
		location = "Brasil"
	}
	name := p.Get(profile.FieldBusinessName)
	if name == "" {
		name = "o negócio"
	}
	productType := p.Get(profile.FieldProductType)
	if productType == "" {
		productType = p.Get(profile.FieldSegment)
	}

	r := strings.NewReplacer(
		"{segmento}", segment,
		"{localizacao}", location,
		"{nome_negocio}", name,
		"{tipo_produto}", productType,
	)
	return strings.Join(strings.Fields(r.Replace(tmpl)), " ")
}

// TaskDescription expands the follow-up task template for a field, with a
// generic fallback for fields without one.
func TaskDescription(f profile.Field, p profile.Profile) string {
	if t, ok := templates[f]; ok {
		return Expand(t.Task, p)
	}
	return "Aprofundar pesquisa sobre " + profile.Label(f)
}
