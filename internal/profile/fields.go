// Package profile defines the business-profile schema: every collectible
// field, its collection order, its conversational prompt, and the readiness
// policy that gates downstream analysis.
package profile

// Field is the canonical name of a profile field. The Portuguese keys are
// the wire format consumed by the downstream scoring and planning services.
type Field string

// Required fields. Absence of any blocks analysis.
const (
	FieldBusinessName Field = "nome_negocio"
	FieldSegment      Field = "segmento"
	FieldBusinessModel Field = "modelo"
	FieldLocation     Field = "localizacao"
	FieldDifficulties Field = "dificuldades"
	FieldGoals        Field = "objetivos"
)

// Priority-optional fields. At least MinPriorityFields of these must be
// present before analysis.
const (
	FieldAvailableCapital Field = "capital_disponivel"
	FieldTeamSize         Field = "num_funcionarios"
	FieldSalesChannels    Field = "canais_venda"
	FieldIdealCustomer    Field = "cliente_ideal"
	FieldAvgTicket        Field = "ticket_medio"
	FieldOperatingModel   Field = "modelo_operacional"
	FieldMonthlyRevenue   Field = "faturamento_mensal"
)

// Remaining optional fields.
const (
	FieldTimeInBusiness Field = "tempo_operacao"
	FieldProductType    Field = "tipo_produto"
	FieldCompetitors    Field = "concorrentes"
	FieldDifferential   Field = "diferencial"
)

// Contextual fields, usually inferred rather than asked.
const (
	FieldMainBottleneck  Field = "principal_gargalo"
	FieldProfitMargin    Field = "margem_lucro"
	FieldCustomerOrigin  Field = "origem_clientes"
	FieldMainObjection   Field = "maior_objecao"
	FieldDeliveryTime    Field = "tempo_entrega"
)

// Digital-presence fields, collected opportunistically when mentioned.
const (
	FieldInstagram Field = "instagram_handle"
	FieldLinkedIn  Field = "linkedin_url"
	FieldSiteURL   Field = "site_url"
	FieldEmail     Field = "email_contato"
	FieldWhatsApp  Field = "whatsapp_numero"
	FieldMapsURL   Field = "google_maps_url"
)

// FieldMarketingBudget is an alias of capital_disponivel kept for downstream
// compatibility. It is never prompted and is synced from available capital.
const FieldMarketingBudget Field = "investimento_marketing"

// Class selects the grounding strategy for a field.
type Class int

const (
	// ClassLenient accepts values with any word-level textual basis.
	ClassLenient Class = iota
	// ClassEnum accepts only a fixed token set.
	ClassEnum
	// ClassMonetary requires a numeric magnitude match against user text.
	ClassMonetary
	// ClassDetected accepts values via keyword-pattern tables.
	ClassDetected
)

// Spec describes one collectible field.
type Spec struct {
	Name         Field
	Label        string
	Prompt       string
	Class        Class
	Required     bool
	Priority     bool
	Researchable bool
}

// BusinessModelTokens is the closed value set for the modelo field.
var BusinessModelTokens = []string{"B2B", "B2C", "D2C", "MISTO"}

// registry lists every collectible field in canonical collection order:
// required first, then priority, then optional, then contextual, then
// digital presence.
var registry = []Spec{
	{FieldBusinessName, "nome do negócio", "Qual o nome do seu negócio?", ClassLenient, true, false, false},
	{FieldSegment, "segmento/nicho", "Em que segmento/área você atua?", ClassLenient, true, false, false},
	{FieldBusinessModel, "modelo (B2B/B2C/Misto)", "Você atende empresas (B2B) ou pessoas físicas (B2C)?", ClassEnum, true, false, false},
	{FieldLocation, "cidade/estado", "Em que cidade você atende?", ClassLenient, true, false, false},
	{FieldDifficulties, "maiores dificuldades/desafios", "Qual seu maior desafio hoje no negócio?", ClassLenient, true, false, false},
	{FieldGoals, "objetivos de crescimento", "Qual sua principal meta para os próximos meses?", ClassLenient, true, false, false},

	{FieldAvailableCapital, "quanto pode investir por mês", "Quanto você pode investir por mês em marketing/crescimento?", ClassMonetary, false, true, false},
	{FieldTeamSize, "tamanho da equipe", "Você trabalha sozinho ou tem equipe? Quantas pessoas?", ClassDetected, false, true, false},
	{FieldSalesChannels, "canais de venda atuais", "Onde/como você vende hoje? Instagram, loja física, site?", ClassLenient, false, true, false},
	{FieldIdealCustomer, "perfil do cliente ideal", "Descreva seu cliente ideal - idade, perfil, características.", ClassLenient, false, true, true},
	{FieldAvgTicket, "valor médio por venda", "Qual o valor médio de cada venda?", ClassMonetary, false, true, true},
	{FieldOperatingModel, "como funciona sua operação", "Como funciona sua operação? Tem estoque, trabalha sob encomenda?", ClassDetected, false, true, false},
	{FieldMonthlyRevenue, "faturamento médio mensal", "Qual seu faturamento médio mensal aproximadamente?", ClassMonetary, false, true, false},

	{FieldTimeInBusiness, "tempo de operação", "Há quanto tempo o negócio está operando?", ClassLenient, false, false, false},
	{FieldProductType, "tipo de produto/serviço", "Você vende produto, serviço, ou ambos?", ClassLenient, false, false, false},
	{FieldCompetitors, "principais concorrentes", "Quais são seus principais concorrentes?", ClassLenient, false, false, true},
	{FieldDifferential, "seu diferencial competitivo", "Qual é o diferencial do seu negócio?", ClassLenient, false, false, true},

	{FieldMainBottleneck, "principal gargalo", "Qual é o principal gargalo da sua operação?", ClassDetected, false, false, true},
	{FieldProfitMargin, "margem de lucro", "Qual é sua margem de lucro aproximada?", ClassDetected, false, false, true},
	{FieldCustomerOrigin, "origem dos clientes", "De onde vêm seus clientes? Como eles te encontram?", ClassLenient, false, false, true},
	{FieldMainObjection, "maior objeção dos clientes", "Qual é a principal objeção dos seus clientes?", ClassDetected, false, false, true},
	{FieldDeliveryTime, "prazo de entrega", "Qual é o prazo médio de entrega?", ClassLenient, false, false, false},

	{FieldInstagram, "@ do Instagram", "Qual o @ do seu Instagram?", ClassLenient, false, false, false},
	{FieldLinkedIn, "LinkedIn da empresa", "Tem LinkedIn da empresa? Qual o link ou nome?", ClassLenient, false, false, false},
	{FieldSiteURL, "site/URL do negócio", "Qual o endereço do seu site?", ClassLenient, false, false, false},
	{FieldEmail, "e-mail de contato", "Qual o e-mail de contato do negócio?", ClassLenient, false, false, false},
	{FieldWhatsApp, "número do WhatsApp", "Qual o número do WhatsApp do negócio?", ClassLenient, false, false, false},
	{FieldMapsURL, "link/nome no Google Maps", "Está no Google Maps? Qual o link ou nome exato?", ClassLenient, false, false, false},
}

var byName = func() map[Field]Spec {
	m := make(map[Field]Spec, len(registry))
	for _, s := range registry {
		m[s.Name] = s
	}
	return m
}()

// Lookup returns the spec for a field name.
func Lookup(name Field) (Spec, bool) {
	s, ok := byName[name]
	return s, ok
}

// All returns every collectible field in canonical order.
func All() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}

// Required returns the required field names in order.
func Required() []Field {
	var out []Field
	for _, s := range registry {
		if s.Required {
			out = append(out, s.Name)
		}
	}
	return out
}

// PriorityOptional returns the priority-optional field names in order.
func PriorityOptional() []Field {
	var out []Field
	for _, s := range registry {
		if s.Priority {
			out = append(out, s.Name)
		}
	}
	return out
}

// Label returns the human-readable label for a field, falling back to the
// raw name for unregistered fields.
func Label(name Field) string {
	if s, ok := byName[name]; ok {
		return s.Label
	}
	return string(name)
}

// PromptFor returns the collection prompt for a field, with a generic
// fallback for unregistered fields.
func PromptFor(name Field) string {
	if s, ok := byName[name]; ok {
		return s.Prompt
	}
	return "Me conta sobre " + Label(name) + "?"
}

// IsResearchable reports whether the engine has a search template for the field.
func IsResearchable(name Field) bool {
	s, ok := byName[name]
	return ok && s.Researchable
}

// MissingRequired returns required fields absent from p, in order.
func MissingRequired(p Profile) []Field {
	var out []Field
	for _, s := range registry {
		if s.Required && p.Get(s.Name) == "" {
			out = append(out, s.Name)
		}
	}
	return out
}

// MissingPriority returns priority-optional fields absent from p, in order.
func MissingPriority(p Profile) []Field {
	var out []Field
	for _, s := range registry {
		if s.Priority && p.Get(s.Name) == "" {
			out = append(out, s.Name)
		}
	}
	return out
}

// Remaining returns every collectible field absent from p, in canonical order.
func Remaining(p Profile) []Field {
	var out []Field
	for _, s := range registry {
		if p.Get(s.Name) == "" {
			out = append(out, s.Name)
		}
	}
	return out
}

// CollectedPriorityCount counts priority-optional fields present in p.
func CollectedPriorityCount(p Profile) int {
	n := 0
	for _, s := range registry {
		if s.Priority && p.Get(s.Name) != "" {
			n++
		}
	}
	return n
}
