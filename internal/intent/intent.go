// Package intent classifies user utterances into the closed set of intents
// the turn loop branches on. The patterns are Portuguese conversational
// heuristics; the contract that matters is that rejection wins over
// confirmation when both match, since negated confirmations ("não faz
// sentido") contain confirmation substrings.
package intent

import (
	"regexp"
	"strings"

	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/profile"
)

// Response is the outcome of classifying an utterance against a pending
// research suggestion.
type Response int

const (
	// Other means neither confirmation nor rejection matched.
	Other Response = iota
	// Confirm accepts the pending suggestion.
	Confirm
	// Reject discards the pending suggestion.
	Reject
)

var confirmPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(sim|ok|t[aá] bom|pode ser|concordo|isso|exato|correto|beleza|perfeito|legal|certo|certinho)[\s!.]*$`),
	regexp.MustCompile(`esses mesmo|s[aã]o esses|concordo|isso mesmo|[eé] isso|certinho|faz sentido`),
	regexp.MustCompile(`pode ser|t[aá] certo|isso a[ií]|valeu|show|massa|boa`),
}

var rejectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`n[aã]o.{0,15}([eé]|s[aã]o|concordo|certo|isso|esse|essa|faz sentido)`),
	regexp.MustCompile(`discordo|errado|incorreto|melhora|refa[zç]|pesquisa.{0,10}de novo`),
	regexp.MustCompile(`na verdade|diferente|n[aã]o [eé] bem|nada a ver|sem sentido`),
	regexp.MustCompile(`^(n[aã]o|n)[\s!.]*$`),
}

// Classify maps an utterance to Confirm, Reject or Other. Reject patterns
// are checked first.
func Classify(message string) Response {
	lower := strings.TrimSpace(strings.ToLower(message))
	for _, re := range rejectPatterns {
		if re.MatchString(lower) {
			return Reject
		}
	}
	for _, re := range confirmPatterns {
		if re.MatchString(lower) {
			return Confirm
		}
	}
	return Other
}

var dontKnowRe = regexp.MustCompile(
	`n[aã]o sei|sei l[aá]|n[aã]o fa[cç]o ideia|n[aã]o tenho certeza|n[aã]o conhe[cç]o|` +
		`me ajuda|ajuda.*descobrir|n[aã]o sei dizer|nao tenho ideia|` +
		`pode pesquisar|pesquisa pra mim|pesquisa ai|busca pra mim`)

// DontKnow reports whether the user signalled ignorance or asked the
// assistant to look something up.
func DontKnow(message string) bool {
	return dontKnowRe.MatchString(strings.ToLower(message))
}

var stillDontKnowRe = regexp.MustCompile(
	`n[aã]o sei|sei l[aá]|n[aã]o fa[cç]o ideia|n[aã]o tenho certeza|pode ser|tanto faz`)

// StillDontKnow reports whether the user, asked to confirm a researched
// suggestion, signalled continued ignorance. Treated as implicit acceptance.
func StillDontKnow(message string) bool {
	return stillDontKnowRe.MatchString(strings.ToLower(message))
}

var finishPhrases = []string{
	"pode gerar", "analisar", "pronto", "terminar", "concluir",
	"gerar análise", "gerar a análise", "fazer análise", "vamos analisar",
}

// WantsFinish reports whether the user explicitly asked to move on to
// analysis.
func WantsFinish(message string) bool {
	lower := strings.ToLower(message)
	for _, p := range finishPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// ProblemTopic is a canned research topic triggered by a problem statement.
type ProblemTopic struct {
	Query   string // with {segmento} and {localizacao} placeholders
	Purpose string
}

var problemPatterns = []struct {
	re    *regexp.Regexp
	topic ProblemTopic
}{
	{
		regexp.MustCompile(`mais cliente|poucos cliente|falta.*client|n[aã]o vend|dificil.*vend|problema.*venda`),
		ProblemTopic{"como conseguir mais clientes {segmento} {localizacao} estratégias marketing", "Como conseguir mais clientes"},
	},
	{
		regexp.MustCompile(`n[aã]o sei.*precific|quanto.*cobr|pre[cç]o|margem`),
		ProblemTopic{"precificação {segmento} como definir preços margem", "Ajuda com precificação"},
	},
	{
		regexp.MustCompile(`concorr[eê]nc|competi[cç]`),
		ProblemTopic{"concorrentes {segmento} {localizacao} como competir diferenciação", "Análise de concorrência"},
	},
	{
		regexp.MustCompile(`marketing|divulg|promov.*neg[oó]cio`),
		ProblemTopic{"marketing {segmento} {localizacao} estratégias promocionais", "Estratégias de marketing"},
	},
}

// MatchProblem returns the canned research topic for a problem statement,
// or nil when none matches.
func MatchProblem(message string) *ProblemTopic {
	lower := strings.ToLower(message)
	for _, p := range problemPatterns {
		if p.re.MatchString(lower) {
			t := p.topic
			return &t
		}
	}
	return nil
}

// fieldKeywords maps fields to phrases that identify them in an assistant
// question, so "não sei" can be tied back to what was just asked. Order
// matters: first match wins.
var fieldKeywords = []struct {
	field    profile.Field
	keywords []string
}{
	{profile.FieldCompetitors, []string{"concorrente", "concorrência", "concorrencia", "competidor"}},
	{profile.FieldIdealCustomer, []string{"cliente ideal", "público-alvo", "publico-alvo", "perfil do cliente", "quem compra"}},
	{profile.FieldDifferential, []string{"diferencial", "destaca", "diferencia", "especial do seu"}},
	{profile.FieldAvgTicket, []string{"ticket", "valor médio", "valor medio", "preço médio", "preco medio"}},
	{profile.FieldProfitMargin, []string{"margem", "lucro", "rentabilidade"}},
	{profile.FieldMainBottleneck, []string{"gargalo", "maior problema", "principal problema", "limitação"}},
	{profile.FieldCustomerOrigin, []string{"origem", "como encontram", "onde encontram", "como te acham"}},
	{profile.FieldMainObjection, []string{"objeção", "objecao", "por que não compram", "desistência"}},
	{profile.FieldAvailableCapital, []string{"investir", "capital", "orçamento", "orcamento", "quanto pode"}},
	{profile.FieldTeamSize, []string{"equipe", "funcionário", "funcionario", "sozinho", "quantas pessoas"}},
	{profile.FieldSalesChannels, []string{"onde vende", "como vende", "canal de venda", "canais"}},
	{profile.FieldOperatingModel, []string{"operação", "operacao", "funciona sua", "estoque", "encomenda"}},
	{profile.FieldMonthlyRevenue, []string{"faturamento", "fatura", "receita mensal"}},
	{profile.FieldTimeInBusiness, []string{"há quanto tempo", "quando abriu", "quando começou", "tempo de operação"}},
	{profile.FieldProductType, []string{"produto ou serviço", "produto ou servico", "o que vende", "tipo de produto"}},
}

// FieldFromContext inspects the last few assistant messages to infer which
// field the conversation is currently about. Returns "" when undetermined.
func FieldFromContext(messages []model.Message) profile.Field {
	start := len(messages) - 3
	if start < 0 {
		start = 0
	}
	for i := len(messages) - 1; i >= start; i-- {
		if messages[i].Role != model.RoleAssistant {
			continue
		}
		content := strings.ToLower(messages[i].Content)
		for _, fk := range fieldKeywords {
			for _, kw := range fk.keywords {
				if strings.Contains(content, kw) {
					return fk.field
				}
			}
		}
	}
	return ""
}
