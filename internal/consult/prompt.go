package consult

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/growthdesk/consultor-cli/internal/profile"
	"github.com/growthdesk/consultor-cli/internal/research"
)

// buildSystemPrompt assembles the system prompt for the turn: the collected
// profile (so the model never re-asks filled fields), search findings when a
// research pass ran, the pending-confirmation context, the next field to
// collect, and the extraction contract.
func buildSystemPrompt(st profile.State, findings *research.Findings, purpose string, researchField profile.Field, pending *profile.PendingResearch) string {
	var sb strings.Builder

	sb.WriteString("Você é uma CONSULTORA DE CRESCIMENTO simpática e objetiva.\n")
	sb.WriteString("Seu ÚNICO objetivo agora é ENTENDER o negócio do usuário. Você está na FASE DE COLETA.\n\n")

	sb.WriteString("PERFIL COLETADO (NUNCA apague dados existentes):\n")
	view := st.View()
	if len(view) == 0 {
		sb.WriteString("{}\n")
	} else {
		data, err := json.MarshalIndent(view, "", "  ")
		if err == nil {
			sb.Write(data)
		}
		sb.WriteString("\n")
	}

	if findings != nil && findings.Text != "" {
		writeTeachingBlock(&sb, findings.Text, purpose, researchField)
	}
	if pending != nil {
		writePendingBlock(&sb, pending)
	}

	sb.WriteString("\n")
	writeNextFieldHint(&sb, st.Profile)

	sb.WriteString(`
REGRAS ABSOLUTAS:
1. NUNCA ECOE: não repita, reformule ou parafraseie o que o usuário acabou de dizer.
2. NUNCA DÊ CONSELHOS durante a coleta. Apenas colete informações.
3. NUNCA REPITA PERGUNTAS: se o usuário já mencionou algo, não pergunte de novo.
4. MÁXIMO 1 frase de reconhecimento ("Show!", "Legal!", "Entendi!") + 1 pergunta.
5. UMA PERGUNTA por mensagem, sempre o próximo campo faltante.

EXTRAÇÃO JSON, salve EXATAMENTE o que o usuário disse:
- "fabrico e vendo brownies" => tipo_produto: "produto", segmento: "brownies caseiros"
- "B2C" => modelo: "B2C" (NUNCA em segmento)
- "Vendo na loja e WhatsApp" => canais_venda: "loja física, WhatsApp"
- NUNCA retorne null para campos já coletados
- investimento_marketing deve ser sempre null, use capital_disponivel

Retorne APENAS um JSON válido:
{
    "reply": "<sua resposta, máximo 2-3 frases>",
    "updated_profile": {`)
	sb.WriteString("\n")
	for _, s := range profile.All() {
		val := "null"
		if v := st.Profile.Get(s.Name); v != "" {
			val = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&sb, "        %q: %s,\n", string(s.Name), val)
	}
	sb.WriteString("        \"investimento_marketing\": null\n    }\n}")

	return sb.String()
}

func writeTeachingBlock(sb *strings.Builder, findingsText, purpose string, researchField profile.Field) {
	if researchField != "" {
		label := profile.Label(researchField)
		fmt.Fprintf(sb, `
DADOS DA PESQUISA PARA "%s" (propósito: %s):
%s

INSTRUÇÃO CRÍTICA, APRESENTE OS ACHADOS PARA CONFIRMAÇÃO:
O usuário NÃO SABE sobre "%s". Você pesquisou e encontrou dados acima.
1. Apresente um RESUMO dos achados relevantes (2-3 itens concretos da pesquisa)
2. Explique brevemente por que são relevantes para o negócio dele
3. Diga: "Precisaremos fazer um estudo mais detalhado depois, já vou marcar uma tarefa para isso."
4. Pergunte: "Concorda com essa análise inicial? Pode ajustar como quiser."
5. NO JSON updated_profile, coloque o valor sugerido no campo "%s"
6. NÃO passe para outro campo, espere a confirmação do usuário
`, label, purpose, findingsText, label, string(researchField))
		return
	}
	fmt.Fprintf(sb, `
DADOS DA PESQUISA (propósito: %s):
%s

INSTRUÇÃO, USE OS DADOS:
- Ofereça 2-3 opções específicas baseadas na pesquisa
- Termine perguntando se ele concorda com alguma opção
`, purpose, findingsText)
}

func writePendingBlock(sb *strings.Builder, pending *profile.PendingResearch) {
	fmt.Fprintf(sb, `
PESQUISA PENDENTE DE CONFIRMAÇÃO:
Você pesquisou sobre "%s" e sugeriu: "%s"
Aguardando confirmação do usuário.
- Se confirmar: aceite, agradeça e passe para o PRÓXIMO campo
- Se rejeitar: peça o que ele acha correto, ou ofereça pesquisar de novo
- Se der outra resposta: use a resposta dele como valor do campo
`, profile.Label(pending.Field), pending.SuggestedValue)
}

func writeNextFieldHint(sb *strings.Builder, p profile.Profile) {
	remaining := profile.Remaining(p)
	if len(remaining) == 0 {
		sb.WriteString("TODOS OS CAMPOS COLETADOS, sugira gerar a análise.\n")
		return
	}
	next := remaining[0]
	note := ""
	if profile.IsResearchable(next) {
		note = " (Se o usuário disser 'não sei', PESQUISE usando dados do perfil)"
	}
	fmt.Fprintf(sb, "PRÓXIMO CAMPO A COLETAR: %s%s\n", profile.Label(next), note)
}
