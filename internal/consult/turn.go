package consult

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/growthdesk/consultor-cli/internal/detect"
	"github.com/growthdesk/consultor-cli/internal/intent"
	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/profile"
	"github.com/growthdesk/consultor-cli/internal/research"
)

const greeting = "Oi! 👋 Sou sua consultora de crescimento.\n\n" +
	"Vou te fazer algumas perguntas rápidas pra entender seu negócio e gerar um plano de ação personalizado. " +
	"Se tiver algo que você não souber, sem problema — eu pesquiso pra você!\n\n" +
	"Vamos lá: qual o nome do seu negócio e o que vocês fazem?"

const noCredentialReply = "❌ Erro: chave da API não configurada."

// skipPhrases mark replies where the model promised to search instead of
// presenting the findings it was given.
var skipPhrases = []string{
	"vou pesquisar", "marquei uma tarefa", "vou buscar",
	"preciso pesquisar", "vou procurar", "vou verificar",
	"deixa eu pesquisar", "vou dar uma olhada",
}

// Run executes one consultation turn. The input state is never mutated; the
// returned state is the new truth for the session.
func (e *Engine) Run(ctx context.Context, in TurnInput) (*TurnOutput, error) {
	st := in.State.Clone()
	if st.Profile == nil {
		st.Profile = make(profile.Profile)
	}
	prevTaskCount := len(st.Meta.Tasks)

	if e.completer == nil {
		return &TurnOutput{
			Reply:         noCredentialReply,
			State:         st,
			FieldsMissing: profile.MissingRequired(st.Profile),
		}, nil
	}

	// First contact needs no model call.
	if len(in.Messages) == 0 && strings.TrimSpace(in.UserMessage) == "" {
		return &TurnOutput{
			Reply:         greeting,
			State:         st,
			FieldsMissing: profile.MissingRequired(st.Profile),
		}, nil
	}

	// Step 1: a pending research suggestion is resolved before anything else.
	// Resolving suppresses proactive search this turn, so searches never chain.
	outcome := research.ResolvePending(&st, in.UserMessage)
	justResolved := outcome != research.OutcomeNone
	pendingRec := st.Meta.Pending

	// Early inference so product type and channels can feed search queries.
	allMsgs := append(append([]model.Message{}, in.Messages...),
		model.Message{Role: model.RoleUser, Content: in.UserMessage})
	for f, v := range detect.Infer(allMsgs, st.Profile) {
		st.Profile.Set(f, v)
	}

	// Step 2: proactive search.
	var dec searchDecision
	if !justResolved && e.gatherer != nil {
		dec = decideSearch(in.UserMessage, in.Messages, st)
	}
	userSaidDontKnow := dec.do && intent.DontKnow(in.UserMessage)

	var (
		findings        *research.Findings
		searchPerformed bool
		failedField     profile.Field
	)
	if dec.do {
		if dec.early {
			st.Meta.EarlySearch = true
		}
		zap.L().Info("proactive search",
			zap.String("session", in.SessionID),
			zap.String("query", dec.query),
			zap.String("purpose", dec.purpose),
		)
		got, err := e.gatherer.Gather(ctx, dec.query)
		switch {
		case err != nil || got == nil || got.Text == "":
			if err != nil {
				zap.L().Warn("search failed, continuing without findings", zap.Error(err))
			}
			failedField = dec.field
			dec.field = ""
		case dec.field != "" && !research.Relevant(got.Text,
			st.Profile.Get(profile.FieldSegment), st.Profile.Get(profile.FieldProductType)):
			// Garbage results for the targeted field: log a deferred task
			// instead of presenting them.
			research.LogUnusable(&st, dec.field, profile.TaskOriginIrrelevant)
			failedField = dec.field
			dec.field = ""
		default:
			findings = got
			searchPerformed = true
		}
	}

	// Step 3: model completion. A failed call degrades to the direct-prompt
	// path below; it is never surfaced to the user.
	system := buildSystemPrompt(st, findings, dec.purpose, dec.field, pendingRec)
	history := in.Messages
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	convo := append(append([]model.Message{}, history...),
		model.Message{Role: model.RoleUser, Content: in.UserMessage})

	var (
		reply    string
		proposal map[profile.Field]any
	)
	if raw, err := e.completer.Complete(ctx, system, convo); err != nil {
		zap.L().Warn("completion failed, degrading to direct prompt",
			zap.String("session", in.SessionID), zap.Error(err))
	} else {
		reply, proposal = parseCompletion(raw)
	}

	// A value the model extracted for the researched field came from the
	// findings, not from the user, so grounding would reject it. Capture it
	// before validation; it becomes the pending suggestion.
	var suggestion string
	if dec.field != "" && searchPerformed {
		if v, ok := flattenValue(proposal[dec.field]); ok {
			suggestion = v
			delete(proposal, dec.field)
		}
	}

	// Leaked prompt scaffolding is treated as no reply at all.
	if strings.HasPrefix(reply, "<") || strings.Contains(strings.ToLower(reply), "campo obrigatório") {
		reply = ""
	}
	reply = filterEcho(reply, in.UserMessage)

	// Step 4: grounding validation and sticky merge. Any field present before
	// the turn survives, no matter what the cleaned proposal says.
	userText := model.UserText(in.Messages, in.UserMessage)
	cleaned := e.validator.Clean(proposal, userText, st.Profile)
	for f, v := range st.Profile {
		if cleaned.Get(f) == "" {
			cleaned[f] = v
		}
	}
	st.Profile = cleaned

	// The marketing-budget alias mirrors available capital.
	capital := st.Profile.Get(profile.FieldAvailableCapital)
	budget := st.Profile.Get(profile.FieldMarketingBudget)
	if budget != "" && capital == "" {
		st.Profile.Set(profile.FieldAvailableCapital, budget)
	} else if capital != "" && budget == "" {
		st.Profile.Set(profile.FieldMarketingBudget, capital)
	}

	// Late inference pass over the merged profile.
	for f, v := range detect.Infer(allMsgs, st.Profile) {
		st.Profile.Set(f, v)
	}

	// Step 5: hold the researched suggestion pending confirmation, unless the
	// field was already collected before this turn.
	if suggestion != "" && dec.field != "" && in.State.Profile.Get(dec.field) == "" {
		research.SetPending(&st, dec.field, suggestion)
		if replyIsGeneric(reply) {
			reply = findingsReply(dec.field, suggestion)
		}
	}

	// Step 6: readiness.
	wantsFinish := intent.WantsFinish(in.UserMessage)
	missingRequired := profile.MissingRequired(st.Profile)
	baseReady := profile.Ready(st.Profile, false, e.minPriority)
	ready := wantsFinish || baseReady
	remaining := profile.Remaining(st.Profile)

	// Step 7: shape the reply.
	switch {
	case wantsFinish:
		reply = appendLine(reply, "✅ Vou gerar a análise agora!")

	case st.Meta.Pending != nil:
		// Waiting on confirmation; never ask for a new field.
		if replyIsGeneric(reply) {
			if v := st.Meta.Pending.SuggestedValue; v != "" {
				reply = findingsReply(st.Meta.Pending.Field, v)
			} else if reply == "" {
				reply = "O que você acha da sugestão?"
			}
		}

	case len(missingRequired) > 0:
		reply = askNext(reply, profile.PromptFor(missingRequired[0]))

	case userSaidDontKnow:
		// The user asked for research but the search produced nothing usable.
		// Acknowledge instead of silently moving on.
		field := failedField
		if field == "" {
			field = intent.FieldFromContext(in.Messages)
		}
		label := "esse assunto"
		if field != "" {
			label = profile.Label(field)
		}
		if reply == "" {
			reply = fmt.Sprintf("Sem problemas! Não encontrei dados confiáveis agora sobre %s. Marquei uma tarefa pra pesquisar isso depois com mais calma.", label)
		}
		if field != "" && !st.Meta.WasResearched(field) {
			research.LogUnusable(&st, field, profile.TaskOriginFailed)
		}
		if rem := profile.Remaining(st.Profile); len(rem) > 0 {
			reply = askNext(reply, profile.PromptFor(rem[0]))
		}

	case len(remaining) > 0:
		next := remaining[0]
		prompt := profile.PromptFor(next)
		if profile.IsResearchable(next) {
			prompt += " Se não souber, posso pesquisar pra você!"
		}
		switch {
		case reply == "":
			reply = prompt
		case !endsWithQuestion(reply) && baseReady:
			reply += "\n\nPra enriquecer a análise: " + prompt
		case !endsWithQuestion(reply):
			reply += "\n\n" + prompt
		}

	default:
		reply = appendLine(reply, "✅ Tenho tudo! Clique em 'Gerar Análise' pra ver seu relatório.")
	}

	out := &TurnOutput{
		Reply:            reply,
		State:            st,
		SearchPerformed:  searchPerformed,
		ReadyForAnalysis: ready,
		FieldsCollected:  st.Profile.Collected(),
		FieldsMissing:    missingRequired,
		NewTasks:         append([]profile.TaskRecord(nil), st.Meta.Tasks[prevTaskCount:]...),
	}
	if searchPerformed {
		out.SearchQuery = dec.query
		out.SearchSources = findings.Sources
	}
	return out, nil
}

// replyIsGeneric reports whether the model reply failed to present research
// findings: empty, too short, or promising to search later.
func replyIsGeneric(reply string) bool {
	trimmed := strings.TrimSpace(reply)
	if len(trimmed) < 40 {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, p := range skipPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// findingsReply force-builds a confirmation reply around the researched
// suggestion when the model failed to present it.
func findingsReply(field profile.Field, suggestion string) string {
	return fmt.Sprintf("Pesquisei sobre **%s** pro seu negócio e encontrei:\n\n📋 **%s**\n\nMarquei uma tarefa pra aprofundar isso depois. Faz sentido pra você?",
		profile.Label(field), suggestion)
}

func appendLine(reply, line string) string {
	if reply == "" {
		return line
	}
	return reply + "\n\n" + line
}

// askNext appends the next field prompt unless the reply already ends in a
// question.
func askNext(reply, prompt string) string {
	if reply == "" {
		return prompt
	}
	if endsWithQuestion(reply) {
		return reply
	}
	return reply + "\n\n" + prompt
}

func endsWithQuestion(reply string) bool {
	return strings.HasSuffix(strings.TrimSpace(reply), "?")
}
