package consult

import (
	"strings"

	"github.com/growthdesk/consultor-cli/internal/intent"
	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/profile"
	"github.com/growthdesk/consultor-cli/internal/research"
)

// searchDecision is the outcome of the proactive-search policy.
type searchDecision struct {
	do      bool
	query   string
	purpose string
	// field is set when the search targets a specific researchable field and
	// its result should become a pending suggestion.
	field profile.Field
	// early marks the one-time market-context search.
	early bool
}

// earlySearchWindow is the message count under which the one-time market
// search may still fire.
const earlySearchWindow = 4

// decideSearch implements the proactive-search policy: explicit ignorance
// starts field research, a problem statement maps to a canned topic, and once
// name, segment and location are known an early generic market search runs a
// single time.
func decideSearch(userMessage string, messages []model.Message, st profile.State) searchDecision {
	segment := st.Profile.Get(profile.FieldSegment)
	location := st.Profile.Get(profile.FieldLocation)

	if intent.DontKnow(userMessage) {
		field := research.NextField(st, intent.FieldFromContext(messages))
		if field != "" {
			if tmpl, ok := research.TemplateFor(field); ok {
				return searchDecision{
					do:      true,
					query:   research.Expand(tmpl.Search, st.Profile),
					purpose: tmpl.Description,
					field:   field,
				}
			}
		}

		// Nothing field-specific left to research; run a generic lookup so the
		// user's ask for help is not ignored.
		var query string
		if segment != "" {
			query = strings.TrimSpace(segment + " " + location + " informações mercado características")
		} else {
			name := st.Profile.Get(profile.FieldBusinessName)
			if name == "" {
				name = "pequenos negócios"
			}
			query = name + " negócio informações mercado"
		}
		return searchDecision{do: true, query: query, purpose: "Pesquisa geral"}
	}

	if topic := intent.MatchProblem(userMessage); topic != nil {
		seg := segment
		if seg == "" {
			seg = "pequenos negócios"
		}
		loc := location
		if loc == "" {
			loc = "Brasil"
		}
		query := strings.NewReplacer("{segmento}", seg, "{localizacao}", loc).Replace(topic.Query)
		return searchDecision{do: true, query: query, purpose: topic.Purpose}
	}

	if len(messages) <= earlySearchWindow && segment != "" && location != "" && !st.Meta.EarlySearch {
		return searchDecision{
			do:      true,
			query:   segment + " " + location + " mercado oportunidades público-alvo",
			purpose: "Pesquisa inicial de mercado",
			early:   true,
		}
	}

	return searchDecision{}
}
