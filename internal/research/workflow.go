package research

import (
	"go.uber.org/zap"

	"github.com/growthdesk/consultor-cli/internal/intent"
	"github.com/growthdesk/consultor-cli/internal/profile"
)

// Outcome is the terminal state of a pending research record.
type Outcome int

const (
	// OutcomeNone means there was nothing pending.
	OutcomeNone Outcome = iota
	// OutcomeConfirmed committed the suggested value.
	OutcomeConfirmed
	// OutcomeRejected discarded the suggestion; the field stays empty.
	OutcomeRejected
	// OutcomeOverridden stored the user's own answer verbatim.
	OutcomeOverridden
)

// ResolvePending applies the user's reply to the pending research record, if
// any. Rejection patterns win over confirmation patterns; a renewed "don't
// know" counts as acceptance; anything else is the user supplying their own
// answer, stored verbatim since it is fresh user text. In every case the
// field is marked researched and the pending record is cleared, so at most
// one record ever exists.
func ResolvePending(st *profile.State, userMessage string) Outcome {
	pending := st.Meta.Pending
	if pending == nil || userMessage == "" {
		return OutcomeNone
	}

	field := pending.Field
	resolved := OutcomeOverridden

	switch resp := intent.Classify(userMessage); {
	case resp == intent.Reject:
		st.Meta.AddTask(profile.TaskRecord{
			Title:       "Pesquisar melhor: " + profile.Label(field),
			Description: TaskDescription(field, st.Profile) + " (pesquisa inicial rejeitada pelo usuário)",
			Category:    "pesquisa",
			Origin:      profile.TaskOriginRejected,
		})
		resolved = OutcomeRejected
	case resp == intent.Confirm, intent.StillDontKnow(userMessage):
		st.Profile.Set(field, pending.SuggestedValue)
		st.Meta.AddTask(profile.TaskRecord{
			Title:       "Aprofundar: " + profile.Label(field),
			Description: pending.TaskDesc,
			Category:    "pesquisa",
			Origin:      profile.TaskOriginAssisted,
		})
		resolved = OutcomeConfirmed
	default:
		st.Profile.Set(field, userMessage)
	}

	st.Meta.MarkResearched(field)
	st.Meta.Pending = nil

	zap.L().Info("research resolved",
		zap.String("field", string(field)),
		zap.Int("outcome", int(resolved)),
	)
	return resolved
}

// SetPending records a researched suggestion awaiting confirmation. While
// pending, the field reads as absent and no new search may start.
func SetPending(st *profile.State, field profile.Field, suggestion string) {
	st.Meta.Pending = &profile.PendingResearch{
		Field:          field,
		SuggestedValue: suggestion,
		TaskDesc:       TaskDescription(field, st.Profile),
	}
	delete(st.Profile, field)
}

// LogUnusable records that a search for a field produced no usable material
// (irrelevant results or none at all), leaving a deferred task instead of a
// suggestion, and marks the field researched so it is not retried.
func LogUnusable(st *profile.State, field profile.Field, origin string) {
	note := " (busca automática não retornou resultados relevantes)"
	st.Meta.AddTask(profile.TaskRecord{
		Title:       "Pesquisar: " + profile.Label(field),
		Description: TaskDescription(field, st.Profile) + note,
		Category:    "pesquisa",
		Origin:      origin,
	})
	st.Meta.MarkResearched(field)
}

// NextField picks the field to research when the user signals ignorance:
// the next not-yet-collected field in canonical order if researchable, else
// the field inferred from the assistant's last question, else the first
// remaining researchable field. Fields already researched this session are
// never picked again.
func NextField(st profile.State, contextField profile.Field) profile.Field {
	remaining := profile.Remaining(st.Profile)

	if len(remaining) > 0 {
		next := remaining[0]
		if profile.IsResearchable(next) && !st.Meta.WasResearched(next) {
			return next
		}
	}
	if contextField != "" && profile.IsResearchable(contextField) && !st.Meta.WasResearched(contextField) {
		return contextField
	}
	for _, f := range remaining {
		if profile.IsResearchable(f) && !st.Meta.WasResearched(f) {
			return f
		}
	}
	return ""
}
