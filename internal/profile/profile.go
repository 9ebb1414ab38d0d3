package profile

// Profile maps canonical field names to collected values. Values are always
// stored as display strings; list-valued extractions are flattened before
// storage.
type Profile map[Field]string

// Get returns the stored value for a field, or "" when absent.
func (p Profile) Get(f Field) string {
	if p == nil {
		return ""
	}
	return p[f]
}

// Set stores a value, dropping empty strings.
func (p Profile) Set(f Field, v string) {
	if v == "" {
		return
	}
	p[f] = v
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Collected returns the fields present in p, in canonical order.
func (p Profile) Collected() []Field {
	var out []Field
	for _, s := range registry {
		if p.Get(s.Name) != "" {
			out = append(out, s.Name)
		}
	}
	return out
}

// PendingResearch holds a researched suggestion awaiting user confirmation.
// At most one exists per session.
type PendingResearch struct {
	Field          Field  `json:"field"`
	SuggestedValue string `json:"suggested_value"`
	TaskDesc       string `json:"task_description"`
}

// TaskRecord is an immutable deferred-research entry consumed by the
// downstream task planner.
type TaskRecord struct {
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Category    string `json:"categoria"`
	Origin      string `json:"origem"`
}

// Task origins.
const (
	TaskOriginAssisted   = "pesquisa_assistida"
	TaskOriginRejected   = "pesquisa_rejeitada"
	TaskOriginIrrelevant = "busca_irrelevante"
	TaskOriginFailed     = "busca_falhou"
)

// Meta is the internal session state carried alongside the profile. It never
// appears in user-facing or downstream-analysis views.
type Meta struct {
	Pending    *PendingResearch `json:"research_pending,omitempty"`
	Researched []Field          `json:"fields_researched,omitempty"`
	Tasks      []TaskRecord     `json:"research_tasks,omitempty"`
	// EarlySearch records that the one-time early market-context search
	// already ran for this session.
	EarlySearch bool `json:"early_search_done,omitempty"`
}

// MarkResearched records that a field has been researched this session.
// The set only grows.
func (m *Meta) MarkResearched(f Field) {
	for _, r := range m.Researched {
		if r == f {
			return
		}
	}
	m.Researched = append(m.Researched, f)
}

// WasResearched reports whether a field already triggered a research attempt.
func (m *Meta) WasResearched(f Field) bool {
	for _, r := range m.Researched {
		if r == f {
			return true
		}
	}
	return false
}

// AddTask appends a research task record.
func (m *Meta) AddTask(t TaskRecord) {
	m.Tasks = append(m.Tasks, t)
}

// State is the full per-session extraction state: the validated profile plus
// internal metadata. Each turn receives its own copy and returns the updated
// state; the caller persists it between turns.
type State struct {
	Profile Profile `json:"profile"`
	Meta    Meta    `json:"meta"`
}

// NewState returns an empty state ready for the first turn.
func NewState() State {
	return State{Profile: make(Profile)}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{Profile: s.Profile.Clone()}
	if s.Meta.Pending != nil {
		p := *s.Meta.Pending
		out.Meta.Pending = &p
	}
	out.Meta.Researched = append([]Field(nil), s.Meta.Researched...)
	out.Meta.Tasks = append([]TaskRecord(nil), s.Meta.Tasks...)
	out.Meta.EarlySearch = s.Meta.EarlySearch
	return out
}

// View returns the user-facing profile: collected fields only, pending
// fields excluded (a field pending confirmation reads as absent).
func (s State) View() map[Field]string {
	out := make(map[Field]string, len(s.Profile))
	for k, v := range s.Profile {
		if v == "" {
			continue
		}
		if s.Meta.Pending != nil && s.Meta.Pending.Field == k {
			continue
		}
		out[k] = v
	}
	return out
}
