package grounding

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/growthdesk/consultor-cli/internal/profile"
)

// Defaults tuned against real transcripts.
const (
	DefaultFuzzyThreshold = 0.70
	DefaultMoneyTolerance = 0.10
	shortAnswerWords      = 5
)

// socialDomains are rejected as site_url values: a link to a social network
// is not the business's own website.
var socialDomains = []string{
	"instagram.com", "linkedin.com", "facebook.com",
	"twitter.com", "x.com", "tiktok.com", "youtube.com",
}

// zeroCapitalRe matches user phrasings for having nothing to invest.
var zeroCapitalRe = regexp.MustCompile(`nada|zero|nenhum|n[aã]o.*posso|sem.*capital|sem.*dinheiro`)

// detectionPatterns maps canonical detected values to the keyword patterns
// that justify them. Detected fields are inferred from how the user talks,
// not quoted, so plain word overlap is too strict.
var detectionPatterns = map[string]*regexp.Regexp{
	// modelo_operacional
	"sob encomenda":   regexp.MustCompile(`encomenda|primeiro.*paga|depois.*envio|n[aã]o.*estoque|sem.*estoque`),
	"dropshipping":    regexp.MustCompile(`dropship|drop\s*ship|fornecedor.*direto|n[aã]o.*estoque`),
	"estoque proprio": regexp.MustCompile(`estoque|produtos.*loja|guardo`),
	"consignacao":     regexp.MustCompile(`consign|parceiro|revend`),
	// capital_disponivel
	"zero":  regexp.MustCompile(`zero|n[aã]o.*capital|sem.*dinheiro|n[aã]o.*investi|pouco|nada`),
	"baixo": regexp.MustCompile(`pouco|baixo|limitado|restrito`),
	// principal_gargalo
	"credibilidade": regexp.MustCompile(`credibilidade|confian[cç]a|desconfia|golpe|medo`),
	"tempo":         regexp.MustCompile(`sozinho|n[aã]o.*tempo|sobrecarreg`),
	"capital":       regexp.MustCompile(`capital|dinheiro|investir|recurso`),
	// num_funcionarios
	"1":       regexp.MustCompile(`s[oó] eu|sozinho|uma pessoa|1 pessoa|apenas eu`),
	"sozinho": regexp.MustCompile(`s[oó] eu|sozinho|uma pessoa|apenas eu`),
}

// Validator applies the per-field-class grounding strategies.
type Validator struct {
	// FuzzyThreshold is the character-frequency similarity needed for a
	// typo-tolerant single-word match.
	FuzzyThreshold float64
	// MoneyTolerance is the relative tolerance for monetary magnitude matches.
	MoneyTolerance float64
}

// NewValidator returns a validator with default thresholds.
func NewValidator() *Validator {
	return &Validator{FuzzyThreshold: DefaultFuzzyThreshold, MoneyTolerance: DefaultMoneyTolerance}
}

// Clean filters a raw extraction proposal down to the values that either
// have textual basis in the user's accumulated text or were already
// validated in a prior turn. Previously validated values are sticky: an
// ungrounded overwrite keeps the old value.
func (v *Validator) Clean(proposal map[profile.Field]any, userText string, prev profile.Profile) profile.Profile {
	validated := make(profile.Profile)
	userNorm := Normalize(userText)

	// The extractor sometimes drops the business-model token into segmento.
	// Move it where it belongs before per-field validation.
	if seg, ok := flatten(proposal[profile.FieldSegment]); ok {
		if tok := enumToken(seg); tok != "" {
			zap.L().Debug("moving business-model token out of segment", zap.String("value", tok))
			proposal[profile.FieldBusinessModel] = tok
			delete(proposal, profile.FieldSegment)
		}
	}

	for field, raw := range proposal {
		value, ok := flatten(raw)
		if !ok {
			continue
		}

		spec, known := profile.Lookup(field)
		if !known && field != profile.FieldMarketingBudget {
			continue
		}

		accepted, cleaned := v.accept(field, spec, value, userNorm)

		// Sticky rule: once validated, a field survives ungrounded proposals.
		if prevVal := prev.Get(field); prevVal != "" {
			validated[field] = prevVal
			if accepted && cleaned != prevVal {
				validated[field] = cleaned
			}
			continue
		}

		if accepted {
			validated[field] = cleaned
		} else {
			zap.L().Debug("grounding rejected",
				zap.String("field", string(field)),
				zap.String("value", value),
			)
		}
	}

	return validated
}

// accept runs the field-class strategy. Returns the possibly canonicalized
// value on success.
func (v *Validator) accept(field profile.Field, spec profile.Spec, value, userNorm string) (bool, string) {
	switch field {
	case profile.FieldBusinessModel:
		tok := enumToken(value)
		return tok != "", tok
	case profile.FieldSiteURL:
		lower := strings.ToLower(value)
		for _, sd := range socialDomains {
			if strings.Contains(lower, sd) {
				return false, ""
			}
		}
	case profile.FieldAvailableCapital, profile.FieldMarketingBudget:
		low := strings.TrimSpace(strings.ToLower(value))
		if low == "zero" || low == "nada" || low == "nenhum" {
			return zeroCapitalRe.MatchString(userNorm), value
		}
	}

	switch spec.Class {
	case profile.ClassMonetary:
		if n, ok := ExtractNumber(value); ok {
			if MagnitudeMatch(n, userNorm, v.MoneyTolerance) {
				return true, value
			}
			return false, ""
		}
		return v.lenientBasis(value, userNorm), value
	case profile.ClassDetected:
		return v.detectedBasis(value, userNorm), value
	default:
		return v.lenientBasis(value, userNorm), value
	}
}

// lenientBasis is the free-text strategy: word containment, fuzzy match for
// single-word values, and short-answer leniency.
func (v *Validator) lenientBasis(value, userNorm string) bool {
	valNorm := Normalize(value)
	valWords := contentWords(valNorm, 1)

	for _, w := range valWords {
		if len(w) > 2 && strings.Contains(userNorm, w) {
			return true
		}
	}
	if valNorm != "" && strings.Contains(userNorm, valNorm) {
		return true
	}

	if len(valWords) == 1 {
		for _, uw := range strings.Fields(userNorm) {
			if len(uw) > 3 && Similar(valWords[0], uw, v.FuzzyThreshold) {
				return true
			}
		}
	}

	// A short utterance is almost certainly the answer to whatever was just
	// asked; rejecting it would make the conversation loop.
	return len(strings.Fields(userNorm)) <= shortAnswerWords
}

// detectedBasis is the inferred-field strategy: canonical value to keyword
// pattern, falling back to content-word overlap.
func (v *Validator) detectedBasis(value, userNorm string) bool {
	valNorm := strings.TrimSpace(Normalize(value))
	if re, ok := detectionPatterns[valNorm]; ok && re.MatchString(userNorm) {
		return true
	}
	words := contentWords(valNorm, 3)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if strings.Contains(userNorm, w) {
			return true
		}
	}
	return false
}

// enumToken canonicalizes a candidate business-model value, returning "" when
// it is not in the closed token set.
func enumToken(value string) string {
	up := strings.ToUpper(strings.TrimSpace(value))
	for _, tok := range profile.BusinessModelTokens {
		if up == tok {
			return tok
		}
	}
	return ""
}

// flatten converts a raw proposal value into a display string. Lists are
// joined; nulls, empty strings and empty lists are dropped.
func flatten(raw any) (string, bool) {
	switch val := raw.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(val)
		if s == "" || strings.EqualFold(s, "null") {
			return "", false
		}
		return s, true
	case []any:
		var parts []string
		for _, item := range val {
			if s, ok := flatten(item); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ", "), true
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val)), true
		}
		return fmt.Sprintf("%g", val), true
	case bool:
		return fmt.Sprintf("%t", val), true
	default:
		return "", false
	}
}
