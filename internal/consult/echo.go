package consult

import (
	"regexp"
	"strings"

	"github.com/growthdesk/consultor-cli/internal/grounding"
)

const (
	echoPrefixLen  = 30
	echoOverlapMin = 0.6
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*\s*`)

// filterEcho strips reply content that merely restates the user's own
// utterance. A reply opening with the user's text loses its first paragraph;
// individual sentences with heavy word overlap against the utterance are
// dropped. Returns "" when nothing survives, so the caller substitutes the
// next field prompt.
func filterEcho(reply, userMessage string) string {
	if reply == "" || len(userMessage) <= 10 {
		return reply
	}

	userNorm := strings.TrimSpace(grounding.Normalize(userMessage))
	replyNorm := strings.TrimSpace(grounding.Normalize(reply))

	if len(userNorm) > 10 {
		prefix := userNorm
		if len(prefix) > echoPrefixLen {
			prefix = prefix[:echoPrefixLen]
		}
		if strings.HasPrefix(replyNorm, prefix) {
			parts := strings.SplitN(reply, "\n\n", 2)
			if len(parts) == 2 {
				return strings.TrimSpace(parts[1])
			}
			return ""
		}
	}

	if len(userNorm) > 15 {
		userWords := contentWords(userNorm)
		if len(userWords) == 0 {
			return reply
		}
		var kept []string
		for _, sentence := range sentenceRe.FindAllString(reply, -1) {
			sNorm := grounding.Normalize(sentence)
			overlap := 0
			for _, w := range userWords {
				if strings.Contains(sNorm, w) {
					overlap++
				}
			}
			if float64(overlap)/float64(len(userWords)) > echoOverlapMin {
				continue
			}
			kept = append(kept, strings.TrimSpace(sentence))
		}
		return strings.Join(kept, " ")
	}

	return reply
}

func contentWords(norm string) []string {
	var out []string
	for _, w := range strings.Fields(norm) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}
