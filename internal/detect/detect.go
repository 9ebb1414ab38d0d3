// Package detect infers profile fields from conversation text without asking
// the user: product type, operating model, sales channels, solo teams, and
// digital-presence handles, URLs and contacts mentioned in passing. It keeps
// the assistant from asking questions the user already answered.
package detect

import (
	"regexp"
	"strings"

	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/profile"
)

var (
	productRe = regexp.MustCompile(`fabric|vend[oe].*(?:brownie|bolo|doce|roupa|sapato|produto|mercadoria|artesanato|comida|salgado|camiseta|acessório|joia|bijuteria|cosmétic|móve[il]|móveis|planta|flor|cerveja|chocolate|pão|queijo|vela|sabonete)`)
	serviceRe = regexp.MustCompile(`presto.*servi[cç]o|consultoria|atendo.*cliente|marido de aluguel|design|fotograf|advogad|conta[db]|coach|personal|aula|curso|mentori|faxin|limpeza|manuten[cç]`)
	genericProductRe = regexp.MustCompile(`(?:vendo|faço|ofereço).{0,15}(?:produto|mercadoria)`)

	ownProductionRe = regexp.MustCompile(`compro.{0,25}ingrediente|fa[cç]o eu mesm|fabrico|produzo|cozinho|fa[cç]o.*caseiro|produ[cç][aã]o pr[oó]pria`)
	resaleRe        = regexp.MustCompile(`revend|compro.{0,15}pronto|import|atacado`)
	madeToOrderRe   = regexp.MustCompile(`sob encomenda|encomenda|primeiro.*paga|depois.*fa[cç]o`)

	soloRe = regexp.MustCompile(`trabalho sozinho|s[oó] eu|eu mesm[oa]|empreendedor solo|somente eu|apenas eu|toco sozinho`)

	channelPatterns = []struct {
		re    *regexp.Regexp
		label string
	}{
		{regexp.MustCompile(`instagram|insta\b`), "Instagram"},
		{regexp.MustCompile(`na rua|ambulante|vendo.*rua`), "venda na rua"},
		{regexp.MustCompile(`whatsapp|wpp|zap`), "WhatsApp"},
		{regexp.MustCompile(`loja\s+f[ií]sica|ponto.*comercial|minha loja`), "loja física"},
		{regexp.MustCompile(`site|e-?commerce|loja virtual|shopee|mercado livre|shopify`), "online"},
		{regexp.MustCompile(`ifood|rappi|uber eats|delivery`), "delivery"},
	}

	handleRe     = regexp.MustCompile(`@([a-zA-Z0-9_.]{2,30})`)
	igNamedRe    = regexp.MustCompile(`instagram[^\w]*(?:é|e|:)?\s*([a-zA-Z0-9_.]{3,30})`)
	urlRe        = regexp.MustCompile(`(https?://[^\s]+|www\.[^\s]+|[a-zA-Z0-9-]+\.(?:com\.br|com|net|org|io|app)[^\s]*)`)
	linkedinRe   = regexp.MustCompile(`linkedin\.com/(?:company|in)/([^\s/]+)`)
	phoneRe      = regexp.MustCompile(`(?:whatsapp|zap|wpp|fone|tel|celular)[^\d]*(\(?\d{2}\)?\s*\d{4,5}[-\s]?\d{4})`)
	barePhoneRe  = regexp.MustCompile(`\(?\d{2}\)?\s*9\d{4}[-\s]?\d{4}`)
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	mapsRe       = regexp.MustCompile(`maps\.google\.[^\s]+|goo\.gl/maps/[^\s]+|maps\.app\.goo\.gl/[^\s]+`)
)

var socialDomains = []string{
	"instagram.com", "linkedin.com", "facebook.com",
	"twitter.com", "x.com", "tiktok.com", "youtube.com",
}

// Infer scans the full user side of the conversation and returns values for
// fields still missing from the profile. Pure function; the caller merges.
func Infer(messages []model.Message, current profile.Profile) map[profile.Field]string {
	var sb strings.Builder
	for _, m := range messages {
		if m.Role == model.RoleUser {
			sb.WriteString(m.Content)
			sb.WriteString(" ")
		}
	}
	text := strings.ToLower(sb.String())
	inferred := make(map[profile.Field]string)

	missing := func(f profile.Field) bool {
		return current.Get(f) == "" && inferred[f] == ""
	}

	if missing(profile.FieldProductType) {
		switch {
		case productRe.MatchString(text):
			inferred[profile.FieldProductType] = "produto"
		case serviceRe.MatchString(text):
			inferred[profile.FieldProductType] = "serviço"
		case genericProductRe.MatchString(text):
			inferred[profile.FieldProductType] = "produto"
		}
	}

	if missing(profile.FieldOperatingModel) {
		switch {
		case ownProductionRe.MatchString(text):
			inferred[profile.FieldOperatingModel] = "fabricação própria"
		case resaleRe.MatchString(text):
			inferred[profile.FieldOperatingModel] = "revenda"
		case madeToOrderRe.MatchString(text):
			inferred[profile.FieldOperatingModel] = "sob encomenda"
		}
	}

	if missing(profile.FieldSalesChannels) {
		var channels []string
		for _, cp := range channelPatterns {
			if cp.re.MatchString(text) {
				channels = append(channels, cp.label)
			}
		}
		if len(channels) > 0 {
			inferred[profile.FieldSalesChannels] = strings.Join(channels, ", ")
		}
	}

	if missing(profile.FieldTeamSize) && soloRe.MatchString(text) {
		inferred[profile.FieldTeamSize] = "sozinho"
	}

	inferDigitalPresence(text, missing, inferred)

	return inferred
}

func inferDigitalPresence(text string, missing func(profile.Field) bool, inferred map[profile.Field]string) {
	if missing(profile.FieldInstagram) {
		if m := handleRe.FindStringSubmatch(text); m != nil {
			inferred[profile.FieldInstagram] = "@" + m[1]
		} else if m := igNamedRe.FindStringSubmatch(text); m != nil {
			inferred[profile.FieldInstagram] = "@" + m[1]
		}
	}

	if missing(profile.FieldSiteURL) {
		if m := urlRe.FindStringSubmatch(text); m != nil {
			url := m[1]
			if !strings.HasPrefix(url, "http") {
				url = "https://" + url
			}
			if !isSocialURL(url) {
				inferred[profile.FieldSiteURL] = url
			}
		}
	}

	if missing(profile.FieldLinkedIn) {
		if m := linkedinRe.FindStringSubmatch(text); m != nil {
			inferred[profile.FieldLinkedIn] = "https://linkedin.com/company/" + m[1]
		}
	}

	if missing(profile.FieldWhatsApp) {
		if m := phoneRe.FindStringSubmatch(text); m != nil {
			inferred[profile.FieldWhatsApp] = strings.TrimSpace(m[1])
		} else if m := barePhoneRe.FindString(text); m != "" {
			inferred[profile.FieldWhatsApp] = strings.TrimSpace(m)
		}
	}

	if missing(profile.FieldEmail) {
		if m := emailRe.FindString(text); m != "" {
			inferred[profile.FieldEmail] = m
		}
	}

	if missing(profile.FieldMapsURL) {
		if m := mapsRe.FindString(text); m != "" {
			inferred[profile.FieldMapsURL] = m
		}
	}
}

func isSocialURL(url string) bool {
	lower := strings.ToLower(url)
	for _, sd := range socialDomains {
		if strings.Contains(lower, sd) {
			return true
		}
	}
	return false
}
