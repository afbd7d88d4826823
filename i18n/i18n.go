// Package i18n resolves the UI language and translates message codes.
// French is the reference language; unknown languages fall back to it.
package i18n

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultLang = "fr"

var (
	supported = []language.Tag{language.French, language.English}
	matcher   = language.NewMatcher(supported)
)

var messages = map[string]map[string]string{
	"fr": {
		"required":                 "Requis",
		"must_be_positive":         "Doit être positif",
		"must_not_be_negative":     "Ne peut pas être négatif",
		"out_of_range":             "Hors limites",
		"invalid_choice":           "Valeur non autorisée",
		"invalid_time":             "Heure invalide (HH:MM)",
		"invalid_date":             "Date invalide",
		"invalid_json":             "Corps de requête invalide",
		"already_used":             "Déjà utilisé",
		"not_found":                "Introuvable",
		"unauthorized":             "Authentification requise",
		"forbidden":                "Accès refusé",
		"invalid_credentials":      "CIN ou mot de passe incorrect",
		"password_change_required": "Changement de mot de passe obligatoire",
		"status_not_allowed":       "Statut non autorisé pour votre rôle",
		"access_denied_day":        "Accès non autorisé ce jour",
		"access_denied_time":       "Accès autorisé de %s à %s",
		"access_disabled":          "Votre accès a été temporairement désactivé",
		"no_restriction":           "Aucune restriction configurée",
		"access_granted":           "Accès autorisé",
		"solde_initial":            "Solde initial",
		"solde_debut_periode":      "Solde au début de période",
		"client_id_required":       "client_id requis quand remise_is_client = true",
		"whatsapp_not_configured":  "Service WhatsApp non configuré",
		"statement_title":          "Relevé de compte",
		"internal_error":           "Erreur interne",
	},
	"en": {
		"required":                 "Required",
		"must_be_positive":         "Must be positive",
		"must_not_be_negative":     "Cannot be negative",
		"out_of_range":             "Out of range",
		"invalid_choice":           "Value not allowed",
		"invalid_time":             "Invalid time (HH:MM)",
		"invalid_date":             "Invalid date",
		"invalid_json":             "Invalid request body",
		"already_used":             "Already in use",
		"not_found":                "Not found",
		"unauthorized":             "Authentication required",
		"forbidden":                "Forbidden",
		"invalid_credentials":      "Wrong CIN or password",
		"password_change_required": "Password change required",
		"status_not_allowed":       "Status not allowed for your role",
		"access_denied_day":        "Access not allowed today",
		"access_denied_time":       "Access allowed from %s to %s",
		"access_disabled":          "Your access has been temporarily disabled",
		"no_restriction":           "No restriction configured",
		"access_granted":           "Access granted",
		"solde_initial":            "Opening balance",
		"solde_debut_periode":      "Balance at period start",
		"client_id_required":       "client_id is required when remise_is_client = true",
		"whatsapp_not_configured":  "WhatsApp service not configured",
		"statement_title":          "Account statement",
		"internal_error":           "Internal error",
	},
}

// T translates code, falling back to French then to the code itself.
func T(lang, code string) string {
	if m, ok := messages[normalize(lang)]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks the best supported language from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	base, _ := supported[idx].Base()
	return base.String()
}

func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

// FormatAmount renders a money amount the way printed statements show it:
// locale grouping, two decimals, "DH" suffix.
func FormatAmount(lang string, amount decimal.Decimal) string {
	tag := language.French
	if normalize(lang) == "en" {
		tag = language.English
	}
	f, _ := amount.Round(2).Float64()
	return message.NewPrinter(tag).Sprintf("%.2f", f) + " DH"
}

// StartLabel translates the opening line of a statement. Labels without a
// translation are returned unchanged.
func StartLabel(lang, label string) string {
	switch label {
	case messages[DefaultLang]["solde_initial"]:
		return T(lang, "solde_initial")
	case messages[DefaultLang]["solde_debut_periode"]:
		return T(lang, "solde_debut_periode")
	}
	return label
}

type langKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(langKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
