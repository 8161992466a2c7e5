package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	horizontalWS  = regexp.MustCompile(`[ \t]+`)
	multiWS       = regexp.MustCompile(`\s+`)
	placeholderRe = regexp.MustCompile(`(?i)^\s*(nom|pr[ée]nom)\s*[/:\-]?\s*`)
	placeholderAt = regexp.MustCompile(`(?i)^(nom|pr[ée]nom)\b`)
)

// Fold normalise un texte: décomposition NFKD sans les accents, suppression
// des NBSP/BOM, compression des blancs horizontaux, minuscules.
// Fonction totale: ne retourne jamais d'erreur, chaîne vide → chaîne vide.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case '\u00a0':
			b.WriteRune(' ')
		case '\ufeff':
			// BOM résiduel, jamais significatif
		default:
			b.WriteRune(r)
		}
	}
	out := horizontalWS.ReplaceAllString(b.String(), " ")
	return strings.ToLower(strings.TrimSpace(out))
}

// NormalizeGroupLabel normalise un libellé de bloc pour servir de clé de
// rapprochement avec les annotations de remplacement. Les deux côtés doivent
// passer par cette fonction, sinon le rapprochement échoue silencieusement.
func NormalizeGroupLabel(s string) string {
	s = Fold(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = multiWS.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	// variante orthographique rencontrée dans les exports
	s = strings.ReplaceAll(s, "remplaçant", "remplacant")
	return s
}

// StripPlaceholders retire les marqueurs de gabarit "Nom"/"Prénom" en tête de
// chaîne (insensible à la casse et aux accents, séparateur optionnel), en
// boucle tant qu'il en reste.
func StripPlaceholders(s string) string {
	s = strings.TrimSpace(s)
	s = placeholderRe.ReplaceAllString(s, "")
	for placeholderAt.MatchString(s) {
		s = placeholderRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}
