package roster

import (
	"fmt"
	"regexp"
)

// StructureEntry associe un code SIRH à un nom d'établissement.
type StructureEntry struct {
	Code string `toml:"code" json:"code"`
	Name string `toml:"name" json:"name"`
}

// StructureTable résout un code d'unité (complet ou suffixe à 3 chiffres)
// vers un nom d'établissement lisible.
type StructureTable struct {
	byCode map[string]string
}

var nonDigits = regexp.MustCompile(`\D`)

// NewStructureTable construit la table de résolution. Chaque code est
// enregistré deux fois: sous sa valeur complète et sous son suffixe à
// 3 chiffres, pour tolérer les codes courts rencontrés ailleurs dans le
// document.
func NewStructureTable(entries []StructureEntry) *StructureTable {
	t := &StructureTable{byCode: make(map[string]string, len(entries)*2)}
	for _, e := range entries {
		code := nonDigits.ReplaceAllString(e.Code, "")
		if code == "" {
			continue
		}
		t.byCode[code] = e.Name
		if len(code) > 3 {
			t.byCode[code[len(code)-3:]] = e.Name
		}
	}
	return t
}

// Resolve retourne le nom d'établissement d'un code. Les caractères non
// numériques sont ignorés. Un code inconnu retourne un nom de substitution,
// jamais une erreur.
func (t *StructureTable) Resolve(code string) string {
	cleaned := nonDigits.ReplaceAllString(code, "")
	if name, ok := t.byCode[cleaned]; ok {
		return name
	}
	if cleaned == "" {
		cleaned = code
	}
	return fmt.Sprintf("Structure %s", cleaned)
}
