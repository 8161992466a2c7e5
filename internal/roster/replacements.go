package roster

import (
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ccollombet/interim-2026/internal/textutil"
)

// (?s): le nom peut s'étaler sur plusieurs lignes de la cellule, le point
// doit donc traverser les sauts de ligne.
var annotationRe = regexp.MustCompile(`(?s)^(\d{2}/\d{2}/\d{4})\s*:\s*(.+)$`)

// ScanState est l'état du balayage de la colonne identité: hors bloc, ou à
// l'intérieur d'un bloc de remplaçants avec son libellé de groupe.
type ScanState struct {
	InReplacementBlock bool
	Group              string
}

// ScanIdentityRow est la fonction de transition du balayage, une ligne à la
// fois. Une ligne avec marqueur de catégorie est une ligne d'identité: elle
// réinitialise l'état et ne produit jamais de sortie. Une ligne sans marqueur
// est une ligne de détail: dans un bloc de remplaçants, une annotation
// "dd/mm/yyyy : Nom Prénom" produit un ReplacementRecord; tout le reste est
// ignoré sans erreur.
func ScanIdentityRow(state ScanState, identity, category string) (ScanState, *ReplacementRecord) {
	if strings.TrimSpace(category) != "" {
		next := ScanState{}
		if strings.TrimSpace(category) == categoryReplacement {
			next.InReplacementBlock = true
			next.Group = strings.TrimSpace(strings.ReplaceAll(identity, "\n", " "))
		}
		return next, nil
	}

	if !state.InReplacementBlock {
		return state, nil
	}
	m := annotationRe.FindStringSubmatch(strings.TrimSpace(identity))
	if m == nil {
		return state, nil
	}
	rest := textutil.StripPlaceholders(m[2])
	if rest == "" {
		return state, nil
	}
	nom, prenom := splitIdentity(rest)
	return state, &ReplacementRecord{
		Date:   m[1],
		Group:  state.Group,
		Nom:    nom,
		Prenom: prenom,
	}
}

// ExtractReplacements balaye la colonne identité de la feuille brute et
// retourne les annotations de remplaçants dans l'ordre du document.
func ExtractReplacements(f *excelize.File, sheet string) ([]ReplacementRecord, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var records []ReplacementRecord
	state := ScanState{}
	for _, row := range rows {
		identity := cellAt(row, colIdentity)
		category := cellAt(row, colCategory)
		var rec *ReplacementRecord
		state, rec = ScanIdentityRow(state, identity, category)
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// replacementIndex indexe les annotations par (groupe normalisé, date).
// Les doublons conservent l'ordre d'apparition, le rapprochement prend le
// premier.
type replacementIndex map[string][]ReplacementRecord

func indexReplacements(records []ReplacementRecord) replacementIndex {
	idx := make(replacementIndex, len(records))
	for _, r := range records {
		key := replacementKey(r.Group, r.Date)
		idx[key] = append(idx[key], r)
	}
	return idx
}

func (idx replacementIndex) first(group, date string) (ReplacementRecord, bool) {
	list := idx[replacementKey(group, date)]
	if len(list) == 0 {
		return ReplacementRecord{}, false
	}
	return list[0], true
}

func replacementKey(group, date string) string {
	return textutil.NormalizeGroupLabel(group) + "|" + date
}

// splitIdentity coupe un texte d'identité en (nom, prénom): sur le premier
// saut de ligne s'il y en a un, sinon sur la première suite d'espaces.
func splitIdentity(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// cellAt retourne la valeur (1-based) d'une colonne dans une ligne GetRows,
// vide si la ligne est plus courte.
func cellAt(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return row[col-1]
}
