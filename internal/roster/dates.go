package roster

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ccollombet/interim-2026/internal/textutil"
)

// Table des mois français, clés tronquées à 3-4 lettres. "juin"/"juil" se
// distinguent seulement à la 4e lettre, d'où la double longueur de clé.
var frenchMonths = map[string]string{
	"jan":  "01",
	"fev":  "02",
	"mar":  "03",
	"avr":  "04",
	"mai":  "05",
	"juin": "06",
	"juil": "07",
	"aou":  "08",
	"sep":  "09",
	"oct":  "10",
	"nov":  "11",
	"dec":  "12",
}

// Jours français indexés par time.Weekday (dimanche = 0).
var frenchWeekdays = [7]string{
	"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi",
}

var (
	headerDayRe = regexp.MustCompile(`(\d{1,2})\s*([a-z]{3,})`)
	dateLineRe  = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\s*:`)
	fullDateRe  = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
)

// ParseHeaderDate interprète une entête de colonne jour ("L02 Mars", "15 Juil")
// avec l'année de référence donnée. Retourne "dd/mm/yyyy" et true, ou false si
// l'entête n'est pas une date: l'appelant doit alors traiter la colonne comme
// décorative sans interrompre son balayage.
func ParseHeaderDate(header string, year int) (string, bool) {
	folded := strings.ReplaceAll(textutil.Fold(header), ".", "")
	m := headerDayRe.FindStringSubmatch(folded)
	if m == nil {
		return "", false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	month, ok := monthNumber(m[2])
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d/%s/%04d", day, month, year), true
}

func monthNumber(token string) (string, bool) {
	if len(token) >= 4 {
		if m, ok := frenchMonths[token[:4]]; ok {
			return m, true
		}
	}
	if len(token) >= 3 {
		if m, ok := frenchMonths[token[:3]]; ok {
			return m, true
		}
	}
	return "", false
}

// InferReferenceYear balaye la colonne identité de haut en bas et prend
// l'année de la première cellule "dd/mm/yyyy :". À défaut, l'année de repli.
func InferReferenceYear(f *excelize.File, sheet string, fallback int) int {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fallback
	}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if m := dateLineRe.FindStringSubmatch(row[0]); m != nil {
			if y, err := strconv.Atoi(m[3]); err == nil {
				return y
			}
		}
	}
	return fallback
}

// parseFullDate interprète un "dd/mm/yyyy" strict, pour le tri et le calcul
// du jour de semaine.
func parseFullDate(s string) (time.Time, bool) {
	m := fullDateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// FrenchDateLabel rend "Lundi 02/03/2026" pour une date "dd/mm/yyyy".
// Une date non interprétable est rendue telle quelle.
func FrenchDateLabel(date string) string {
	t, ok := parseFullDate(date)
	if !ok {
		return date
	}
	return frenchWeekdays[int(t.Weekday())] + " " + date
}
