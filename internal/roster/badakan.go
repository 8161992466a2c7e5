package roster

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// BadakanReport décrit ce que l'étape 3 a produit.
type BadakanReport struct {
	Rows          int    `json:"rows"`
	SkippedShifts int    `json:"skippedShifts"`
	Etablissement string `json:"etablissement"`
}

// entête fixe de l'export Badakan, 15 colonnes, point-virgule, UTF-8 BOM
var badakanHeaders = []string{
	"Nom",
	"Prénom",
	"Intitulé de poste",
	"Etablissement",
	"Date",
	"Heure de début",
	"Pause",
	"Heure de fin",
	"Heures travaillées",
	"Personne remplacée",
	"Motif",
	"Commentaire",
	"Information complémentaire",
	"Service",
	"Unité",
}

var timeTokenRe = regexp.MustCompile(`^(\d{1,2})[:hH]?(\d{2})$`)

// Shift résume une vacation éventuellement multi-segments.
type Shift struct {
	Start     string
	End       string
	WorkedMin int
	BreakMin  int
}

// ParseShiftHours interprète un texte d'horaires "début-fin" (segments
// séparés par "/"): début global = début du premier segment, fin globale =
// fin du dernier, travaillé = somme des segments, pause = amplitude moins
// travaillé, jamais négative (une plage mal formée ne produit pas de pause
// négative). Retourne false si aucun segment n'est interprétable.
func ParseShiftHours(s string) (Shift, bool) {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return Shift{}, false
	}

	var (
		shift    Shift
		startMin = -1
		endMin   = -1
	)
	for _, seg := range strings.Split(s, "/") {
		if seg == "" {
			continue
		}
		parts := strings.SplitN(seg, "-", 2)
		if len(parts) != 2 {
			continue
		}
		from, fromMin, ok := normalizeTimeToken(parts[0])
		if !ok {
			continue
		}
		to, toMin, ok := normalizeTimeToken(parts[1])
		if !ok {
			continue
		}
		if startMin < 0 {
			shift.Start = from
			startMin = fromMin
		}
		shift.End = to
		endMin = toMin
		if toMin > fromMin {
			shift.WorkedMin += toMin - fromMin
		}
	}
	if startMin < 0 {
		return Shift{}, false
	}
	if span := endMin - startMin; span > shift.WorkedMin {
		shift.BreakMin = span - shift.WorkedMin
	}
	return shift, true
}

// normalizeTimeToken accepte "HHMM", "H:MM", "HH:MM" (séparateur ":" ou "h")
// et rend la forme canonique "HH:MM" avec les minutes depuis minuit.
func normalizeTimeToken(tok string) (string, int, bool) {
	m := timeTokenRe.FindStringSubmatch(tok)
	if m == nil {
		return "", 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mn, _ := strconv.Atoi(m[2])
	if h > 23 || mn > 59 {
		return "", 0, false
	}
	return fmt.Sprintf("%02d:%02d", h, mn), h*60 + mn, true
}

// FormatBreak rend une durée de pause en "HH:MM".
func FormatBreak(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatWorkedHours rend des minutes travaillées en heures décimales
// arrondies à 2 décimales, virgule décimale, au moins une décimale
// ("8,0", "3,5", "7,25").
func FormatWorkedHours(minutes int) string {
	v := math.Round(float64(minutes)/60.0*100) / 100
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if strings.HasSuffix(s, "0") {
		s = s[:len(s)-1]
	}
	return strings.ReplaceAll(s, ".", ",")
}

// ExportBadakan exécute l'étape 3: lit les lignes de la feuille interimaire
// et le titre de la feuille lecture, calcule début/pause/fin/heures de chaque
// vacation et écrit l'export délimité. L'absence des feuilles requises est
// une violation de contrat d'appel: erreur franche, pas de récupération.
func ExportBadakan(wbPath, outPath string, cfg Config) (*BadakanReport, error) {
	cfg = cfg.withDefaults()

	f, err := excelize.OpenFile(wbPath)
	if err != nil {
		return nil, fmt.Errorf("ouverture du classeur: %w", err)
	}
	defer f.Close()

	for _, required := range []string{SheetInterimaire, SheetLecture} {
		idx, err := f.GetSheetIndex(required)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("feuille %q absente du classeur %s: lancer d'abord le pipeline complet", required, wbPath)
		}
	}

	etablissement, err := f.GetCellValue(SheetLecture, "A1")
	if err != nil {
		return nil, fmt.Errorf("lecture du titre d'établissement: %w", err)
	}
	etablissement = strings.TrimSpace(etablissement)

	rows, err := f.GetRows(SheetInterimaire)
	if err != nil {
		return nil, err
	}

	report := &BadakanReport{Etablissement: etablissement}
	var records []BadakanRecord
	lastDate := ""
	seq := 0
	for i := firstDataRow - 1; i < len(rows); i++ {
		row := rows[i]
		date := strings.TrimSpace(cellAt(row, 1))
		group := strings.TrimSpace(cellAt(row, 2))
		hours := strings.TrimSpace(cellAt(row, 3))
		motif := strings.TrimSpace(cellAt(row, 4))
		replaced := strings.TrimSpace(cellAt(row, 5))
		if date == "" && hours == "" {
			continue
		}

		shift, ok := ParseShiftHours(hours)
		if !ok {
			report.SkippedShifts++
			continue
		}

		if date != lastDate {
			lastDate = date
			seq = 0
		}
		seq++

		records = append(records, BadakanRecord{
			Nom:           "Interimaire",
			Prenom:        fmt.Sprintf("Interimaire_%d", seq),
			Poste:         cfg.JobTitle,
			Etablissement: etablissement,
			DateLabel:     FrenchDateLabel(date),
			Start:         shift.Start,
			Break:         FormatBreak(shift.BreakMin),
			End:           shift.End,
			Worked:        FormatWorkedHours(shift.WorkedMin),
			Replaced:      replaced,
			Motif:         motif,
			Unite:         group,
		})
	}

	if err := writeBadakanCSV(outPath, records); err != nil {
		return nil, err
	}
	report.Rows = len(records)
	return report, nil
}

// writeBadakanCSV écrit l'export: point-virgule, UTF-8 avec BOM, entête
// incluse. Fermeture garantie sur tous les chemins de sortie.
func writeBadakanCSV(path string, records []BadakanRecord) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("création de l'export: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = out.WriteString("\ufeff"); err != nil {
		return err
	}

	w := csv.NewWriter(out)
	w.Comma = ';'
	if err = w.Write(badakanHeaders); err != nil {
		return err
	}
	for _, r := range records {
		line := []string{
			r.Nom, r.Prenom, r.Poste, r.Etablissement, r.DateLabel,
			r.Start, r.Break, r.End, r.Worked,
			r.Replaced, r.Motif, r.Commentaire, r.Complement, r.Service, r.Unite,
		}
		if err = w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return err
	}
	return nil
}
