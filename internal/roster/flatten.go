package roster

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ccollombet/interim-2026/internal/textutil"
)

// FlattenReport décrit ce que l'étape 2 a produit.
type FlattenReport struct {
	Title             string `json:"title"`
	LectureRows       int    `json:"lectureRows"`
	InterimRows       int    `json:"interimRows"`
	SkippedZeroShifts int    `json:"skippedZeroShifts"`
}

var (
	// code groupe strict: 3 chiffres puis "G" + 1-2 chiffres, ou une lettre
	// + 0-2 chiffres
	groupCodeRe   = regexp.MustCompile(`^\d{3}(?:G\d{1,2}|[A-Za-z]\d{0,2})$`)
	groupSuffixRe = regexp.MustCompile(`G\d{1,2}`)
	unitDigitsRe  = regexp.MustCompile(`\d{3}`)
	zeroShiftRe   = regexp.MustCompile(`^0{1,2}:0{2}-0{1,2}:0{2}$`)
	spacesRe      = regexp.MustCompile(`\s+`)
)

var lectureHeaders = []string{
	"Date", "Groupe", "Horaires", "Motif", "Personne remplacée", "Nom Prénom", "Agence",
}

const (
	tableLecture = "TableLecture"
	tableInterim = "TableInterimaire"
	motifSheet   = "motifs"
)

// Flatten exécute l'étape 2: aplatit le planning remis en forme en une
// feuille "lecture" (une ligne par personne et par jour) et une feuille
// "interimaire" (sous-ensemble à pourvoir, colonnes Nom/Agence en références
// vivantes vers lecture), puis enregistre le classeur sous dstPath.
// unitCode est le code d'unité capturé par l'étape 1 (voir
// ReshapeReport.UnitCode); vide, le titre est résolu depuis le classeur.
// Ré-exécutable: les feuilles et tables générées par un passage précédent
// sont retirées avant régénération.
func Flatten(srcPath, dstPath string, year int, unitCode string, cfg Config) (*FlattenReport, error) {
	cfg = cfg.withDefaults()

	f, err := excelize.OpenFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("ouverture du planning remis en forme: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("classeur sans feuille: %s", srcPath)
	}
	sheet := sheets[0]

	// titre d'un passage précédent, réutilisable si la feuille de planning ne
	// porte plus le code d'unité
	previousTitle := ""
	if idx, err := f.GetSheetIndex(SheetLecture); err == nil && idx >= 0 {
		if v, err := f.GetCellValue(SheetLecture, "A1"); err == nil {
			previousTitle = strings.TrimSpace(v)
		}
	}

	removeGeneratedSheets(f)

	labelCol, ok := findLabelColumn(f, sheet)
	if !ok {
		return nil, fmt.Errorf("colonne des libellés introuvable dans %q", sheet)
	}

	report := &FlattenReport{}
	records, err := collectLectureRecords(f, sheet, labelCol, year, report)
	if err != nil {
		return nil, err
	}

	sortByDateThenGroup(records)
	for i := range records {
		records[i].RowSource = firstDataRow + i
	}

	interim := make([]LectureRecord, 0)
	for _, rec := range records {
		if textutil.Fold(rec.Location) == textutil.Fold(locationToFill) {
			interim = append(interim, rec)
		}
	}

	title := resolveTitle(f, sheet, records, cfg, unitCode, previousTitle)
	report.Title = title
	report.LectureRows = len(records)
	report.InterimRows = len(interim)

	if err := writeMotifSheet(f, cfg.Motifs); err != nil {
		return nil, err
	}
	if err := writeLectureSheet(f, title, records, cfg.Motifs); err != nil {
		return nil, err
	}
	if err := writeInterimSheet(f, title, interim); err != nil {
		return nil, err
	}

	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	if err := f.SaveAs(dstPath); err != nil {
		return nil, fmt.Errorf("écriture du classeur final: %w", err)
	}
	return report, nil
}

// removeGeneratedSheets retire les feuilles et objets table d'un passage
// précédent pour garantir une régénération identique.
func removeGeneratedSheets(f *excelize.File) {
	for _, sheet := range f.GetSheetList() {
		tables, err := f.GetTables(sheet)
		if err != nil {
			continue
		}
		for _, tbl := range tables {
			if tbl.Name == tableLecture || tbl.Name == tableInterim {
				_ = f.DeleteTable(tbl.Name)
			}
		}
	}
	for _, name := range []string{SheetLecture, SheetInterimaire, motifSheet} {
		if idx, err := f.GetSheetIndex(name); err == nil && idx >= 0 {
			_ = f.DeleteSheet(name)
		}
	}
}

// collectLectureRecords parcourt chaque bloc "Hor." et chaque colonne jour
// et émet une ligne par affectation non vide. Les vacations "00:00-00:00"
// sont des lignes sentinelles sans service réel: jamais émises.
func collectLectureRecords(f *excelize.File, sheet string, labelCol, year int, report *FlattenReport) ([]LectureRecord, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	dayCols := dayColumnsTolerant(rows, labelCol, year)

	var records []LectureRecord
	for i, row := range rows {
		if strings.TrimSpace(cellAt(row, labelCol)) != labelHours {
			continue
		}
		if i+4 >= len(rows) {
			continue
		}
		locationRow := rows[i+1]
		activityRow := rows[i+2]
		nameRow := rows[i+3]
		firstNameRow := rows[i+4]

		identity := strings.TrimSpace(strings.ReplaceAll(cellAt(row, colIdentity), "\n", " "))
		unitLabel := strings.TrimSpace(cellAt(row, colUnit))

		for col, date := range dayCols {
			hours := strings.TrimSpace(strings.ReplaceAll(cellAt(row, col), "\n", ""))
			activity := strings.TrimSpace(cellAt(activityRow, col))
			if hours == "" && activity == "" {
				continue
			}
			if zeroShiftRe.MatchString(spacesRe.ReplaceAllString(hours, "")) {
				report.SkippedZeroShifts++
				continue
			}

			group := unitLabel
			if groupCodeRe.MatchString(activity) {
				group = activity
			}

			nom := textutil.StripPlaceholders(cellAt(nameRow, col))
			prenom := textutil.StripPlaceholders(cellAt(firstNameRow, col))
			name := strings.TrimSpace(nom + " " + prenom)
			if name == "" {
				name = identity
			}

			records = append(records, LectureRecord{
				Date:     date,
				Group:    group,
				Hours:    hours,
				Name:     name,
				Location: strings.TrimSpace(cellAt(locationRow, col)),
			})
		}
	}
	return records, nil
}

// dayColumnsTolerant liste les colonnes jour à droite de la colonne des
// libellés. Jusqu'à 2 colonnes consécutives vides ou non interprétables sont
// tolérées avant de considérer la plage terminée (cellules décoratives
// fusionnées), puis le balayage s'arrête.
func dayColumnsTolerant(rows [][]string, labelCol, year int) map[int]string {
	dates := make(map[int]string)
	if len(rows) == 0 {
		return dates
	}
	header := rows[headerRow-1]

	misses := 0
	for col := labelCol + 1; col <= len(header)+3; col++ {
		date, ok := ParseHeaderDate(cellAt(header, col), year)
		if !ok {
			misses++
			if misses > 2 {
				break
			}
			continue
		}
		misses = 0
		dates[col] = date
	}
	return dates
}

func sortByDateThenGroup(records []LectureRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		di, iOK := parseFullDate(records[i].Date)
		dj, jOK := parseFullDate(records[j].Date)
		switch {
		case iOK && jOK && !di.Equal(dj):
			return di.Before(dj)
		case iOK != jOK:
			return iOK // dates interprétables d'abord
		case records[i].Date != records[j].Date:
			return records[i].Date < records[j].Date
		}
		return records[i].Group < records[j].Group
	})
}

// resolveTitle construit le titre des feuilles générées: code d'unité capturé
// par l'étape 1, résolu en nom d'établissement et suffixé du jeton de groupe
// ("G1") trouvé dans les codes groupe. Sans code capturé, sonde le haut de la
// colonne B via les valeurs physiques des lignes (les cellules recouvertes
// par la fusion A-C sont vides, jamais la valeur d'ancrage), en exigeant un
// code à 3 chiffres; en dernier recours, le titre d'un passage précédent.
func resolveTitle(f *excelize.File, sheet string, records []LectureRecord, cfg Config, unitCode, previousTitle string) string {
	raw := strings.TrimSpace(unitCode)
	if raw == "" {
		rows, err := f.GetRows(sheet)
		if err == nil {
			for i := 0; i < len(rows) && i < 6; i++ {
				if v := strings.TrimSpace(cellAt(rows[i], colUnit)); v != "" && unitDigitsRe.MatchString(v) {
					raw = v
					break
				}
			}
		}
	}
	if raw == "" && previousTitle != "" {
		return previousTitle
	}
	title := cfg.Structures.Resolve(raw)
	for _, rec := range records {
		if suffix := groupSuffixRe.FindString(rec.Group); suffix != "" {
			title += " " + suffix
			break
		}
	}
	return strings.ToUpper(strings.TrimSpace(title))
}

// writeMotifSheet écrit la liste des motifs sur une feuille masquée, source
// de la liste déroulante (la formule inline est limitée à 255 caractères).
func writeMotifSheet(f *excelize.File, motifs []string) error {
	if _, err := f.NewSheet(motifSheet); err != nil {
		return err
	}
	for i, m := range motifs {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellValue(motifSheet, cell, m); err != nil {
			return err
		}
	}
	return f.SetSheetVisible(motifSheet, false)
}

func writeLectureSheet(f *excelize.File, title string, records []LectureRecord, motifs []string) error {
	if _, err := f.NewSheet(SheetLecture); err != nil {
		return err
	}
	if err := writeSheetFrame(f, SheetLecture, title); err != nil {
		return err
	}

	for i, rec := range records {
		row := firstDataRow + i
		values := []interface{}{rec.Date, rec.Group, rec.Hours, rec.Motif, rec.Replaced, rec.Name, rec.Location}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetLecture, cell, &values); err != nil {
			return err
		}
	}

	lastRow := firstDataRow + len(records) - 1
	if lastRow < firstDataRow {
		lastRow = firstDataRow
	}
	if err := addSheetTable(f, SheetLecture, tableLecture, lastRow); err != nil {
		return err
	}

	if len(motifs) > 0 && len(records) > 0 {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("D%d:D%d", firstDataRow, firstDataRow+len(records)-1)
		dv.SetSqrefDropList(fmt.Sprintf("%s!$A$1:$A$%d", motifSheet, len(motifs)))
		if err := f.AddDataValidation(SheetLecture, dv); err != nil {
			return err
		}
	}
	return nil
}

// writeInterimSheet écrit le sous-ensemble à pourvoir. Les colonnes Nom et
// Agence ne sont pas des valeurs copiées mais des références vivantes vers la
// ligne source de lecture: corriger lecture corrige interimaire.
func writeInterimSheet(f *excelize.File, title string, interim []LectureRecord) error {
	if _, err := f.NewSheet(SheetInterimaire); err != nil {
		return err
	}
	if err := writeSheetFrame(f, SheetInterimaire, title); err != nil {
		return err
	}

	for i, rec := range interim {
		row := firstDataRow + i
		values := []interface{}{rec.Date, rec.Group, rec.Hours, rec.Motif, rec.Replaced}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetInterimaire, cell, &values); err != nil {
			return err
		}
		nameCell, _ := excelize.CoordinatesToCellName(6, row)
		agencyCell, _ := excelize.CoordinatesToCellName(7, row)
		if err := f.SetCellFormula(SheetInterimaire, nameCell, fmt.Sprintf("%s!F%d", SheetLecture, rec.RowSource)); err != nil {
			return err
		}
		if err := f.SetCellFormula(SheetInterimaire, agencyCell, fmt.Sprintf("%s!G%d", SheetLecture, rec.RowSource)); err != nil {
			return err
		}
	}

	lastRow := firstDataRow + len(interim) - 1
	if lastRow < firstDataRow {
		lastRow = firstDataRow
	}
	return addSheetTable(f, SheetInterimaire, tableInterim, lastRow)
}

// writeSheetFrame pose le cadre commun des feuilles générées: bandeau de
// titre fusionné et ligne d'entête en gras centré.
func writeSheetFrame(f *excelize.File, sheet, title string) error {
	if err := f.MergeCell(sheet, "A1", "G2"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "G2", titleStyle); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return err
	}
	headers := make([]interface{}, len(lectureHeaders))
	for i, h := range lectureHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", firstDataRow-1), &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", firstDataRow-1), fmt.Sprintf("G%d", firstDataRow-1), headerStyle); err != nil {
		return err
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "C", 14)
	_ = f.SetColWidth(sheet, "D", "F", 26)
	_ = f.SetColWidth(sheet, "G", "G", 16)
	return nil
}

func addSheetTable(f *excelize.File, sheet, name string, lastRow int) error {
	stripes := true
	return f.AddTable(sheet, &excelize.Table{
		Range:          fmt.Sprintf("A%d:G%d", firstDataRow-1, lastRow),
		Name:           name,
		StyleName:      "TableStyleMedium9",
		ShowRowStripes: &stripes,
	})
}
