package roster

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ccollombet/interim-2026/internal/textutil"
)

// ReshapeReport compte ce que l'étape 1 a produit et écarté, pour le
// diagnostic des classeurs sales.
type ReshapeReport struct {
	FilteredRows      int `json:"filteredRows"`
	InjectedBlocks    int `json:"injectedBlocks"`
	RegularBlocks     int `json:"regularBlocks"`
	ReplacementBlocks int `json:"replacementBlocks"`
	MatchedDays       int `json:"matchedDays"`
	UnmatchedDays     int `json:"unmatchedDays"`
	SkippedBlocks     int `json:"skippedBlocks"`

	// UnitCode est le code d'unité lu en haut de la colonne B avant la fusion
	// A-C de la passe finale, qui écrase cette cellule. L'étape 2 en a besoin
	// pour titrer les feuilles générées.
	UnitCode string `json:"unitCode"`
}

var noiseDateLineRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}\s*(:.*)?$`)

// libellés de gabarit à écarter ou nettoyer lors de la remise en forme
var placeholderHeaders = map[string]bool{
	"nom":          true,
	"prenom":       true,
	"nom prenom":   true,
	"nom / prenom": true,
	"nom/prenom":   true,
}

// Reshape exécute l'étape 1: cinq passes successives sur des copies du
// classeur, chacune écrite dans un fichier intermédiaire du répertoire de
// travail pour pouvoir inspecter chaque étape isolément. Politique
// défensive: une ligne ou un bloc mal formé est ignoré, jamais fatal.
func Reshape(rawPath string, replacements []ReplacementRecord, year int, cfg Config, workDir string) (string, *ReshapeReport, error) {
	src, err := excelize.OpenFile(rawPath)
	if err != nil {
		return "", nil, fmt.Errorf("ouverture du planning brut: %w", err)
	}
	defer src.Close()

	sheets := src.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("classeur sans feuille: %s", rawPath)
	}
	sheet := sheets[0]
	report := &ReshapeReport{}

	f, err := passFilter(src, sheet, report)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	report.UnitCode = findUnitCode(f, sheet)
	if err := f.SaveAs(filepath.Join(workDir, "etape1_filtrage.xlsx")); err != nil {
		return "", nil, fmt.Errorf("écriture étape 1: %w", err)
	}

	labelCol, ok := findLabelColumn(f, sheet)
	if !ok {
		return "", nil, fmt.Errorf("colonne des libellés introuvable (aucune ligne %q en colonne C ou D)", labelHours)
	}

	if err := passInject(f, sheet, labelCol, report); err != nil {
		return "", nil, err
	}
	if err := f.SaveAs(filepath.Join(workDir, "etape2_insertion.xlsx")); err != nil {
		return "", nil, fmt.Errorf("écriture étape 2: %w", err)
	}

	if err := passFill(f, sheet, labelCol, indexReplacements(replacements), year, report); err != nil {
		return "", nil, err
	}
	if err := f.SaveAs(filepath.Join(workDir, "etape3_identites.xlsx")); err != nil {
		return "", nil, fmt.Errorf("écriture étape 3: %w", err)
	}

	if err := passStyleHours(f, sheet, labelCol); err != nil {
		return "", nil, err
	}
	if err := f.SaveAs(filepath.Join(workDir, "etape4_horaires.xlsx")); err != nil {
		return "", nil, fmt.Errorf("écriture étape 4: %w", err)
	}

	out, err := passCompact(f, sheet, labelCol)
	if err != nil {
		return "", nil, err
	}
	defer out.Close()

	outPath := filepath.Join(workDir, "planning_remis_en_forme.xlsx")
	if err := out.SaveAs(outPath); err != nil {
		return "", nil, fmt.Errorf("écriture du planning remis en forme: %w", err)
	}
	return outPath, report, nil
}

// findLabelColumn cherche la colonne portant les libellés de ligne ("Hor.",
// "Act. jour"). Mise en page primaire: colonne D; certains exports décalent
// d'une colonne, d'où la seconde sonde en C.
func findLabelColumn(f *excelize.File, sheet string) (int, bool) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, false
	}
	for _, col := range []int{4, 3} {
		for _, row := range rows {
			if strings.TrimSpace(cellAt(row, col)) == labelHours {
				return col, true
			}
		}
	}
	return 0, false
}

// passFilter recopie la feuille dans un classeur neuf en écartant les lignes
// de bruit (lignes de date, entêtes de gabarit), valeurs et styles compris.
func passFilter(src *excelize.File, sheet string, report *ReshapeReport) (*excelize.File, error) {
	rows, err := src.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("lecture de la feuille %q: %w", sheet, err)
	}
	maxCols := maxRowWidth(rows)

	dst := excelize.NewFile()
	dst.SetSheetName("Sheet1", sheet)
	copier := newStyleCopier(src, dst)

	outRow := 1
	for srcRow, row := range rows {
		if isNoiseRow(cellAt(row, colIdentity)) {
			report.FilteredRows++
			continue
		}
		for col := 1; col <= maxCols; col++ {
			srcCell, _ := excelize.CoordinatesToCellName(col, srcRow+1)
			dstCell, _ := excelize.CoordinatesToCellName(col, outRow)
			if v := cellAt(row, col); v != "" {
				if err := dst.SetCellValue(sheet, dstCell, v); err != nil {
					return nil, err
				}
			}
			copier.copy(sheet, srcCell, sheet, dstCell)
		}
		outRow++
	}

	copyColumnWidths(src, dst, sheet, maxCols)
	return dst, nil
}

// findUnitCode lit le premier code d'unité non vide en haut de la colonne B.
// À faire avant la passe de compactage: la fusion A-C écrase la cellule.
func findUnitCode(f *excelize.File, sheet string) string {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ""
	}
	for i := 0; i < len(rows) && i < 6; i++ {
		if v := strings.TrimSpace(cellAt(rows[i], colUnit)); v != "" {
			return v
		}
	}
	return ""
}

func isNoiseRow(identity string) bool {
	t := strings.TrimSpace(identity)
	if t == "" {
		return false
	}
	if noiseDateLineRe.MatchString(t) {
		return true
	}
	return placeholderHeaders[textutil.Fold(t)]
}

// passInject insère sous chaque ligne "Act. jour" deux lignes vierges
// pré-libellées "Nom"/"Prénom". L'insertion décale toutes les lignes
// suivantes, d'où le décalage courant.
func passInject(f *excelize.File, sheet string, labelCol int, report *ReshapeReport) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	maxCols := maxRowWidth(rows)

	clearPlaceholdersInRow(f, sheet, headerRow, 1, maxCols)

	var activityRows []int
	for i, row := range rows {
		if strings.TrimSpace(cellAt(row, labelCol)) == labelActivity {
			activityRows = append(activityRows, i+1)
		}
	}

	offset := 0
	for _, r := range activityRows {
		at := r + offset
		if err := f.InsertRows(sheet, at+1, 2); err != nil {
			return fmt.Errorf("insertion des lignes nom/prénom (ligne %d): %w", at, err)
		}
		nomCell, _ := excelize.CoordinatesToCellName(labelCol, at+1)
		prenomCell, _ := excelize.CoordinatesToCellName(labelCol, at+2)
		if err := f.SetCellValue(sheet, nomCell, labelLastName); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, prenomCell, labelFirstRow); err != nil {
			return err
		}
		offset += 2
		report.InjectedBlocks++
	}

	return clearLeakedPlaceholders(f, sheet, labelCol)
}

// clearLeakedPlaceholders vide les jetons de gabarit qui auraient fui dans
// les colonnes jour des lignes "Nom".
func clearLeakedPlaceholders(f *excelize.File, sheet string, labelCol int) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	maxCols := maxRowWidth(rows)
	for i, row := range rows {
		if strings.TrimSpace(cellAt(row, labelCol)) != labelLastName {
			continue
		}
		clearPlaceholdersInRow(f, sheet, i+1, labelCol+1, maxCols)
	}
	return nil
}

func clearPlaceholdersInRow(f *excelize.File, sheet string, row, fromCol, toCol int) {
	for col := fromCol; col <= toCol; col++ {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		v, err := f.GetCellValue(sheet, cell)
		if err != nil || v == "" {
			continue
		}
		if placeholderHeaders[textutil.Fold(v)] {
			_ = f.SetCellValue(sheet, cell, "")
		}
	}
}

// passFill renseigne les identités: colonne A réécrite "Nom\nPrénom" pour le
// personnel titulaire, cellules nom/prénom par jour pour les blocs de
// remplaçants via les annotations extraites. Un jour sans annotation reste
// vide (compté dans le rapport).
func passFill(f *excelize.File, sheet string, labelCol int, idx replacementIndex, year int, report *ReshapeReport) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	dayDates := dayColumnDates(rows, labelCol, year)

	for i, row := range rows {
		if strings.TrimSpace(cellAt(row, labelCol)) != labelHours {
			continue
		}
		r := i + 1
		if !blockIsWellFormed(rows, i, labelCol) {
			report.SkippedBlocks++
			continue
		}

		identity := cellAt(row, colIdentity)
		if strings.TrimSpace(cellAt(row, colCategory)) == categoryReplacement {
			report.ReplacementBlocks++
			for col, date := range dayDates {
				rec, ok := idx.first(identity, date)
				if !ok {
					report.UnmatchedDays++
					continue
				}
				nomCell, _ := excelize.CoordinatesToCellName(col, r+3)
				prenomCell, _ := excelize.CoordinatesToCellName(col, r+4)
				if err := f.SetCellValue(sheet, nomCell, rec.Nom); err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, prenomCell, rec.Prenom); err != nil {
					return err
				}
				report.MatchedDays++
			}
			continue
		}

		report.RegularBlocks++
		nom, prenom := splitIdentity(identity)
		if nom == "" && prenom == "" {
			continue
		}
		idCell, _ := excelize.CoordinatesToCellName(colIdentity, r)
		if err := f.SetCellValue(sheet, idCell, nom+"\n"+prenom); err != nil {
			return err
		}
		wrapCell(f, sheet, idCell)
	}
	return nil
}

// blockIsWellFormed vérifie le gabarit de 5 lignes sous une ligne "Hor.":
// les sous-lignes Nom/Prénom doivent exister aux décalages +3/+4.
func blockIsWellFormed(rows [][]string, hoursIdx, labelCol int) bool {
	if hoursIdx+4 >= len(rows) {
		return false
	}
	return strings.TrimSpace(cellAt(rows[hoursIdx+3], labelCol)) == labelLastName &&
		strings.TrimSpace(cellAt(rows[hoursIdx+4], labelCol)) == labelFirstRow
}

// dayColumnDates associe chaque colonne jour (à droite de la colonne des
// libellés) à sa date. Une entête non interprétable est simplement ignorée,
// jamais une borne dure: les colonnes décoratives intercalées sont tolérées.
func dayColumnDates(rows [][]string, labelCol, year int) map[int]string {
	dates := make(map[int]string)
	if len(rows) == 0 {
		return dates
	}
	header := rows[headerRow-1]
	for col := labelCol + 1; col <= len(header); col++ {
		if date, ok := ParseHeaderDate(cellAt(header, col), year); ok {
			dates[col] = date
		}
	}
	return dates
}

// passStyleHours reformate le texte des cellules d'horaires pour la
// lisibilité des vacations multi-segments: retour à la ligne avant chaque
// "-" et après chaque "/", hauteur de ligne agrandie en conséquence.
func passStyleHours(f *excelize.File, sheet string, labelCol int) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	maxCols := maxRowWidth(rows)

	for i, row := range rows {
		if strings.TrimSpace(cellAt(row, labelCol)) != labelHours {
			continue
		}
		r := i + 1
		segments := 1
		for col := labelCol + 1; col <= maxCols; col++ {
			v := cellAt(row, col)
			if v == "" || !strings.ContainsAny(v, "-/") {
				continue
			}
			text := strings.ReplaceAll(v, "-", "\n-")
			text = strings.ReplaceAll(text, "/", "/\n")
			cell, _ := excelize.CoordinatesToCellName(col, r)
			if err := f.SetCellValue(sheet, cell, text); err != nil {
				return err
			}
			wrapCell(f, sheet, cell)
			if n := strings.Count(v, "/") + 1; n > segments {
				segments = n
			}
		}
		if segments > 1 {
			if err := f.SetRowHeight(sheet, r, float64(15*2*segments)); err != nil {
				return err
			}
		}
	}
	return nil
}

// passCompact reconstruit la feuille une dernière fois en sautant les lignes
// entièrement vides, fusionne A-C verticalement sur chaque bloc de 5 lignes
// et fixe les largeurs de colonnes.
func passCompact(f *excelize.File, sheet string, labelCol int) (*excelize.File, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	maxCols := maxRowWidth(rows)

	dst := excelize.NewFile()
	dst.SetSheetName("Sheet1", sheet)
	copier := newStyleCopier(f, dst)

	outRow := 1
	for srcRow, row := range rows {
		if rowIsEmpty(row, maxCols) {
			continue
		}
		for col := 1; col <= maxCols; col++ {
			srcCell, _ := excelize.CoordinatesToCellName(col, srcRow+1)
			dstCell, _ := excelize.CoordinatesToCellName(col, outRow)
			if v := cellAt(row, col); v != "" {
				if err := dst.SetCellValue(sheet, dstCell, v); err != nil {
					return nil, err
				}
			}
			copier.copy(sheet, srcCell, sheet, dstCell)
		}
		if h, err := f.GetRowHeight(sheet, srcRow+1); err == nil && h > 0 {
			_ = dst.SetRowHeight(sheet, outRow, h)
		}
		outRow++
	}

	// fusion visuelle A-C de chaque bloc
	newRows, err := dst.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	for i, row := range newRows {
		if strings.TrimSpace(cellAt(row, labelCol)) != labelHours {
			continue
		}
		if i+4 >= len(newRows) {
			continue
		}
		top, _ := excelize.CoordinatesToCellName(colIdentity, i+1)
		bottom, _ := excelize.CoordinatesToCellName(colCategory, i+5)
		if err := dst.MergeCell(sheet, top, bottom); err != nil {
			return nil, err
		}
	}

	clearPlaceholdersInRow(dst, sheet, headerRow, 1, maxCols)
	if err := clearLeakedPlaceholders(dst, sheet, labelCol); err != nil {
		return nil, err
	}

	_ = dst.SetColWidth(sheet, "A", "A", 28)
	if labelCol > 2 {
		start, _ := excelize.ColumnNumberToName(2)
		end, _ := excelize.ColumnNumberToName(labelCol)
		_ = dst.SetColWidth(sheet, start, end, 11)
	}
	if maxCols > labelCol {
		start, _ := excelize.ColumnNumberToName(labelCol + 1)
		end, _ := excelize.ColumnNumberToName(maxCols)
		_ = dst.SetColWidth(sheet, start, end, 14)
	}

	return dst, nil
}

func rowIsEmpty(row []string, maxCols int) bool {
	for col := 1; col <= maxCols; col++ {
		if strings.TrimSpace(cellAt(row, col)) != "" {
			return false
		}
	}
	return true
}

func maxRowWidth(rows [][]string) int {
	max := 0
	for _, row := range rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// copyColumnWidths reporte les largeurs de colonnes explicites du classeur
// source vers la copie reconstruite.
func copyColumnWidths(src, dst *excelize.File, sheet string, maxCols int) {
	for col := 1; col <= maxCols; col++ {
		name, _ := excelize.ColumnNumberToName(col)
		w, err := src.GetColWidth(sheet, name)
		if err != nil || w <= 0 {
			continue
		}
		_ = dst.SetColWidth(sheet, name, name, w)
	}
}

// styleCopier recopie les styles de cellule d'un classeur vers un autre.
// Les identifiants de style ne sont pas partageables entre fichiers: chaque
// style source est recréé une seule fois côté destination.
type styleCopier struct {
	src   *excelize.File
	dst   *excelize.File
	cache map[int]int
}

func newStyleCopier(src, dst *excelize.File) *styleCopier {
	return &styleCopier{src: src, dst: dst, cache: make(map[int]int)}
}

func (c *styleCopier) copy(srcSheet, srcCell, dstSheet, dstCell string) {
	id, err := c.src.GetCellStyle(srcSheet, srcCell)
	if err != nil || id == 0 {
		return
	}
	dstID, ok := c.cache[id]
	if !ok {
		style, err := c.src.GetStyle(id)
		if err != nil || style == nil {
			return
		}
		dstID, err = c.dst.NewStyle(style)
		if err != nil {
			return
		}
		c.cache[id] = dstID
	}
	_ = c.dst.SetCellStyle(dstSheet, dstCell, dstCell, dstID)
}

// wrapCell active le retour à la ligne sur une cellule en conservant le
// reste de son style.
func wrapCell(f *excelize.File, sheet, cell string) {
	id, _ := f.GetCellStyle(sheet, cell)
	style, err := f.GetStyle(id)
	if err != nil || style == nil {
		style = &excelize.Style{}
	}
	if style.Alignment == nil {
		style.Alignment = &excelize.Alignment{}
	}
	style.Alignment.WrapText = true
	style.Alignment.Vertical = "center"
	newID, err := f.NewStyle(style)
	if err != nil {
		return
	}
	_ = f.SetCellStyle(sheet, cell, cell, newID)
}
