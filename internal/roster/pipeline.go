package roster

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Config porte les tables métier du pipeline. Tout a une valeur par défaut
// compilée; la configuration permet de les remplacer sans recompiler
// (les établissements et les motifs valides changent dans le temps).
type Config struct {
	FallbackYear int
	JobTitle     string
	Motifs       []string
	Structures   *StructureTable
}

func (c Config) withDefaults() Config {
	if c.FallbackYear == 0 {
		c.FallbackYear = DefaultFallbackYear
	}
	if c.JobTitle == "" {
		c.JobTitle = DefaultJobTitle
	}
	if len(c.Motifs) == 0 {
		c.Motifs = DefaultMotifs
	}
	if c.Structures == nil {
		c.Structures = NewStructureTable(DefaultStructures)
	}
	return c
}

// Result agrège les compteurs des étapes d'un traitement, pour le diagnostic
// des classeurs partiellement sales (lignes écartées, jours sans remplaçant).
type Result struct {
	RunDir     string `json:"runDir"`
	OutputPath string `json:"outputPath"`
	Year       int    `json:"year"`

	Replacements      int    `json:"replacements"`
	FilteredRows      int    `json:"filteredRows"`
	UnmatchedDays     int    `json:"unmatchedDays"`
	SkippedBlocks     int    `json:"skippedBlocks"`
	SkippedZeroShifts int    `json:"skippedZeroShifts"`
	LectureRows       int    `json:"lectureRows"`
	InterimRows       int    `json:"interimRows"`
	BadakanRows       int    `json:"badakanRows"`
	SkippedShifts     int    `json:"skippedShifts"`
	Title             string `json:"title"`
}

// RunFullPipeline enchaîne l'étape 1 (remise en forme) puis l'étape 2
// (feuilles lecture/interimaire) sur un planning brut. Chaque exécution écrit
// dans son propre répertoire: deux traitements concurrents ne peuvent pas se
// disputer les noms de sortie fixes.
func RunFullPipeline(rawPath string, cfg Config, workDir string) (*Result, error) {
	cfg = cfg.withDefaults()

	runDir, err := newRunDir(workDir)
	if err != nil {
		return nil, err
	}
	result := &Result{RunDir: runDir}

	raw, err := excelize.OpenFile(rawPath)
	if err != nil {
		return nil, fmt.Errorf("ouverture du planning brut: %w", err)
	}
	sheets := raw.GetSheetList()
	if len(sheets) == 0 {
		raw.Close()
		return nil, fmt.Errorf("classeur sans feuille: %s", rawPath)
	}
	sheet := sheets[0]

	result.Year = InferReferenceYear(raw, sheet, cfg.FallbackYear)
	replacements, err := ExtractReplacements(raw, sheet)
	if cerr := raw.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("extraction des remplaçants: %w", err)
	}
	result.Replacements = len(replacements)

	stage1Path, reshapeRep, err := Reshape(rawPath, replacements, result.Year, cfg, runDir)
	if err != nil {
		return nil, err
	}
	result.FilteredRows = reshapeRep.FilteredRows
	result.UnmatchedDays = reshapeRep.UnmatchedDays
	result.SkippedBlocks = reshapeRep.SkippedBlocks

	finalPath := filepath.Join(runDir, "planning_final.xlsx")
	flattenRep, err := Flatten(stage1Path, finalPath, result.Year, reshapeRep.UnitCode, cfg)
	if err != nil {
		return nil, err
	}
	result.OutputPath = finalPath
	result.LectureRows = flattenRep.LectureRows
	result.InterimRows = flattenRep.InterimRows
	result.SkippedZeroShifts = flattenRep.SkippedZeroShifts
	result.Title = flattenRep.Title

	return result, nil
}

// RunBadakanExport exécute l'étape 3 seule sur un classeur déjà passé par le
// pipeline complet (feuilles lecture et interimaire requises).
func RunBadakanExport(wbPath string, cfg Config, workDir string) (*Result, error) {
	cfg = cfg.withDefaults()

	runDir, err := newRunDir(workDir)
	if err != nil {
		return nil, err
	}
	outPath := filepath.Join(runDir, "export_badakan.csv")

	report, err := ExportBadakan(wbPath, outPath, cfg)
	if err != nil {
		return nil, err
	}
	return &Result{
		RunDir:        runDir,
		OutputPath:    outPath,
		BadakanRows:   report.Rows,
		SkippedShifts: report.SkippedShifts,
		Title:         report.Etablissement,
	}, nil
}

func newRunDir(workDir string) (string, error) {
	dir := filepath.Join(workDir, "run_"+uuid.New().String()[:8])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("création du répertoire de traitement: %w", err)
	}
	return dir, nil
}
