package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ccollombet/interim-2026/internal/roster"
	"github.com/ccollombet/interim-2026/internal/store"
)

// PipelineResponse réponse d'un traitement complet
type PipelineResponse struct {
	RunID             string `json:"runId"`
	Year              int    `json:"year"`
	Replacements      int    `json:"replacements"`
	FilteredRows      int    `json:"filteredRows"`
	UnmatchedDays     int    `json:"unmatchedDays"`
	SkippedBlocks     int    `json:"skippedBlocks"`
	SkippedZeroShifts int    `json:"skippedZeroShifts"`
	LectureRows       int    `json:"lectureRows"`
	InterimRows       int    `json:"interimRows"`
	Title             string `json:"title"`
	DownloadToken     string `json:"downloadToken"`
	DownloadName      string `json:"downloadName"`
}

// RunPipeline traite un planning brut déposé en multipart.
// POST /api/pipeline
func (h *Handler) RunPipeline(c *gin.Context) {
	uploaded, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun fichier déposé"})
		return
	}

	savedPath := filepath.Join(h.uploadDir,
		fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(uploaded.Filename)))
	if err := c.SaveUploadedFile(uploaded, savedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enregistrement du fichier impossible"})
		return
	}

	runID := uuid.New().String()
	if err := h.store.CreateRun(runID, "pipeline", uploaded.Filename); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res, err := roster.RunFullPipeline(savedPath, h.cfg.RosterConfig(), h.workDir)
	if err != nil {
		_ = h.store.FinishRun(runID, store.Run{ErrorMessage: err.Error()})
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "runId": runID})
		return
	}

	_ = h.store.FinishRun(runID, store.Run{
		OutputPath:    res.OutputPath,
		LectureRows:   res.LectureRows,
		InterimRows:   res.InterimRows,
		SkippedCells:  res.SkippedZeroShifts,
		UnmatchedDays: res.UnmatchedDays,
	})

	token := h.downloads.put(res.OutputPath, "planning_final.xlsx", downloadTTL)

	c.JSON(http.StatusOK, PipelineResponse{
		RunID:             runID,
		Year:              res.Year,
		Replacements:      res.Replacements,
		FilteredRows:      res.FilteredRows,
		UnmatchedDays:     res.UnmatchedDays,
		SkippedBlocks:     res.SkippedBlocks,
		SkippedZeroShifts: res.SkippedZeroShifts,
		LectureRows:       res.LectureRows,
		InterimRows:       res.InterimRows,
		Title:             res.Title,
		DownloadToken:     token,
		DownloadName:      "planning_final.xlsx",
	})
}

// BadakanResponse réponse d'un export Badakan
type BadakanResponse struct {
	RunID         string `json:"runId"`
	BadakanRows   int    `json:"badakanRows"`
	SkippedShifts int    `json:"skippedShifts"`
	Etablissement string `json:"etablissement"`
	DownloadToken string `json:"downloadToken"`
	DownloadName  string `json:"downloadName"`
}

// RunBadakan produit l'export CSV Badakan d'un classeur déjà traité.
// POST /api/badakan
func (h *Handler) RunBadakan(c *gin.Context) {
	uploaded, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun fichier déposé"})
		return
	}

	savedPath := filepath.Join(h.uploadDir,
		fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(uploaded.Filename)))
	if err := c.SaveUploadedFile(uploaded, savedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enregistrement du fichier impossible"})
		return
	}

	runID := uuid.New().String()
	if err := h.store.CreateRun(runID, "badakan", uploaded.Filename); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res, err := roster.RunBadakanExport(savedPath, h.cfg.RosterConfig(), h.workDir)
	if err != nil {
		_ = h.store.FinishRun(runID, store.Run{ErrorMessage: err.Error()})
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "runId": runID})
		return
	}

	_ = h.store.FinishRun(runID, store.Run{
		OutputPath:   res.OutputPath,
		BadakanRows:  res.BadakanRows,
		SkippedCells: res.SkippedShifts,
	})

	token := h.downloads.put(res.OutputPath, "export_badakan.csv", downloadTTL)

	c.JSON(http.StatusOK, BadakanResponse{
		RunID:         runID,
		BadakanRows:   res.BadakanRows,
		SkippedShifts: res.SkippedShifts,
		Etablissement: res.Title,
		DownloadToken: token,
		DownloadName:  "export_badakan.csv",
	})
}
