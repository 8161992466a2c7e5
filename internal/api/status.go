package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ccollombet/interim-2026/internal/roster"
	"github.com/ccollombet/interim-2026/internal/store"
)

// StatusResponse état du service
type StatusResponse struct {
	Ready        bool   `json:"ready"`
	Runs         int    `json:"runs"`
	FallbackYear int    `json:"fallbackYear"`
	JobTitle     string `json:"jobTitle"`
}

// GetStatus état du service
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	runs, err := h.store.CountRuns()
	if err != nil {
		runs = 0
	}

	c.JSON(http.StatusOK, StatusResponse{
		Ready:        true,
		Runs:         runs,
		FallbackYear: effectiveYear(h.cfg.Pipeline.FallbackYear),
		JobTitle:     effectiveTitle(h.cfg.Pipeline.JobTitle),
	})
}

// ListRuns historique des traitements
// GET /api/runs
func (h *Handler) ListRuns(c *gin.Context) {
	runs, err := h.store.ListRuns(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// ConfigResponse tables métier effectives (après repli sur les valeurs
// compilées)
type ConfigResponse struct {
	FallbackYear int      `json:"fallbackYear"`
	JobTitle     string   `json:"jobTitle"`
	Motifs       []string `json:"motifs"`
}

// GetConfig tables métier effectives
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	motifs := h.cfg.Pipeline.Motifs
	if len(motifs) == 0 {
		motifs = roster.DefaultMotifs
	}
	c.JSON(http.StatusOK, ConfigResponse{
		FallbackYear: effectiveYear(h.cfg.Pipeline.FallbackYear),
		JobTitle:     effectiveTitle(h.cfg.Pipeline.JobTitle),
		Motifs:       motifs,
	})
}

// Download sert un fichier produit contre son jeton.
// GET /api/download/:token
func (h *Handler) Download(c *gin.Context) {
	token := c.Param("token")
	d, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "jeton de téléchargement inconnu ou expiré"})
		return
	}
	if _, err := os.Stat(d.filePath); err != nil {
		c.JSON(http.StatusGone, gin.H{"error": "fichier produit introuvable"})
		return
	}
	c.FileAttachment(d.filePath, d.name)
}

func effectiveYear(y int) int {
	if y == 0 {
		return roster.DefaultFallbackYear
	}
	return y
}

func effectiveTitle(t string) string {
	if t == "" {
		return roster.DefaultJobTitle
	}
	return t
}
