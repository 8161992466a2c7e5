package api

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ccollombet/interim-2026/internal/config"
	"github.com/ccollombet/interim-2026/internal/store"
)

// Handler expose les opérations du pipeline sur l'API locale.
type Handler struct {
	store     *store.Store
	cfg       *config.AppConfig
	uploadDir string
	workDir   string
	downloads *downloadStore
}

// NewHandler crée le handler de l'API. dataDir est le répertoire de données
// résolu (uploads/ pour les dépôts bruts, travaux/ pour les traitements).
func NewHandler(st *store.Store, cfg *config.AppConfig, dataDir string) *Handler {
	return &Handler{
		store:     st,
		cfg:       cfg,
		uploadDir: filepath.Join(dataDir, "uploads"),
		workDir:   filepath.Join(dataDir, "travaux"),
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes enregistre les routes de l'API
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// état du service
	router.GET("/status", h.GetStatus)
	// historique des traitements
	router.GET("/runs", h.ListRuns)
	// tables métier effectives
	router.GET("/config", h.GetConfig)

	// traitement complet: remise en forme + feuilles lecture/interimaire
	router.POST("/pipeline", h.RunPipeline)
	// export Badakan sur un classeur déjà traité
	router.POST("/badakan", h.RunBadakan)

	// récupération des fichiers produits
	router.GET("/download/:token", h.Download)
}
