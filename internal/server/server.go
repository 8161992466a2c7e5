package server

import (
	"embed"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ccollombet/interim-2026/internal/api"
	"github.com/ccollombet/interim-2026/internal/config"
	"github.com/ccollombet/interim-2026/internal/store"
)

//go:embed index.html
var staticFiles embed.FS

// Server serveur HTTP local
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer crée le serveur
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Fatalf("création du répertoire de données: %v", err)
	}

	sqliteStore, err := store.New(filepath.Join(dataDir, "interim.db"))
	if err != nil {
		log.Fatalf("initialisation de la base: %v", err)
	}

	apiHandler := api.NewHandler(sqliteStore, cfg, dataDir)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    apiHandler,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// CORS: le service ne sert que le navigateur local
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	index := func(c *gin.Context) {
		data, err := staticFiles.ReadFile("index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	s.router.GET("/", index)
	s.router.NoRoute(index)
}

// Run démarre le serveur
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close ferme les ressources (base SQLite)
func (s *Server) Close() error {
	return s.store.Close()
}
