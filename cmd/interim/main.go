package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ccollombet/interim-2026/internal/config"
	"github.com/ccollombet/interim-2026/internal/server"
	"github.com/ccollombet/interim-2026/internal/util"
)

var (
	port    = flag.Int("port", 0, "port d'écoute (config.toml prioritaire si le port y est fixé)")
	devMode = flag.Bool("dev", false, "mode développement (pas d'ouverture du navigateur)")
	dataDir = flag.String("dataDir", "", "répertoire de données (remplace la configuration)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Interim 2026 - Traitement des plannings")
	fmt.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("chargement de la configuration impossible, valeurs par défaut: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// les drapeaux priment, sauf si config.toml fixe explicitement le port
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	resolvedDataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("création du répertoire de données impossible: %v", err)
	} else {
		fmt.Printf("Répertoire de données : %s\n", resolvedDataDir)
	}

	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("Démarrage du service sur le port %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("démarrage du service impossible: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("Ouverture du navigateur : %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Ouverture automatique impossible, accéder manuellement à : %s\n", url)
		}
	} else {
		fmt.Printf("Mode développement : accéder à %s\n", url)
	}

	fmt.Println("\nCtrl+C pour arrêter le service...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nArrêt du service...")
	if err := srv.Close(); err != nil {
		log.Printf("fermeture: %v", err)
	}
}
