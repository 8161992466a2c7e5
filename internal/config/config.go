package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ccollombet/interim-2026/internal/roster"
)

// AppConfig configuration de l'application
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// ServerConfig configuration du serveur local
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configuration des répertoires de données
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// PipelineConfig tables métier du pipeline, surchargeables sans recompiler
type PipelineConfig struct {
	FallbackYear int                     `toml:"fallback_year"`
	JobTitle     string                  `toml:"job_title"`
	Motifs       []string                `toml:"motifs"`
	Structures   []roster.StructureEntry `toml:"structures"`
}

// LoadConfigInfo méta-informations du chargement
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig configuration par défaut
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20326,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Pipeline: PipelineConfig{
			FallbackYear: roster.DefaultFallbackYear,
			JobTitle:     roster.DefaultJobTitle,
		},
	}
}

// RosterConfig convertit la section pipeline vers la configuration du
// traitement. Les champs laissés vides dans config.toml retombent sur les
// tables compilées.
func (c *AppConfig) RosterConfig() roster.Config {
	cfg := roster.Config{
		FallbackYear: c.Pipeline.FallbackYear,
		JobTitle:     c.Pipeline.JobTitle,
		Motifs:       c.Pipeline.Motifs,
	}
	if len(c.Pipeline.Structures) > 0 {
		cfg.Structures = roster.NewStructureTable(c.Pipeline.Structures)
	}
	return cfg
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir répertoire de l'exécutable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo charge config.toml et retourne les méta-informations
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// répertoire de l'exécutable inaccessible, répertoire courant
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// pas de fichier de configuration, valeurs par défaut
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// variable d'environnement prioritaire (exécution locale / E2E)
	if v := os.Getenv("INTERIM_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	return config, info, nil
}

// EnsureDataDir crée le répertoire de données et ses sous-répertoires
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// sous-répertoires: dépôts bruts et traitements
	subdirs := []string{"uploads", "travaux"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
