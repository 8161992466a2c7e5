package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/ccollombet/interim-2026/internal/roster"
)

func TestRosterConfigDefaults(t *testing.T) {
	rc := DefaultConfig().RosterConfig()
	if rc.FallbackYear != roster.DefaultFallbackYear {
		t.Errorf("année de repli = %d", rc.FallbackYear)
	}
	if rc.JobTitle != roster.DefaultJobTitle {
		t.Errorf("intitulé = %q", rc.JobTitle)
	}
	// motifs et structures vides: repli sur les tables compilées au traitement
	if len(rc.Motifs) != 0 || rc.Structures != nil {
		t.Errorf("configuration non vide: %+v", rc)
	}
}

func TestRosterConfigOverrides(t *testing.T) {
	var cfg AppConfig
	data := []byte(`
[pipeline]
fallback_year = 2027
job_title = "Vacataire"
motifs = ["Formation"]

[[pipeline.structures]]
code = "123"
name = "FOYER TEST"
`)
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatal(err)
	}

	rc := cfg.RosterConfig()
	if rc.FallbackYear != 2027 || rc.JobTitle != "Vacataire" {
		t.Errorf("configuration = %+v", rc)
	}
	if len(rc.Motifs) != 1 || rc.Motifs[0] != "Formation" {
		t.Errorf("motifs = %v", rc.Motifs)
	}
	if rc.Structures == nil {
		t.Fatal("table des structures non construite")
	}
	if got := rc.Structures.Resolve("123"); got != "FOYER TEST" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestIsPortSpecifiedInToml(t *testing.T) {
	if !isPortSpecifiedInToml([]byte("[server]\nport = 1234\n")) {
		t.Error("port explicite non détecté")
	}
	if isPortSpecifiedInToml([]byte("[server]\ndev_mode = true\n")) {
		t.Error("port détecté à tort")
	}
	if isPortSpecifiedInToml([]byte("pas du toml")) {
		t.Error("port détecté dans un contenu invalide")
	}
}
