package roster

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestScanIdentityRow(t *testing.T) {
	state := ScanState{}

	// entrée dans un bloc de remplaçants
	state, rec := ScanIdentityRow(state, "Remplaçants G1", "2")
	if rec != nil {
		t.Fatal("une ligne d'identité ne produit jamais de sortie")
	}
	if !state.InReplacementBlock || state.Group != "Remplaçants G1" {
		t.Fatalf("état = %+v", state)
	}

	// annotation dans le bloc
	state, rec = ScanIdentityRow(state, "03/04/2026 : Dupont Jean", "")
	if rec == nil {
		t.Fatal("annotation non extraite")
	}
	if rec.Date != "03/04/2026" || rec.Group != "Remplaçants G1" || rec.Nom != "Dupont" || rec.Prenom != "Jean" {
		t.Errorf("enregistrement = %+v", rec)
	}

	// ligne de détail quelconque, ignorée
	if _, rec = ScanIdentityRow(state, "07:00-14:00", ""); rec != nil {
		t.Errorf("ligne de détail extraite à tort: %+v", rec)
	}

	// un bloc titulaire réinitialise l'état
	state, _ = ScanIdentityRow(state, "Durand Marie", "1")
	if state.InReplacementBlock {
		t.Error("état non réinitialisé après un bloc titulaire")
	}

	// annotation hors bloc, ignorée
	if _, rec = ScanIdentityRow(state, "03/04/2026 : Perdu Paul", ""); rec != nil {
		t.Errorf("annotation hors bloc extraite: %+v", rec)
	}
}

func TestScanIdentityRowMultilineName(t *testing.T) {
	state := ScanState{InReplacementBlock: true, Group: "Remplaçants G1"}
	_, rec := ScanIdentityRow(state, "04/04/2026 : Martin\nPaul", "")
	if rec == nil {
		t.Fatal("annotation sur deux lignes non extraite")
	}
	if rec.Date != "04/04/2026" || rec.Nom != "Martin" || rec.Prenom != "Paul" {
		t.Errorf("enregistrement = %+v", rec)
	}
}

func TestScanIdentityRowStripsPlaceholders(t *testing.T) {
	state := ScanState{InReplacementBlock: true, Group: "Remplaçants G2"}
	_, rec := ScanIdentityRow(state, "05/04/2026 : Nom / Prénom Martin Léa", "")
	if rec == nil {
		t.Fatal("annotation non extraite")
	}
	if rec.Nom != "Martin" || rec.Prenom != "Léa" {
		t.Errorf("enregistrement = %+v", rec)
	}

	// annotation vidée par le nettoyage: rien à produire
	if _, rec = ScanIdentityRow(state, "05/04/2026 : Nom / Prénom", ""); rec != nil {
		t.Errorf("annotation vide extraite: %+v", rec)
	}
}

func TestExtractReplacements(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	cells := map[string]string{
		"A1": "Remplaçants G1",
		"C1": "2",
		"A2": "03/04/2026 : Dupont Jean",
		"A3": "04/04/2026 : Martin\nPaul",
		"A4": "Titulaire Untel",
		"C4": "1",
		"A5": "05/04/2026 : Hors Bloc",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatal(err)
		}
	}

	records, err := ExtractReplacements(f, sheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("%d enregistrements, attendu 2: %+v", len(records), records)
	}
	if records[0].Nom != "Dupont" || records[0].Prenom != "Jean" {
		t.Errorf("records[0] = %+v", records[0])
	}
	// le saut de ligne sépare nom et prénom
	if records[1].Nom != "Martin" || records[1].Prenom != "Paul" {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestReplacementIndexFirst(t *testing.T) {
	idx := indexReplacements([]ReplacementRecord{
		{Date: "03/04/2026", Group: "Remplaçants G1", Nom: "Dupont", Prenom: "Jean"},
		{Date: "03/04/2026", Group: "REMPLACANTS  G1", Nom: "Doublon", Prenom: "Ignoré"},
	})

	// rapprochement insensible à la casse, aux accents et aux espaces
	rec, ok := idx.first("remplaçants g1", "03/04/2026")
	if !ok || rec.Nom != "Dupont" {
		t.Errorf("first = (%+v, %v)", rec, ok)
	}
	if _, ok := idx.first("Remplaçants G1", "04/04/2026"); ok {
		t.Error("date sans annotation rapprochée à tort")
	}
}
