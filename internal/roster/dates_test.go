package roster

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseHeaderDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"L02 Mars", "02/03/2026", true},
		{"15 Juil", "15/07/2026", true},
		{"J04 Juin", "04/06/2026", true},
		{"V01 Janv.", "01/01/2026", true},
		{"D15 Févr", "15/02/2026", true},
		{"Total", "", false},
		{"", "", false},
		{"32 Mars", "", false},
	}
	for _, c := range cases {
		got, ok := ParseHeaderDate(c.in, 2026)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseHeaderDate(%q) = (%q, %v), attendu (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestFrenchDateLabel(t *testing.T) {
	if got := FrenchDateLabel("02/03/2026"); got != "Lundi 02/03/2026" {
		t.Errorf("FrenchDateLabel = %q", got)
	}
	if got := FrenchDateLabel("03/03/2026"); got != "Mardi 03/03/2026" {
		t.Errorf("FrenchDateLabel = %q", got)
	}
	// une date non interprétable passe telle quelle
	if got := FrenchDateLabel("pas une date"); got != "pas une date" {
		t.Errorf("FrenchDateLabel = %q", got)
	}
}

func TestInferReferenceYear(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if y := InferReferenceYear(f, sheet, 2026); y != 2026 {
		t.Errorf("année de repli attendue, obtenu %d", y)
	}

	if err := f.SetCellValue(sheet, "A3", "15/09/2024 : Durand Marie"); err != nil {
		t.Fatal(err)
	}
	if y := InferReferenceYear(f, sheet, 2026); y != 2024 {
		t.Errorf("année déduite = %d, attendu 2024", y)
	}
}
