package roster

import "testing"

func TestParseShiftHours(t *testing.T) {
	cases := []struct {
		in     string
		start  string
		end    string
		worked int
		pause  int
		ok     bool
	}{
		{"08:00-16:00", "08:00", "16:00", 480, 0, true},
		{"09:00-12:00/13:00-17:00", "09:00", "17:00", 420, 60, true},
		{"07:00-12:00/14:00-18:00", "07:00", "18:00", 540, 120, true},
		{"8h30-12h00", "08:30", "12:00", 210, 0, true},
		{"0800-1600", "08:00", "16:00", 480, 0, true},
		// retours à la ligne et espaces insérés par la mise en forme
		{"09:00\n-12:00/\n13:00\n-17:00", "09:00", "17:00", 420, 60, true},
		{" 07:00 - 14:00 ", "07:00", "14:00", 420, 0, true},
		// segment inversé: amplitude sans travail, pause jamais négative
		{"16:00-08:00", "16:00", "08:00", 0, 0, true},
		{"repos", "", "", 0, 0, false},
		{"", "", "", 0, 0, false},
		{"25:00-26:00", "", "", 0, 0, false},
	}
	for _, c := range cases {
		shift, ok := ParseShiftHours(c.in)
		if ok != c.ok {
			t.Errorf("ParseShiftHours(%q) ok = %v, attendu %v", c.in, ok, c.ok)
			continue
		}
		if !ok {
			continue
		}
		if shift.Start != c.start || shift.End != c.end || shift.WorkedMin != c.worked || shift.BreakMin != c.pause {
			t.Errorf("ParseShiftHours(%q) = %+v, attendu début %s fin %s travaillé %d pause %d",
				c.in, shift, c.start, c.end, c.worked, c.pause)
		}
	}
}

func TestFormatWorkedHours(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{480, "8,0"},
		{210, "3,5"},
		{435, "7,25"},
		{0, "0,0"},
		{420, "7,0"},
	}
	for _, c := range cases {
		if got := FormatWorkedHours(c.minutes); got != c.want {
			t.Errorf("FormatWorkedHours(%d) = %q, attendu %q", c.minutes, got, c.want)
		}
	}
}

func TestFormatBreak(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{60, "01:00"},
		{90, "01:30"},
		{-5, "00:00"},
	}
	for _, c := range cases {
		if got := FormatBreak(c.minutes); got != c.want {
			t.Errorf("FormatBreak(%d) = %q, attendu %q", c.minutes, got, c.want)
		}
	}
}
