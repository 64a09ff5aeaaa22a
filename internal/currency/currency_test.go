package currency

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"13,769.01", 13769.01},
		{"13.769,01", 13769.01},
		{"€13,769.01", 13769.01},
		{"€ 13769.01", 13769.01},
		{"13769", 13769},
		{"1,234,567.89", 1234567.89},
		{"0.50", 0.5},
		{",50", 0.5},
		{"-576.92", -576.92},
		{"€0.00", 0},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12a34", "€"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{13769.01, "€13,769.01"},
		{0, "€0.00"},
		{680.77, "€680.77"},
		{1234567.89, "€1,234,567.89"},
		{-576.92, "-€576.92"},
		{999, "€999.00"},
		{1000, "€1,000.00"},
	}
	for _, c := range cases {
		if got := Format(c.in); got != c.want {
			t.Errorf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReformatRoundTrip(t *testing.T) {
	// canonical strings must survive a parse/format cycle byte for byte
	for _, canonical := range []string{"€13,769.01", "€0.00", "€1,000.00", "€576.92"} {
		got, err := Reformat(canonical)
		if err != nil {
			t.Fatalf("Reformat(%q) returned error: %v", canonical, err)
		}
		if got != canonical {
			t.Errorf("Reformat(%q) = %q, not stable", canonical, got)
		}
	}
}

func TestReformatNormalizes(t *testing.T) {
	got, err := Reformat("13.769,01")
	if err != nil {
		t.Fatal(err)
	}
	if got != "€13,769.01" {
		t.Errorf("Reformat = %q, want €13,769.01", got)
	}
}
