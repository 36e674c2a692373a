package classify

import "testing"

func TestNormalizeYear(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "2015"},
		{"whitespace only", "   ", "2015"},
		{"dd-mm-yyyy", "16-05-2015", "2015"},
		{"dd/mm/yy", "16/05/15", "2015"},
		{"yyyy/mm/dd", "2014/05/16", "2014"},
		{"two digit pivot low", "01/01/49", "2049"},
		{"two digit pivot high", "01/01/99", "1999"},
		{"two digit pivot boundary", "01/01/70", "1970"},
		{"fragment four digit", "sometime in 05-2016", "2016"},
		{"fragment trailing year", "12.3.2017", "2015"},
		{"garbage", "not a date", "2015"},
		{"mixed separators", "16-05/15", "2015"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeYear(tt.raw, "2015"); got != tt.want {
				t.Errorf("NormalizeYear(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeYear_DefaultIsParameter(t *testing.T) {
	if got := NormalizeYear("", "1999"); got != "1999" {
		t.Errorf("expected configured default 1999, got %q", got)
	}
	if got := NormalizeYear("junk", "2020"); got != "2020" {
		t.Errorf("expected configured default 2020, got %q", got)
	}
}

func TestNormalizeYear_Idempotent(t *testing.T) {
	for _, raw := range []string{"16-05-2015", "16/05/15", "", "junk"} {
		first := NormalizeYear(raw, "2015")
		second := NormalizeYear(raw, "2015")
		if first != second {
			t.Errorf("NormalizeYear(%q) not deterministic: %q vs %q", raw, first, second)
		}
	}
}
