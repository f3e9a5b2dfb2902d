package timecode

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"00:00:01.500", 1.5, false},
		{"01:02:03.004", 3723.004, false},
		{"10:00:00.000", 36000, false},
		{"", 0, true},
		{"00:00:01", 0, true},
		{"0:0:1.5", 0, true},
		{"bogus", 0, true},
	}
	for _, tc := range cases {
		got, err := Parse(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, value := range []string{"00:00:00.000", "00:00:01.500", "01:02:03.004", "11:59:59.999"} {
		seconds, err := Parse(value)
		if err != nil {
			t.Fatalf("Parse(%q): %v", value, err)
		}
		if got := Format(seconds); got != value {
			t.Fatalf("Format(Parse(%q)) = %q", value, got)
		}
	}
}

func TestFormatNegativeClamps(t *testing.T) {
	if got := Format(-4); got != "00:00:00.000" {
		t.Fatalf("Format(-4) = %q", got)
	}
}
