package scraper

import "testing"

func TestCityFromAddress(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"1 Main St, Springfield, IL 62704", "Springfield"},
		{"450 Pine St, Portland, OR 97205", "Portland"},
		{"PO Box 12, St. Paul, MN 55101", "St. Paul"},
		{"no city here", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cityFromAddress(tt.address); got != tt.want {
			t.Errorf("cityFromAddress(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}

func TestLooksLikeAddress(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"1 Main St, Springfield, IL 62704", true},
		{"450 Pine St", true},
		{"ZIP 97205 somewhere in the text", true},
		{"Open weekdays from nine to five", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := looksLikeAddress(tt.line); got != tt.want {
			t.Errorf("looksLikeAddress(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestPhonePattern(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Call (555) 111-2222 today", "(555) 111-2222"},
		{"503-555-1234", "503-555-1234"},
		{"503.555.1234", "503.555.1234"},
		{"no phone", ""},
	}
	for _, tt := range tests {
		if got := phonePattern.FindString(tt.text); got != tt.want {
			t.Errorf("phonePattern on %q = %q, want %q", tt.text, got, tt.want)
		}
	}
}
