package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  plain  ", "plain"},
		{"a/b\\c", "a-b-c"},
		{`what?"is<this>|`, "whatisthis"},
		{"time: 10*2", "time- 10-2"},
		{"tab\tand\nnewline", "tabandnewline"},
		{"مرحبا", "مرحبا"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
