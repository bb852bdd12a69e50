package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "rooftop, 3kW system", "rooftop, 3kW system"},
		{"tags stripped", "<b>urgent</b> install", "urgent install"},
		{"encoded tag stripped after decode", "&lt;script&gt;alert(1)&lt;/script&gt;hello", "alert(1)hello"},
		{"whitespace trimmed", "  note  ", "note"},
		{"tag-only input becomes empty", "<br/>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
