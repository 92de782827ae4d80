package notification

import "testing"

func TestCaption(t *testing.T) {
	tests := []struct {
		prefix, title, want string
	}{
		{"", "Update failed", "Update failed"},
		{"Kazuha", "Update failed", "Kazuha - Update failed"},
		{"Kazuha", "Kazuha", "Kazuha"},
	}
	for _, tt := range tests {
		if got := (Notifier{Title: tt.prefix}).caption(tt.title); got != tt.want {
			t.Errorf("caption(%q, %q) = %q, want %q", tt.prefix, tt.title, got, tt.want)
		}
	}
}
