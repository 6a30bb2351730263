package filesystem

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/.aihelp_config.json", filepath.Join(home, ".aihelp_config.json")},
		{"/var/log/../tmp/x", "/var/tmp/x"},
		{"relative/file", "relative/file"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Fatalf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
