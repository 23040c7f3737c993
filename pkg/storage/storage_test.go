package storage

import (
	"path/filepath"
	"testing"
)

func TestStorage_SaveAndRead(t *testing.T) {
	s := &Storage{Dir: filepath.Join(t.TempDir(), "results")}

	path, err := s.SaveFile("exports/frequency.csv", []byte("aspect,count\n"))
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if want := filepath.Join(s.Dir, "exports", "frequency.csv"); path != want {
		t.Errorf("SaveFile() path = %q, want %q", path, want)
	}
	if !s.HasFile("exports/frequency.csv") {
		t.Error("HasFile() = false after SaveFile")
	}

	data, err := s.ReadFile("exports/frequency.csv")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "aspect,count\n" {
		t.Errorf("ReadFile() = %q", data)
	}

	stats, err := s.GetFileStats("exports/frequency.csv")
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != int64(len("aspect,count\n")) {
		t.Errorf("SizeBytes = %d", stats.SizeBytes)
	}
}

func TestStorage_Path(t *testing.T) {
	tests := []struct {
		dir, name, want string
	}{
		{"", "a.csv", "a.csv"},
		{"out", "a.csv", filepath.Join("out", "a.csv")},
		{"out", "/abs/a.csv", "/abs/a.csv"},
	}
	for _, tt := range tests {
		s := &Storage{Dir: tt.dir}
		if got := s.Path(tt.name); got != tt.want {
			t.Errorf("Path(%q) with Dir %q = %q, want %q", tt.name, tt.dir, got, tt.want)
		}
	}
}

func TestStorage_Missing(t *testing.T) {
	s := &Storage{Dir: t.TempDir()}
	if s.HasFile("nope") {
		t.Error("HasFile() = true for missing file")
	}
	if _, err := s.ReadFile("nope"); err == nil {
		t.Error("ReadFile() expected error")
	}
	if _, err := s.GetFileStats("nope"); err == nil {
		t.Error("GetFileStats() expected error")
	}
}
