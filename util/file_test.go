package util

import (
	"encoding/json"
	"os"
	"path"
	"strings"
	"testing"
)

func TestWriteAndAppend(t *testing.T) {
	dir := t.TempDir()
	file := path.Join(dir, "nested", "out.txt")

	if err := WriteToFile(file, "a", "b"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := AppendToFile(file, "c"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(bs) != "a\nb\nc\n" {
		t.Errorf("unexpected content %q", string(bs))
	}
}

func TestAppendJSONLine(t *testing.T) {
	file := path.Join(t.TempDir(), "lines.jsonl")
	for i := 0; i < 3; i++ {
		if err := AppendJSONLine(file, map[string]int{"episode": i}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(bs)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, l := range lines {
		var v map[string]int
		if err := json.Unmarshal([]byte(l), &v); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if v["episode"] != i {
			t.Errorf("line %d: expected episode %d, got %d", i, i, v["episode"])
		}
	}
}

func TestRemoveContents(t *testing.T) {
	dir := t.TempDir()
	if err := WriteJSON(path.Join(dir, "sub", "a.json"), []int{1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := WriteToFile(path.Join(dir, "b.txt"), "b"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := RemoveContents(dir); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("dir should still exist: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir, got %d entries", len(entries))
	}
}
