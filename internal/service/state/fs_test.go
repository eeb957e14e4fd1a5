package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteJSONAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	path := filepath.Join(dir, "auto_backup.json")

	if err := writeJSONAtomic(path, map[string]int{"a": 1}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := writeJSONAtomic(path, map[string]int{"a": 2}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil || got["a"] != 2 {
		t.Fatalf("got=%v err=%v", got, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}

	if err := writeJSONAtomic(path, func() {}); err == nil {
		t.Fatalf("unencodable value should fail")
	}
}
