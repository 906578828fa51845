package fileutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.json")
	if FileExists(path) {
		t.Fatal("missing file reported as existing")
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Fatal("existing file reported as missing")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"  hello  ", 10, "hello"},
		{"hello world", 5, "hello…"},
		{"hello", 0, "hello"},
		{"", 5, ""},
	}
	for _, tc := range tests {
		if got := Truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestWriteJSONFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")

	v := map[string]any{"session_id": "call-1", "version": 1}
	if err := WriteJSONFileAtomic(path, v, false); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
	if got["session_id"] != "call-1" {
		t.Errorf("round-tripped session_id = %v", got["session_id"])
	}

	// No temp files may linger after a successful write.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp_") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestWriteJSONFileAtomicOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")

	if err := WriteJSONFileAtomic(path, map[string]int{"n": 1}, false); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSONFileAtomic(path, map[string]int{"n": 2}, true); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got["n"] != 2 {
		t.Errorf("n = %d, want 2", got["n"])
	}
}

func TestDecodeModelJSON(t *testing.T) {
	type out struct {
		A string `json:"a"`
	}

	var v out
	if err := DecodeModelJSON(`{"a":"x"}`, &v); err != nil || v.A != "x" {
		t.Fatalf("plain JSON: v=%+v err=%v", v, err)
	}

	v = out{}
	if err := DecodeModelJSON("Here you go:\n```json\n{\"a\":\"y\"}\n```", &v); err != nil || v.A != "y" {
		t.Fatalf("wrapped JSON: v=%+v err=%v", v, err)
	}

	if err := DecodeModelJSON("", &v); err == nil {
		t.Fatal("empty output accepted")
	}
	if err := DecodeModelJSON("no braces here", &v); err == nil {
		t.Fatal("non-JSON output accepted")
	}
}
