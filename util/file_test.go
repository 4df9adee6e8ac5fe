package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "out.jsonl")
	if err := AppendToFile(file, "a", "b"); err != nil {
		t.Fatalf("append failed: %s", err)
	}
	if err := AppendToFile(file, "c"); err != nil {
		t.Fatalf("append failed: %s", err)
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read failed: %s", err)
	}
	if string(bs) != "a\nb\nc\n" {
		t.Errorf("unexpected content %q", string(bs))
	}
}

func TestWriteToFileOverwrites(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteToFile(file, "first"); err != nil {
		t.Fatalf("write failed: %s", err)
	}
	if err := WriteToFile(file, "x", "y"); err != nil {
		t.Fatalf("write failed: %s", err)
	}
	bs, _ := os.ReadFile(file)
	if string(bs) != "x\ny\n" {
		t.Errorf("unexpected content %q", string(bs))
	}
}
