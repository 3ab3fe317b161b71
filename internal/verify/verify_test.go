package verify

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeMinimalPDF writes a syntactically valid one-page PDF, tracking byte
// offsets so the cross-reference table is correct.
func writeMinimalPDF(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 4)

	buf.WriteString("%PDF-1.4\n")

	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")

	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")

	xref := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xref)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

func TestOutput_MissingPDF(t *testing.T) {
	err := Output(t.TempDir(), "paper", false)
	if !errors.Is(err, ErrNotProduced) {
		t.Fatalf("expected ErrNotProduced, got %v", err)
	}
}

func TestOutput_ExistenceOnly(t *testing.T) {
	dir := t.TempDir()
	// Zero-byte file: passes the existence check when structural
	// verification is off.
	if err := os.WriteFile(filepath.Join(dir, "paper.pdf"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := Output(dir, "paper", false); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOutput_StructuralRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "paper.pdf"), []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := Output(dir, "paper", true)
	if err == nil {
		t.Fatal("expected error for garbage PDF")
	}
	if errors.Is(err, ErrNotProduced) {
		t.Errorf("garbage output is a verification failure, not a missing output: %v", err)
	}
}

func TestOutput_StructuralRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "paper.pdf"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := Output(dir, "paper", true); err == nil {
		t.Fatal("expected error for zero-byte PDF")
	}
}

func TestOutput_StructuralAcceptsValidPDF(t *testing.T) {
	dir := t.TempDir()
	writeMinimalPDF(t, filepath.Join(dir, "paper.pdf"))

	if err := Output(dir, "paper", true); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOutput_DirectoryIsNotOutput(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "paper.pdf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err := Output(dir, "paper", false)
	if !errors.Is(err, ErrNotProduced) {
		t.Fatalf("expected ErrNotProduced, got %v", err)
	}
}
