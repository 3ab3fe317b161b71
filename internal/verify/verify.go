// Package verify checks that a compilation actually produced its PDF.
package verify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	pdflib "github.com/ledongthuc/pdf"
)

// ErrNotProduced means the toolchain reported success but no output PDF
// exists. This defends against silent tool failures.
var ErrNotProduced = errors.New("output PDF not produced")

// Output checks that <stem>.pdf exists in dir. When structural is true it
// additionally opens the file and requires at least one page, catching
// truncated or zero-byte outputs that still pass the existence check.
func Output(dir, stem string, structural bool) error {
	path := filepath.Join(dir, stem+".pdf")

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotProduced)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", path, ErrNotProduced)
	}

	if !structural {
		return nil
	}
	return readable(path)
}

func readable(path string) error {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if reader.NumPage() < 1 {
		return fmt.Errorf("%s has no pages", path)
	}
	return nil
}
