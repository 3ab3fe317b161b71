// Package clean removes auxiliary files left behind by a LaTeX run.
package clean

import (
	"os"
	"path/filepath"
)

// auxExtensions is the fixed set of generated-artifact extensions that are
// safe to delete for a document stem. The compiled PDF, the synctex file,
// sources and bibliography data are never candidates: deletions are built
// from this list only, so nothing outside it can be touched.
var auxExtensions = []string{
	"aux", "log", "out", "toc", "lof", "lot",
	"bbl", "blg", "nav", "snm", "vrb", "dvi",
	"fdb_latexmk", "fls", "ps", "eps", "eepic",
	"figlist", "makefile", "idx", "ind", "ilg",
	"glo", "gls", "glg", "acn", "acr", "alg",
	"run.xml",
}

// Artifacts deletes every auxiliary file for the given document stem inside
// dir, plus the biblatex helper file <stem>-blx.bib. Missing files are
// skipped; removal errors are ignored as well, so cleanup never fails.
// Returns the number of files removed. Running it twice yields the same
// surviving file set as running it once.
func Artifacts(dir, stem string) int {
	removed := 0
	for _, ext := range auxExtensions {
		if remove(filepath.Join(dir, stem+"."+ext)) {
			removed++
		}
	}
	if remove(filepath.Join(dir, stem+"-blx.bib")) {
		removed++
	}
	return removed
}

func remove(path string) bool {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return os.Remove(path) == nil
}
