// Package discover finds LaTeX documents under a directory tree.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoDocuments is returned when the scan finds no .tex files. This is a
// normal terminal condition for a run, not an internal error.
var ErrNoDocuments = errors.New("no .tex documents found")

// Document is a single discovered .tex source, decomposed into the directory
// it lives in and its filename stem. All generated artifacts for the document
// are named after the stem.
type Document struct {
	Path string `json:"path"` // full path as discovered
	Dir  string `json:"dir"`  // containing directory
	Stem string `json:"stem"` // filename without the .tex extension
}

// Filename returns the source filename without its directory.
func (d Document) Filename() string {
	return d.Stem + ".tex"
}

// Scan walks root and returns every .tex file found, excluding any path that
// contains a hidden (dot-prefixed) directory component. The result is sorted
// lexicographically by path so repeated runs over an unchanged tree process
// documents in the same order.
func Scan(root string) ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("access %s: %w", path, err)
		}
		if d.IsDir() {
			// Skip hidden directories, but not the root itself (which may
			// legitimately be "." or a dot-prefixed path given by the user).
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if strings.ToLower(filepath.Ext(d.Name())) != ".tex" {
			return nil
		}
		docs = append(docs, Document{
			Path: path,
			Dir:  filepath.Dir(path),
			Stem: strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}
