package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/slideforge/slideforge/api"
)

// Listing is the result of enumerating one folder.
type Listing struct {
	Images []string
	PDFs   []string

	// Skipped counts entries outside the extension allow-list.
	Skipped int
}

// ListFolder enumerates the direct children of dir and partitions them by
// kind. Images and PDFs are each sorted case-insensitively by filename —
// the ordering the deck builder relies on, since slide order is part of the
// user-visible contract. Subdirectories are ignored.
func ListFolder(dir string) (Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, fmt.Errorf("read folder %s: %w", dir, err)
	}

	var l Listing
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch Classify(e.Name()) {
		case KindImage:
			l.Images = append(l.Images, filepath.Join(dir, e.Name()))
		case KindPDF:
			l.PDFs = append(l.PDFs, filepath.Join(dir, e.Name()))
		default:
			l.Skipped++
		}
	}

	sortByBaseName(l.Images)
	sortByBaseName(l.PDFs)
	return l, nil
}

// ProbeAll probes every path in order, preserving order.
func ProbeAll(paths []string) ([]api.ImageSource, error) {
	sources := make([]api.ImageSource, 0, len(paths))
	for _, p := range paths {
		src, err := Probe(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func sortByBaseName(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return strings.ToLower(filepath.Base(paths[i])) < strings.ToLower(filepath.Base(paths[j]))
	})
}
