package rasterize

import (
	"os"
	"sync"

	"github.com/flanksource/commons/logger"

	"github.com/slideforge/slideforge/api"
)

// PageSet owns the temporary page images rasterized from one document.
// The caller must call Release on every exit path — normal completion,
// early return or panic-driven unwind — so no rasterization ever leaks
// temp files. Release is idempotent.
type PageSet struct {
	// Sources are the rendered pages in page order, all marked Temp.
	Sources []api.ImageSource

	dir  string
	once sync.Once
}

// Release deletes the temp directory holding the page images.
func (p *PageSet) Release() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		if p.dir == "" {
			return
		}
		if err := os.RemoveAll(p.dir); err != nil {
			logger.Warnf("failed to remove temp pages in %s: %v", p.dir, err)
		}
	})
}

// Dir exposes the temp directory for tests.
func (p *PageSet) Dir() string {
	return p.dir
}
