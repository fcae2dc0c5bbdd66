package output

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/masajid/masajid-seo/internal/pkg/errors"
)

// Writer writes generated files under the output root. It is safe for
// concurrent use.
type Writer struct {
	root    string
	written atomic.Int64
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Write stores content at the slash-separated path rel, creating parent
// directories. Failures carry the FILE_WRITE_FAILURE code.
func (w *Writer) Write(rel, content string) error {
	dst := filepath.Join(w.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(errors.CodeFileWriteFailure, fmt.Sprintf("creating directory for %s", dst), err)
	}
	if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
		return errors.Wrap(errors.CodeFileWriteFailure, fmt.Sprintf("writing %s", dst), err)
	}
	w.written.Add(1)
	return nil
}

// Count returns the number of files written so far.
func (w *Writer) Count() int {
	return int(w.written.Load())
}

// PagePath maps a site URL path to the file that serves it:
// "/masjid/n-001" becomes "masjid/n-001/index.html".
func PagePath(urlPath string) string {
	p := strings.Trim(path.Clean("/"+urlPath), "/")
	if p == "" {
		return "index.html"
	}
	return p + "/index.html"
}
