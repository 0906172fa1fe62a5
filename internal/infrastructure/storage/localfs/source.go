package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source opens document files dropped into a spool directory by the
// upstream producer. Paths in archive requests are relative to the
// spool root; absolute paths and traversal outside the root are
// rejected.
type Source struct {
	basePath string
}

func New(basePath string) (*Source, error) {
	if basePath == "" {
		basePath = "./data/spool"
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve spool dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	return &Source{basePath: abs}, nil
}

func (s *Source) Open(_ context.Context, path string) (io.ReadCloser, error) {
	full := filepath.Join(s.basePath, filepath.Clean("/"+path))
	if !strings.HasPrefix(full, s.basePath+string(filepath.Separator)) {
		return nil, fmt.Errorf("path escapes spool dir: %s", path)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open document file: %w", err)
	}
	return f, nil
}
