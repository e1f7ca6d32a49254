package report

import (
	"context"
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FileSink writes reports into a billy filesystem, creating directories as
// needed.
type FileSink struct {
	fs billy.Filesystem
}

// NewFileSink creates a sink over fs.
func NewFileSink(fs billy.Filesystem) *FileSink {
	return &FileSink{fs: fs}
}

// NewDirSink creates a sink rooted at a directory on the local disk.
func NewDirSink(dir string) *FileSink {
	return NewFileSink(osfs.New(dir))
}

// Put implements Sink.
func (s *FileSink) Put(_ context.Context, key string, data []byte) error {
	if dir := path.Dir(key); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("billy: mkdirall %q: %w", dir, err)
		}
	}
	if err := util.WriteFile(s.fs, key, data, 0o644); err != nil {
		return fmt.Errorf("billy: write %q: %w", key, err)
	}
	return nil
}
