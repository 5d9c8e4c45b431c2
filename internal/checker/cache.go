package checker

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/puzpuzpuz/xsync/v3"
)

// Cache stores compiled checker binaries addressed by the sha256 of their
// source, so an unchanged checker is compiled once across runs. Concurrent
// requests for the same source share one compilation.
type Cache struct {
	dir      string
	compile  func(source, output string) bool
	inflight *xsync.MapOf[string, chan struct{}]
}

// NewCache creates a checker binary cache rooted at dir. compile builds
// source into output and reports success.
func NewCache(dir string, compile func(source, output string) bool) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create checker cache directory: %w", err)
	}
	return &Cache{
		dir:      dir,
		compile:  compile,
		inflight: xsync.NewMapOf[string, chan struct{}](),
	}, nil
}

// Executable returns the path to the compiled binary for the checker source,
// compiling it first if the cache has no entry.
func (c *Cache) Executable(sourcePath string) (string, error) {
	code, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to read checker source: %w", err)
	}

	sum := fmt.Sprintf("%x", sha256.Sum256(code))
	binPath := filepath.Join(c.dir, sum+".out")

	done, loaded := c.inflight.LoadOrStore(sum, make(chan struct{}))
	if loaded {
		<-done
	} else {
		if _, err := os.Stat(binPath); err != nil {
			if !c.compile(sourcePath, binPath) {
				// leave the entry so other waiters see the same miss
				close(done)
				c.inflight.Delete(sum)
				return "", fmt.Errorf("checker %s failed to compile", sourcePath)
			}
		}
		close(done)
	}

	if _, err := os.Stat(binPath); err != nil {
		return "", fmt.Errorf("checker %s failed to compile", sourcePath)
	}
	return binPath, nil
}
