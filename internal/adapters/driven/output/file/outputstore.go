// Package file persists finished articles as markdown files on disk.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
)

// Ensure OutputStore implements the interface.
var _ driven.OutputStore = (*OutputStore)(nil)

// OutputStore writes articles under <root>/articles/<yyyy-mm-dd>/<id>.md.
type OutputStore struct {
	root string
	now  func() time.Time
}

// NewOutputStore creates a file output store rooted at dir. If dir is
// empty, defaults to ~/.hunter/output.
func NewOutputStore(dir string) (*OutputStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".hunter", "output")
	}
	return &OutputStore{root: dir, now: time.Now}, nil
}

// Write stores the content and returns the file path.
func (s *OutputStore) Write(ctx context.Context, id, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, "articles", s.now().UTC().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, slugify(id)+".md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing article: %w", err)
	}
	return path, nil
}

// slugify reduces an identifier to a safe filename fragment.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "article"
	}
	if len(out) > 80 {
		out = strings.Trim(out[:80], "-")
	}
	return out
}
