package avatar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"rangkum.app/internal/audit"
	"rangkum.app/internal/user"
)

// DefaultFile is the placeholder served for users without an uploaded avatar.
// It is shared, so the lifecycle never deletes it.
const DefaultFile = "default.png"

// PublicPrefix is the URL path under which avatar files are served.
const PublicPrefix = "/avatars"

// Manager coordinates replacing a user's stored avatar image and reclaiming
// the previous file. At most one avatar file is live per user at any time.
type Manager struct {
	users user.Store
	dir   string
}

func NewManager(users user.Store, dir string) (*Manager, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("avatar: storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("avatar: create storage directory: %w", err)
	}
	return &Manager{users: users, dir: dir}, nil
}

// Dir returns the storage directory, e.g. for static file serving.
func (m *Manager) Dir() string { return m.dir }

// Replace stores the uploaded image under a freshly generated name, points
// the user record at it, then best-effort deletes the previous file.
//
// The storage write strictly precedes the record update: a crash in between
// leaves an orphan file, never a record referencing a missing file. The old
// name is never reused, so concurrent readers of the previous avatar are not
// raced. Cleanup failures are logged and swallowed; a leaked orphan is
// acceptable, a broken live reference is not.
func (m *Manager) Replace(ctx context.Context, userID string, src io.Reader, originalName string) (string, error) {
	u, err := m.users.Find(ctx, userID)
	if err != nil {
		return "", err
	}
	previous := u.Avatar

	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	dst := filepath.Join(m.dir, name)
	if err := writeFile(dst, src); err != nil {
		return "", fmt.Errorf("avatar: store upload: %w", err)
	}

	if err := m.users.UpdateAvatar(ctx, userID, name); err != nil {
		// The record still points at the previous file; reclaim the fresh
		// write instead of leaking it.
		_ = os.Remove(dst)
		return "", err
	}

	if previous != "" && previous != DefaultFile {
		if err := os.Remove(filepath.Join(m.dir, previous)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			_ = audit.LogEvent(ctx, "avatar.cleanup.failed", map[string]any{
				"user_id": userID,
				"file":    previous,
				"error":   err.Error(),
			})
		}
	}

	return PublicURL(name), nil
}

// PublicURL maps a stored filename to its client-facing path. An empty name
// resolves to the default placeholder.
func PublicURL(name string) string {
	if name == "" {
		name = DefaultFile
	}
	return path.Join(PublicPrefix, name)
}

func writeFile(dst string, src io.Reader) error {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}
