package cards

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source creates per-game card files by copying a blank template. It hands
// back file names only; callers decide whether to write the bare name or the
// full path into the emulator settings.
type Source struct {
	// Dir is the directory holding card files.
	Dir string
	// Template is the blank card copied for a game's first session.
	Template string
}

// Ensure returns the card file name for a game, creating the file from the
// template on first use. An existing card is never overwritten, so a second
// session of the same game keeps its saves.
func (s *Source) Ensure(title string) (string, error) {
	if s == nil || s.Dir == "" {
		return "", errors.New("cards directory is not configured")
	}
	if s.Template == "" {
		return "", errors.New("card template is not configured")
	}
	name := FileName(title, filepath.Ext(s.Template))
	dest := filepath.Join(s.Dir, name)
	if _, err := os.Stat(dest); err == nil {
		return name, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", dest, err)
	}
	if err := copyFile(s.Template, dest); err != nil {
		return "", err
	}
	return name, nil
}

// Path returns the absolute location of a card file name inside Dir.
func (s *Source) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// FileName derives a stable, filesystem-safe card name from a game title.
// The extension defaults to .ps2 when the template has none.
func FileName(title, ext string) string {
	if ext == "" {
		ext = ".ps2"
	}
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "card"
	}
	return name + ext
}

// LooksLikePath reports whether a slot value names a location rather than a
// bare file: any backslash, slash or drive-style colon counts as evidence.
func LooksLikePath(value string) bool {
	return strings.ContainsAny(value, `\/:`)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open template %s: %w", src, err)
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create card %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy card %s: %w", dest, err)
	}
	return out.Close()
}
