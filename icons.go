package cvpdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// iconThreshold is the highest code point never treated as an icon glyph.
const iconThreshold = 0x2000

// IconStore maps icon keys to image paths.
type IconStore interface {
	Icon(key string) (path string, ok bool)
}

// IconKey returns the store key for a glyph: "u_" followed by the lowercase
// hexadecimal code point, e.g. "u_1f4bc".
func IconKey(r rune) string {
	return "u_" + strconv.FormatInt(int64(r), 16)
}

// IconResolver finds the icon for a heading.
type IconResolver struct {
	store IconStore
}

// NewIconResolver returns a resolver over store. A nil store resolves
// nothing.
func NewIconResolver(store IconStore) *IconResolver {
	return &IconResolver{store: store}
}

// Resolve looks up the first pictographic rune of heading. ok is false when
// the heading has no such rune or the store has no icon for it.
func (r *IconResolver) Resolve(heading string) (path string, glyph rune, ok bool) {
	if r == nil || r.store == nil {
		return "", 0, false
	}
	for _, c := range heading {
		if c <= iconThreshold {
			continue
		}
		path, ok = r.store.Icon(IconKey(c))
		if !ok {
			return "", 0, false
		}
		return path, c, true
	}
	return "", 0, false
}

// StripGlyph removes glyph, and any emoji variation selector following it,
// from heading and trims the result.
func StripGlyph(heading string, glyph rune) string {
	var b strings.Builder
	b.Grow(len(heading))
	skipSelector := false
	for _, c := range heading {
		if c == glyph {
			skipSelector = true
			continue
		}
		if skipSelector && c == '\uFE0F' {
			continue
		}
		skipSelector = false
		b.WriteRune(c)
	}
	return strings.TrimSpace(b.String())
}

// IconMap is an in-memory IconStore.
type IconMap map[string]string

// Icon implements IconStore.
func (m IconMap) Icon(key string) (string, bool) {
	p, ok := m[key]
	return p, ok
}

var iconExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
}

// OpenIconDir indexes the image files of dir by their base name without
// extension. The directory is read once; later lookups do no I/O. When
// several files share a key the first in directory order wins.
func OpenIconDir(dir string) (IconMap, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return IconMap{}, fmt.Errorf("icon dir: %w", err)
	}
	icons := make(IconMap, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !iconExtensions[ext] {
			continue
		}
		key := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		if _, dup := icons[key]; dup {
			continue
		}
		icons[key] = filepath.Join(dir, name)
	}
	return icons, nil
}
