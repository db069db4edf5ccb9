package storage

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectMIME sniffs the content type of r and rewinds it.
func DetectMIME(r io.ReadSeeker) (string, error) {
	m, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	return baseType(m.String()), nil
}

// IsAllowed accepts detected when it is listed in allowed. Containers such as
// zip-based office documents may sniff as their parent type, so a listed
// declared type is also accepted when detected is one of its ancestors.
func IsAllowed(detected, declared string, allowed []string) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[baseType(a)] = struct{}{}
	}

	if _, ok := set[detected]; ok {
		return true
	}

	declared = baseType(declared)
	if _, ok := set[declared]; !ok {
		return false
	}
	for m := mimetype.Lookup(declared); m != nil && m.Parent() != nil; m = m.Parent() {
		if baseType(m.String()) == detected {
			return true
		}
	}
	return false
}

// Extension picks the stored file extension from the detected type, falling
// back to the original name's.
func Extension(originalName, detected string) string {
	if m := mimetype.Lookup(detected); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	if exts, _ := mime.ExtensionsByType(detected); len(exts) > 0 {
		return exts[0]
	}
	if ext := strings.ToLower(filepath.Ext(originalName)); len(ext) > 1 && len(ext) <= 10 {
		return ext
	}
	return ".bin"
}

func baseType(t string) string {
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(t))
}
