// Package mimetype resolves the Content-Type of game assets from their file
// extensions.
//
// The table is deliberately small and fixed, covering what browser games
// built with Emscripten and similar toolchains actually ship. Unlike
// [mime.TypeByExtension], results never depend on the host's mime.types
// files.
package mimetype

import (
	"path"
	"strings"
)

// Default is the type of any file whose extension is not in the table.
const Default = "application/octet-stream"

var types = map[string]string{
	".html": "text/html",
	".js":   "application/javascript",
	".css":  "text/css",
	".data": "application/octet-stream",
	".wasm": "application/wasm",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".ico":  "image/x-icon",
}

// compressionSuffixes are stripped by ForVariant to find the extension of the
// original file.
var compressionSuffixes = []string{".br", ".gz"}

// ForPath returns the MIME type for p based on its lowercased extension.
func ForPath(p string) string {
	if t, ok := types[strings.ToLower(path.Ext(p))]; ok {
		return t
	}
	return Default
}

// ForVariant returns the MIME type for a precompressed variant of a file, such
// as "app.js.br", based on the extension of the original file. Exactly one
// compression suffix is stripped. When the remaining name has no extension of
// its own, the type is resolved from p itself.
func ForVariant(p string) string {
	lower := strings.ToLower(p)
	for _, suffix := range compressionSuffixes {
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		original := p[:len(p)-len(suffix)]
		if path.Ext(original) == "" {
			return ForPath(p)
		}
		return ForPath(original)
	}
	return ForPath(p)
}
