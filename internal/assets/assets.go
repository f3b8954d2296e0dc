// Package assets embeds the compiled editor bundle.
package assets

import (
	"embed"
)

// EmbeddedFiles contains the editor SPA build output.
//
//go:embed dist
var EmbeddedFiles embed.FS
