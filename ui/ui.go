// Package ui embeds the templates and static assets so the binary and the
// tests run independently of the working directory.
package ui

import "embed"

//go:embed templates static
var Files embed.FS
