package fsworkspace

import "embed"

// templatesFS carries the starter files copied into a fresh workspace.
//
//go:embed templates
var templatesFS embed.FS
