// Package templates holds the HTML pages, embedded into the binary.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
