// Package assets embeds the venue floor plans.
package assets

import "embed"

//go:embed floors/*.json
var Floors embed.FS
