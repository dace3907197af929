// Package scripts holds the built-in check scripts.
package scripts

import "embed"

// FS contains every built-in check under checks/.
//
//go:embed checks/*.risor
var FS embed.FS
