// Package liftlog ships the static exercise dataset embedded in the binary.
package liftlog

import "embed"

// DataFS holds the bundled exercise catalog resources (exercises, equipments,
// bodyparts, muscles). Use fs.Sub(DataFS, "data") to address resources by name.
//
//go:embed data
var DataFS embed.FS
