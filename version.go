package murmur

import _ "embed"

// Version is the release of the murmur module.
//
//go:embed VERSION
var Version string
