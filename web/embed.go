package web

import "embed"

// FS holds the static assets served under /static. Built files land in
// static/build together with the build's manifest.json.
//
//go:embed static
var FS embed.FS

// ManifestPath is the location of the build manifest inside FS.
const ManifestPath = "static/build/manifest.json"
