package engblog

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// site.css, the default stylesheet used by the views package.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
