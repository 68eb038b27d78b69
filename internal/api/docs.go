package api

import _ "embed"

// Both pages style themselves from /static/docs.css.
var (
	//go:embed web/api.html
	docsHTML string

	//go:embed web/live.html
	relayDocsHTML string
)
