package core

import (
	"mime"
	"path"
	"strings"
)

// Types for what a shell serves from its dist directory: the wasm client,
// its loader and any static files placed beside them.
var assetTypes = map[string]string{
	".wasm":  "application/wasm",
	".js":    "text/javascript; charset=utf-8",
	".mjs":   "text/javascript; charset=utf-8",
	".map":   "application/json",
	".json":  "application/json",
	".css":   "text/css; charset=utf-8",
	".html":  "text/html; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".ico":   "image/x-icon",
	".woff2": "font/woff2",
}

// AssetContentType returns the type to serve name with. The wasm client
// must be application/wasm for instantiateStreaming to accept it.
func AssetContentType(name string) string {
	if ct, ok := assetTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsScriptContentType reports whether a response of type ct can run as a
// classic script or a module.
func IsScriptContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/javascript", "application/javascript", "application/x-javascript", "text/ecmascript", "application/ecmascript":
		return true
	}
	return false
}
