// Package site serves the about page rendered from embedded Markdown.
package site

import (
	"bytes"
	"context"
	_ "embed"
	"net/http"
	"sync"

	"github.com/russross/blackfriday/v2"
)

//go:embed content/about.md
var aboutMarkdown []byte

const pageHead = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>picarena</title>
    <style>body{font-family:sans-serif;max-width:46rem;margin:2rem auto;padding:0 1rem}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.3rem .6rem}</style>
  </head>
  <body>
`

const pageTail = `  </body>
</html>
`

var (
	renderOnce sync.Once
	rendered   []byte
)

// Page returns the rendered about page.
func Page() []byte {
	renderOnce.Do(func() {
		var buf bytes.Buffer
		buf.WriteString(pageHead)
		buf.Write(blackfriday.Run(aboutMarkdown))
		buf.WriteString(pageTail)
		rendered = buf.Bytes()
	})
	return rendered
}

// Register attaches the about page to mux at the root path. Any other path
// not claimed by a more specific route is a 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(Page())
}
