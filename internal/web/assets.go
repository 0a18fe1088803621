// Package web holds the embedded orders board page and its templates.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed *.html
var fsys embed.FS

func FS() (fs.FS, error) {
	return fs.Sub(fsys, ".")
}

func MustFS() fs.FS {
	f, err := FS()
	if err != nil {
		panic(err)
	}
	return f
}

// Templates parses the fragments patched into the board over SSE.
func Templates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("fragments").Funcs(funcs).ParseFS(fsys, "fragments.html")
}
