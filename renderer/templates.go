package renderer

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.md
var embedded embed.FS

// templates holds the markdown templates, at the root of the FS.
var templates = mustSub(embedded, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
