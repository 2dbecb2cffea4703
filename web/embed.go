// Package web holds the embedded pages and browser assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed pages/*.html static
var files embed.FS

// Pages returns the HTML pages rooted at pages/.
func Pages() fs.FS {
	sub, err := fs.Sub(files, "pages")
	if err != nil {
		panic(err)
	}
	return sub
}

// Assets returns the CSS and JS rooted at static/. Directories cannot be
// opened, so a file server over it never lists them.
func Assets() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return filesOnly{sub}
}

type filesOnly struct {
	fs.FS
}

func (f filesOnly) Open(name string) (fs.File, error) {
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return file, nil
}
