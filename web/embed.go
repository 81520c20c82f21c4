// Package web embeds the page templates and static assets of the site.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the static file system (stylesheet).
func StaticFS() fs.FS {
	return mustSub("static")
}

// TemplatesFS returns the templates file system.
func TemplatesFS() fs.FS {
	return mustSub("templates")
}

// mustSub can only fail if the embed directive and dir disagree.
func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic("web: missing embedded directory " + dir + ": " + err.Error())
	}
	return sub
}
