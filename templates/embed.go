// Package templates holds the templ views and embeds the static assets they
// link to. Run "mage gen" after editing a .templ file.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static is the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
