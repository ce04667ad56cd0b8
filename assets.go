package formwizard

import (
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
)

// AssetsFS exposes the bundled stylesheet so Go applications can serve it
// next to pages rendered with the vanilla renderer.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formwizard.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
