// internal/app/resources/resources.go
package resources

import (
	"embed"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

// Shared partials used by every page: the site navigation bar and the
// footer. Feature templates reference them as {{template "site_nav" .}}.
//
//go:embed templates/*.gohtml
var FS embed.FS

var registerOnce sync.Once

// LoadSharedTemplates registers the shared partial set. Called once from
// bootstrap Startup, before the template engine boots.
func LoadSharedTemplates() {
	registerOnce.Do(func() {
		templates.Register(templates.Set{
			Name:     "site_shared",
			FS:       FS,
			Patterns: []string{"templates/*.gohtml"},
		})
	})
}
