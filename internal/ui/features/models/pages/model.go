// Package pages provides the components of the model pages.
package pages

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
)

// ModelLayout places the sidebar next to the panel.
func ModelLayout(sidebar common.SidebarData, panel templ.Component) templ.Component {
	return common.Component(func(h *common.HTML) {
		h.Component(common.Sidebar(sidebar))
		h.Component(common.Panel(panel))
	})
}

// Overview is the panel shown before a file is picked.
func Overview(files *catalog.FileList) templ.Component {
	return common.Component(func(h *common.HTML) {
		h.Raw(`<h1>`).Text(files.ModelID).Raw(`</h1>`)
		h.Rawf(`<p>%d files: %d topics, %d views.</p>`, len(files.Keys), len(files.Topics), len(files.Views))
		if !files.HasModel() {
			h.Raw(`<p class="muted">This model has no model file.</p>`)
		}
		h.Raw(`<p class="muted">Pick a topic to see its join graph and fields, or any file to see its YAML.</p>`)
	})
}
