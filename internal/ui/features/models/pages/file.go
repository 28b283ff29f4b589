package pages

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
)

// FilePanel shows a file's YAML. Content that does not decode is still
// shown, with the decode error above it.
func FilePanel(file *catalog.FileView) templ.Component {
	return common.Component(func(h *common.HTML) {
		h.Raw(`<h1>`).Text(file.Key).Raw(`</h1>`)
		h.Component(common.ErrorBox(file.DecodeErr))
		h.Raw(`<pre><code class="language-yaml">`).Text(file.Content).Raw(`</code></pre>`)
	})
}
