package pages

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/fields"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
)

// TopicPanel shows a topic's base table, join tree and field catalog.
func TopicPanel(modelID string, view *catalog.TopicView) templ.Component {
	return common.Component(func(h *common.HTML) {
		h.Raw(`<h1>`).Text(view.Key).Raw(`</h1>`)
		h.Raw(`<p>Base table: <span class="depth-0">`).Text(view.Base).Raw(`</span></p>`)
		h.Component(common.ErrorBox(view.Err))

		if view.Graph != nil {
			h.Raw(`<h2>Joins</h2>`)
			joinTree(h, view.Graph)
			h.Rawf(`<p class="muted"><a href="%s">graph as JSON</a></p>`, common.Attr(common.GraphURL(modelID, view.Key)))
		}

		h.Raw(`<h2>Fields `).Text(common.LenStr(view.Fields)).Raw(`</h2>`)
		fieldTable(h, view.Fields)
	})
}

// joinTree renders the pre-order node list as nested lists. Depth grows by
// at most one between consecutive nodes.
func joinTree(h *common.HTML, g *joingraph.Graph) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return
	}

	h.Raw(`<ul class="join-tree">`)
	prev := 0
	for i, n := range nodes {
		switch {
		case i == 0:
		case n.Depth > prev:
			h.Raw(`<ul>`)
		default:
			h.Raw(`</li>`)
			h.Raw(strings.Repeat(`</ul></li>`, prev-n.Depth))
		}
		h.Rawf(`<li><span class="depth-%d">`, joingraph.StyleDepth(n.Depth)).Text(n.Name).Raw(`</span>`)
		prev = n.Depth
	}
	h.Raw(`</li>`)
	h.Raw(strings.Repeat(`</ul></li>`, prev))
	h.Raw(`</ul>`)
}

func fieldTable(h *common.HTML, records []fields.FieldRecord) {
	if len(records) == 0 {
		h.Raw(`<p class="muted">No fields found.</p>`)
		return
	}

	h.Raw(`<table class="fields"><thead><tr>`)
	for _, col := range []string{"Table", "Field", "Kind", "SQL", "Description", "Definition"} {
		h.Raw(`<th>`).Text(col).Raw(`</th>`)
	}
	h.Raw(`</tr></thead><tbody>`)
	for _, rec := range records {
		h.Raw(`<tr>`)
		h.Raw(`<td>`).Text(rec.SourceTable).Raw(`</td>`)
		h.Raw(`<td>`).Text(rec.Name).Raw(`</td>`)
		h.Rawf(`<td class="kind-%s">`, common.Attr(string(rec.Kind))).Text(string(rec.Kind)).Raw(`</td>`)
		h.Raw(`<td><code>`).Text(rec.SQL).Raw(`</code></td>`)
		h.Raw(`<td>`).Text(rec.Description).Raw(`</td>`)
		h.Raw(`<td>`)
		if rec.FullDefinition != "" {
			h.Raw(`<details><summary>yaml</summary><pre>`).Text(rec.FullDefinition).Raw(`</pre></details>`)
		}
		h.Raw(`</td></tr>`)
	}
	h.Raw(`</tbody></table>`)
}
