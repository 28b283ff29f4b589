package common

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/omnicatalog/internal/ui/resources"
)

// DatastarScript is the datastar client bundle.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Page renders a full HTML document around body. The page subscribes to
// /updates so a model picked in another tab shows up in the header.
func Page(title, currentModel string, body templ.Component) templ.Component {
	return Component(func(h *HTML) {
		h.Raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<title>`).Text(title).Raw(` - Omni Catalog</title>`)
		h.Rawf(`<link rel="stylesheet" href="%s">`, resources.StylesheetPath)
		h.Rawf(`<script type="module" src="%s"></script>`, DatastarScript)
		h.Raw(`</head><body data-init="@get('/updates')">`)
		h.Raw(`<header><a href="/">Omni Catalog</a> `)
		h.Component(CurrentModel(currentModel))
		h.Raw(`</header>`)
		h.Raw(`<main id="ui-content">`).Component(body).Raw(`</main>`)
		h.Raw(`</body></html>`)
	})
}

// CurrentModel is the header badge naming the session's model.
func CurrentModel(modelID string) templ.Component {
	return Component(func(h *HTML) {
		h.Raw(`<span id="current-model" class="muted">`)
		if modelID != "" {
			h.Rawf(`<a href="%s">`, Attr(ModelURL(modelID))).Text(modelID).Raw(`</a>`)
		}
		h.Raw(`</span>`)
	})
}

// ErrorBox shows err.
func ErrorBox(err error) templ.Component {
	return Component(func(h *HTML) {
		if err == nil {
			return
		}
		h.Raw(`<div class="error" role="alert">`).Text(err.Error()).Raw(`</div>`)
	})
}

// Panel wraps the main content area that SSE responses replace.
func Panel(body templ.Component) templ.Component {
	return Component(func(h *HTML) {
		h.Raw(`<section id="panel" class="panel">`).Component(body).Raw(`</section>`)
	})
}

// Sidebar lists a model's files, grouped like the files command.
func Sidebar(data SidebarData) templ.Component {
	return Component(func(h *HTML) {
		h.Raw(`<nav id="sidebar" class="sidebar">`)

		if data.Model != "" || data.Relationship != "" {
			h.Raw(`<h2>Model</h2><ul>`)
			for _, key := range []string{data.Model, data.Relationship} {
				if key != "" {
					fileLink(h, data, key, key, FileURL(data.ModelID, key))
				}
			}
			h.Raw(`</ul>`)
		}

		h.Raw(`<h2>Topics `).Text(LenStr(data.Topics)).Raw(`</h2><ul>`)
		for _, key := range data.Topics {
			fileLink(h, data, key, key, TopicURL(data.ModelID, key))
		}
		h.Raw(`</ul>`)

		for _, folder := range data.Views {
			h.Raw(`<h2>Views: `).Text(folder.Name).Raw(` `).Text(LenStr(folder.Children)).Raw(`</h2><ul>`)
			for _, f := range folder.Children {
				fileLink(h, data, f.Path, f.Name, FileURL(data.ModelID, f.Path))
			}
			h.Raw(`</ul>`)
		}

		if len(data.Other) > 0 {
			h.Raw(`<h2>Other `).Text(LenStr(data.Other)).Raw(`</h2><ul>`)
			for _, key := range data.Other {
				fileLink(h, data, key, key, FileURL(data.ModelID, key))
			}
			h.Raw(`</ul>`)
		}

		h.Raw(`</nav>`)
	})
}

// fileLink links to href, loading it into the panel when datastar is active.
func fileLink(h *HTML, data SidebarData, key, label, href string) {
	if key == data.CurrentKey {
		h.Raw(`<li class="current">`)
	} else {
		h.Raw(`<li>`)
	}
	h.Rawf(`<a href="%s" data-on:click__prevent="@get('%s')">`, Attr(href), Attr(href))
	h.Text(label)
	h.Raw(`</a></li>`)
}
