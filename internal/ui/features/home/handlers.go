package home

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// HomePage lists the available models. A failed listing is shown on the
// page rather than replacing it.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	_, sess, err := h.deps.Session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := ModelsPage{Current: sess.ModelID()}
	list, err := h.deps.Models.ListModels(r.Context(), h.deps.ListOptions)
	if err != nil {
		h.deps.Logger.Error("failed to list models", "error", err)
		data.Err = err
		w.WriteHeader(http.StatusBadGateway)
	} else {
		data.Models = list.Records
		data.HasNextPage = list.PageInfo != nil && list.PageInfo.HasNextPage
	}

	if err := common.Page("Models", data.Current, ModelsContent(data)).Render(r.Context(), w); err != nil {
		h.deps.Logger.Error("failed to render page", "error", err)
	}
}

// Updates is the long-lived SSE endpoint every page subscribes to. When the
// session picks another model, the header badge is replaced.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sid, sess, err := h.deps.Session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := h.deps.Notifier.Subscribe(sid)
	defer h.deps.Notifier.Unsubscribe(sid, updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.PatchElementTempl(common.CurrentModel(sess.ModelID())); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// ModelsContent renders the model list.
func ModelsContent(data ModelsPage) templ.Component {
	return common.Component(func(h *common.HTML) {
		h.Raw(`<section id="models" class="panel">`)
		h.Raw(`<h1>Models</h1>`)
		h.Component(common.ErrorBox(data.Err))

		if data.Err == nil && len(data.Models) == 0 {
			h.Raw(`<p class="muted">No models found.</p>`)
		}
		if len(data.Models) > 0 {
			h.Raw(`<table class="fields"><thead><tr><th>Name</th><th>ID</th><th>Updated</th></tr></thead><tbody>`)
			for _, m := range data.Models {
				if m.ID == data.Current {
					h.Raw(`<tr class="current">`)
				} else {
					h.Raw(`<tr>`)
				}
				h.Rawf(`<td><a href="%s">`, common.Attr(common.ModelURL(m.ID))).Text(m.Name).Raw(`</a></td>`)
				h.Raw(`<td><code>`).Text(m.ID).Raw(`</code></td>`)
				h.Raw(`<td>`).Text(m.UpdatedAt).Raw(`</td></tr>`)
			}
			h.Raw(`</tbody></table>`)
		}
		if data.HasNextPage {
			h.Raw(`<p class="muted">Showing the first page of models. Raise models.page_size to list more.</p>`)
		}
		h.Raw(`</section>`)
	})
}
