package models

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
	"github.com/leapstack-labs/omnicatalog/internal/ui/features/models/pages"
)

// Handlers provides HTTP handlers for the models feature.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// ModelPage selects the model for this browser session, fetching its bundle
// fresh, and shows its files. When the fetch fails the previous selection
// stays in place.
func (h *Handlers) ModelPage(w http.ResponseWriter, r *http.Request) {
	id := common.ModelParam(r)
	sid, sess, err := h.deps.Session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.deps.Select(r.Context(), sid, sess, id); err != nil {
		h.fail(w, r, sess, err)
		return
	}

	files, err := sess.Files()
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	h.render(w, r, files.ModelID, pages.ModelLayout(common.BuildSidebar(files, ""), pages.Overview(files)))
}

// FileView shows one file. Datastar requests get the panel patched in;
// plain requests get the whole page.
func (h *Handlers) FileView(w http.ResponseWriter, r *http.Request) {
	id, key := common.ModelParam(r), common.WildcardKey(r)
	sess, ok := h.open(w, r, id)
	if !ok {
		return
	}

	file, err := sess.File(key)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	h.respond(w, r, sess, key, pages.FilePanel(file))
}

// TopicView shows a topic's join graph and fields. Problems with the topic
// itself are shown inside the panel.
func (h *Handlers) TopicView(w http.ResponseWriter, r *http.Request) {
	id, key := common.ModelParam(r), common.WildcardKey(r)
	sess, ok := h.open(w, r, id)
	if !ok {
		return
	}

	view, err := sess.Topic(key)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	if view.Err != nil {
		h.deps.Logger.Warn("topic rendered with errors", "model", id, "topic", key, "error", view.Err)
	}
	h.respond(w, r, sess, key, pages.TopicPanel(id, view))
}

// open returns the session with model id selected.
func (h *Handlers) open(w http.ResponseWriter, r *http.Request, id string) (*catalog.Session, bool) {
	sid, sess, err := h.deps.Session(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if err := h.deps.Ensure(r.Context(), sid, sess, id); err != nil {
		h.fail(w, r, sess, err)
		return nil, false
	}
	return sess, true
}

// respond sends panel either as SSE patches or inside a full page.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, sess *catalog.Session, key string, panel templ.Component) {
	files, err := sess.Files()
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}
	sidebar := common.BuildSidebar(files, key)

	if common.IsDatastar(r) {
		sse := datastar.NewSSE(w, r)
		if err := sse.PatchElementTempl(common.Panel(panel)); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
		if err := sse.PatchElementTempl(common.Sidebar(sidebar)); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}

	h.render(w, r, files.ModelID, pages.ModelLayout(sidebar, panel))
}

// fail reports err in the panel, keeping whatever model the session has.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, sess *catalog.Session, err error) {
	h.deps.Logger.Debug("request failed", "path", r.URL.Path, "error", err)

	if common.IsDatastar(r) {
		sse := datastar.NewSSE(w, r)
		if perr := sse.PatchElementTempl(common.Panel(common.ErrorBox(err))); perr != nil {
			_ = sse.ConsoleError(perr)
		}
		return
	}

	var body templ.Component = common.Panel(common.ErrorBox(err))
	if files, ferr := sess.Files(); ferr == nil {
		body = pages.ModelLayout(common.BuildSidebar(files, ""), common.ErrorBox(err))
	}
	w.WriteHeader(common.ErrorStatus(err))
	h.render(w, r, sess.ModelID(), body)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, modelID string, body templ.Component) {
	title := modelID
	if title == "" {
		title = "Models"
	}
	if err := common.Page(title, modelID, body).Render(r.Context(), w); err != nil {
		h.deps.Logger.Error("failed to render page", "error", err)
	}
}
