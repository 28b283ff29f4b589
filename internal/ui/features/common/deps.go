package common

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/omnicatalog/internal/bundle"
	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/omni"
	"github.com/leapstack-labs/omnicatalog/internal/ui/notifier"
)

const (
	// SessionName is the name of the UI's session cookie.
	SessionName = "omnicatalog"
	sessionIDKey = "sid"
)

// ModelLister lists the models available to the UI.
type ModelLister interface {
	ListModels(ctx context.Context, opts omni.ListOptions) (*omni.ModelList, error)
}

// Deps holds what every feature's handlers need.
type Deps struct {
	Catalog      *catalog.Service
	Sessions     *catalog.Sessions
	Models       ModelLister
	ListOptions  omni.ListOptions
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
}

// SessionID returns the browser session's id, issuing one and setting the
// cookie on first contact. It must run before anything is written to w.
func (d *Deps) SessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	// An undecodable cookie still yields a fresh session alongside the error.
	sess, err := d.SessionStore.Get(r, SessionName)
	if sess == nil {
		return "", err
	}
	if id, ok := sess.Values[sessionIDKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[sessionIDKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	d.Logger.Debug("new ui session", "session", id)
	return id, nil
}

// Session returns the catalog session of the browser making r.
func (d *Deps) Session(w http.ResponseWriter, r *http.Request) (string, *catalog.Session, error) {
	sid, err := d.SessionID(w, r)
	if err != nil {
		return "", nil, err
	}
	return sid, d.Sessions.Get(sid), nil
}

// Select fetches modelID into sess and tells the session's other pages.
func (d *Deps) Select(ctx context.Context, sid string, sess *catalog.Session, modelID string) error {
	if err := sess.Select(ctx, modelID); err != nil {
		return err
	}
	d.Notifier.Broadcast(sid)
	return nil
}

// Ensure makes modelID the session's model, fetching it only if another
// model (or none) is selected.
func (d *Deps) Ensure(ctx context.Context, sid string, sess *catalog.Session, modelID string) error {
	if sess.ModelID() == modelID {
		return nil
	}
	return d.Select(ctx, sid, sess, modelID)
}

// ErrorStatus maps a catalog error to an HTTP status.
func ErrorStatus(err error) int {
	var apiErr *omni.APIError
	switch {
	case errors.Is(err, bundle.ErrFileNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrNoModel):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// IsDatastar reports whether r was sent by the datastar client.
func IsDatastar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// ModelURL is the page of model id.
func ModelURL(id string) string {
	return "/models/" + url.PathEscape(id)
}

// FileURL is the file view of key.
func FileURL(id, key string) string {
	return ModelURL(id) + "/files/" + escapeKey(key)
}

// TopicURL is the topic view of key.
func TopicURL(id, key string) string {
	return ModelURL(id) + "/topics/" + escapeKey(key)
}

// GraphURL is the JSON join graph of topic key.
func GraphURL(id, key string) string {
	return ModelURL(id) + "/graph/" + escapeKey(key)
}

// escapeKey escapes each path segment so "/" in a key survives routing.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// WildcardKey returns the file key captured by a trailing "*" route.
func WildcardKey(r *http.Request) string {
	key := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(key); err == nil {
			return unescaped
		}
	}
	return key
}

// ModelParam returns the {id} route parameter.
func ModelParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(id); err == nil {
			return unescaped
		}
	}
	return id
}
