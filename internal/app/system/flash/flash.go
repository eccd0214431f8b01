// Package flash queues one-shot toast messages in the session. Pages pop
// the queue when they render and show each entry once.
package flash

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const flashKey = "_toasts"

// Toast is one message destined for the toast area.
type Toast struct {
	Kind string // "success" or "error"
	Text string
}

// Flash reads and writes the toast queue on the shared cookie session.
type Flash struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// New wires the flash helper to the same store and session name the auth
// session uses, so one cookie carries both.
func New(store *sessions.CookieStore, name string, logger *zap.Logger) *Flash {
	return &Flash{store: store, name: name, log: logger}
}

// Success queues a success toast.
func (f *Flash) Success(w http.ResponseWriter, r *http.Request, text string) {
	f.add(w, r, Toast{Kind: "success", Text: text})
}

// Error queues an error toast.
func (f *Flash) Error(w http.ResponseWriter, r *http.Request, text string) {
	f.add(w, r, Toast{Kind: "error", Text: text})
}

func (f *Flash) add(w http.ResponseWriter, r *http.Request, t Toast) {
	sess, _ := f.store.Get(r, f.name)
	sess.AddFlash(t, flashKey)
	if err := sess.Save(r, w); err != nil {
		f.log.Warn("saving flash failed", zap.Error(err))
	}
}

// Pop drains the toast queue and saves the emptied session. Call once per
// page render, before writing the body.
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) []Toast {
	sess, _ := f.store.Get(r, f.name)
	raw := sess.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		f.log.Warn("clearing flash failed", zap.Error(err))
	}

	toasts := make([]Toast, 0, len(raw))
	for _, v := range raw {
		if t, ok := v.(Toast); ok {
			toasts = append(toasts, t)
		}
	}
	return toasts
}

func init() {
	// Flashes round-trip through gob inside securecookie.
	gob.Register(Toast{})
}
