package http

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bookkeeping-web/internal/domain/session"
	"bookkeeping-web/internal/usecase/app"
)

const sidKey = "sid"

// ControllerFactory builds the controller of a new browser.
type ControllerFactory func(sess *session.Session, view app.View) *app.Controller

// Browser is the server-side state of one browser tab family. Lock it for
// the whole request; one action runs at a time per browser.
type Browser struct {
	mu       sync.Mutex
	ID       string
	Page     *Page
	Cmd      app.Commands
	lastSeen time.Time // guarded by Registry.mu
}

func (b *Browser) Unlock() { b.mu.Unlock() }

// Registry maps the signed session cookie to live Browser state.
type Registry struct {
	store   sessions.Store
	cookie  string
	newCtrl ControllerFactory
	withJar bool

	mu       sync.Mutex
	browsers map[string]*Browser
	now      func() time.Time
}

// NewRegistry uses store for the cookie that carries the browser id.
// withJar gives every browser its own cookie jar for the API session.
func NewRegistry(store sessions.Store, cookieName string, withJar bool, f ControllerFactory) *Registry {
	return &Registry{
		store:    store,
		cookie:   cookieName,
		newCtrl:  f,
		withJar:  withJar,
		browsers: map[string]*Browser{},
		now:      time.Now,
	}
}

// NewCookieStore is the gorilla cookie store used in production.
func NewCookieStore(secret string) *sessions.CookieStore {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return s
}

// Acquire returns the locked Browser of the request, creating it (and the
// cookie) when needed. fresh reports a Browser created by this call. A known
// id whose state was lost, for instance after a restart, keeps its id so the
// persisted token can be restored.
func (r *Registry) Acquire(c echo.Context) (b *Browser, fresh bool, err error) {
	gs, _ := r.store.Get(c.Request(), r.cookie)
	sid, _ := gs.Values[sidKey].(string)
	if _, perr := uuid.Parse(sid); perr != nil {
		sid = uuid.NewString()
		gs.Values[sidKey] = sid
		if err := gs.Save(c.Request(), c.Response()); err != nil {
			return nil, false, err
		}
	}

	b, fresh, err = r.lookup(sid)
	if err != nil {
		return nil, false, err
	}
	b.mu.Lock()
	return b, fresh, nil
}

// lookup returns the unlocked Browser of sid, creating it when needed. The
// idle clock is refreshed under the registry lock so a Sweep running before
// the caller locks the Browser cannot evict it.
func (r *Registry) lookup(sid string) (*Browser, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.browsers[sid]
	if !ok {
		var err error
		if b, err = r.create(sid); err != nil {
			return nil, false, err
		}
		r.browsers[sid] = b
	}
	b.lastSeen = r.now()
	return b, !ok, nil
}

func (r *Registry) create(sid string) (*Browser, error) {
	var jar http.CookieJar
	if r.withJar {
		j, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		jar = j
	}
	sess := session.New(sid, jar)
	page := NewPage("")
	ctrl := r.newCtrl(sess, page)
	page.LoanDate = ctrl.Today()
	return &Browser{ID: sid, Page: page, Cmd: ctrl}, nil
}

// SessionID reads the browser id from the cookie without creating one.
func (r *Registry) SessionID(c echo.Context) string {
	gs, err := r.store.Get(c.Request(), r.cookie)
	if err != nil || gs.IsNew {
		return ""
	}
	sid, _ := gs.Values[sidKey].(string)
	return sid
}

// Sweep drops browsers idle for longer than maxIdle. Their persisted
// tokens stay in the token store.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for sid, b := range r.browsers {
		if !b.lastSeen.Before(cutoff) || !b.mu.TryLock() {
			continue
		}
		delete(r.browsers, sid)
		n++
		b.mu.Unlock()
	}
	return n
}

// SweepEvery runs Sweep on every tick until ctx is done.
func (r *Registry) SweepEvery(ctx context.Context, every, maxIdle time.Duration, log *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(maxIdle); n > 0 {
				log.Info("evicted idle browsers", zap.Int("count", n), zap.Int("live", r.Len()))
			}
		}
	}
}

// Len is the number of live browsers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.browsers)
}
