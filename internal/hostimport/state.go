// Package hostimport implements the ~40-function guest-import surface
// (spec §4.4) across its six namespaces (env, std, aidoku, net, json,
// defaults), all wired through wazero's dynamic-signature host module
// builder (internal/engine.Namespace).
package hostimport

import (
	"net/http"
	"sync"
	"time"

	"github.com/aidoku-host/aidoku-host/internal/descriptor"
	"github.com/aidoku-host/aidoku-host/internal/hostlog"
	"github.com/aidoku-host/aidoku-host/internal/reqstore"
	"github.com/aidoku-host/aidoku-host/internal/value"
)

// State is the per-session state every host import closes over: the
// value heap, the request store, the session-scoped defaults map, and
// the collaborators (logger, HTTP client) grounded on the teacher's own
// idioms (internal/hub.Hub's mutex-map shape, gitprovider/github.go's
// http.Client{Timeout: …} construction).
type State struct {
	Values   *descriptor.Table
	Requests *reqstore.Store
	Log      *hostlog.Logger

	defaultsMu sync.Mutex
	defaults   map[string]value.Value

	httpClient *http.Client
}

// NewState returns a State ready to back one session's import surface.
func NewState(log *hostlog.Logger) *State {
	return &State{
		Values:   descriptor.New(),
		Requests: reqstore.New(),
		Log:      log,
		defaults: make(map[string]value.Value),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *State) getDefault(key string) (value.Value, bool) {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	v, ok := s.defaults[key]
	return v, ok
}

func (s *State) setDefault(key string, v value.Value) {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	s.defaults[key] = v
}
