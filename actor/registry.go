package actor

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
)

// AddOption configures a single Add call. Go cannot recover a parameter's
// default value from a compiled function the way the specification's
// reflection-based registry recovers a Python default argument, so defaults
// for DependencyParameter are supplied explicitly through WithDefault.
type AddOption func(*addConfig)

type addConfig struct {
	defaults map[reflect.Type]any
	async    bool
}

// WithDefault registers a default value for any dependency parameter whose
// contract equals reflect.TypeOf(value). Applies to the Add call it is
// passed to only.
func WithDefault(value any) AddOption {
	return func(c *addConfig) {
		if c.defaults == nil {
			c.defaults = make(map[reflect.Type]any)
		}
		c.defaults[reflect.TypeOf(value)] = value
	}
}

// WithAsync marks the actor's entry as ASYNC. The mark is recorded on the
// Entry only; the Processor still runs the actor to completion before it
// pops the next job.
func WithAsync() AddOption {
	return func(c *addConfig) { c.async = true }
}

// Registry is the classifying, indexing store of actors a dispatch Loop
// consults to find every entry applicable to an incoming message
// (spec.md §3 ActorRegistry, §4.3 indexing).
//
// Registry is safe for concurrent use: Add typically happens once at
// start-up, but Get is called on every enqueue and may run concurrently
// with further registration in long-lived processes that register actors
// lazily (e.g. plugin loading).
type Registry struct {
	mu sync.RWMutex

	byID     map[int64]*Entry
	order    []int64
	byExact  map[reflect.Type][]int64
	ifaceKey []reflect.Type
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byID:    make(map[int64]*Entry),
		byExact: make(map[reflect.Type][]int64),
	}
}

// Add classifies fn and registers it. fn must be a func value; its
// semantic kind and parameters are derived entirely from its signature
// (spec.md §4.2, §4.3). Adding a function value already registered is a
// no-op, matching the specification's idempotent re-add.
func (r *Registry) Add(fn any, opts ...AddOption) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return CannotRegisterActor(fmt.Sprintf("%T is not a function", fn))
	}

	id := v.Pointer()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[int64(id)]; exists {
		return nil
	}

	cfg := &addConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	name := runtime.FuncForPC(id).Name()
	fnType := v.Type()

	kind, ioSubkind, retType, err := classifyReturn(fnType, name)
	if err != nil {
		return err
	}

	params, err := deriveParameters(fnType, name, cfg)
	if err != nil {
		return err
	}

	execution := SYNC
	if cfg.async {
		execution = ASYNC
	}

	entry := &Entry{
		ID:         int64(id),
		Kind:       kind,
		IOSubkind:  ioSubkind,
		Execution:  execution,
		Parameters: params,
		ReturnType: retType,
		Fn:         v,
		name:       name,
	}

	r.register(entry)
	return nil
}

func deriveParameters(fnType reflect.Type, name string, cfg *addConfig) (Parameters, error) {
	var params Parameters
	for i := 0; i < fnType.NumIn(); i++ {
		in := fnType.In(i)
		isMsg, isCtx, contract := classifyParameter(in)
		switch {
		case isMsg && isCtx:
			params.Context = append(params.Context, ContextParameter{Index: i, Contract: contract})
		case isMsg:
			params.Domain = append(params.Domain, DomainParameter{Index: i, Contract: contract})
		default:
			dep := DependencyParameter{Index: i, Contract: in}
			if cfg != nil {
				if def, ok := cfg.defaults[in]; ok {
					dep.Default = def
					dep.HasDefault = true
				}
			}
			params.Dependencies = append(params.Dependencies, dep)
		}
	}
	if len(params.Domain) == 0 && len(params.Context) == 0 {
		return Parameters{}, CannotDefineActorParameter(
			fmt.Sprintf("%s: declares no domain or context parameter", name))
	}
	return params, nil
}

// register indexes entry according to its semantic kind: a CONTEXT entry is
// indexed on its return type; every other entry is indexed on each of its
// domain and context parameter contracts, with AUDIT entries prepended so
// Get always yields every AUDIT entry before any non-AUDIT entry for the
// same contract (spec invariant I1/P1).
func (r *Registry) register(e *Entry) {
	r.byID[e.ID] = e
	r.order = append(r.order, e.ID)

	keys := indexKeys(e)
	for _, key := range keys {
		if key.Kind() == reflect.Interface {
			if !r.hasIfaceKey(key) {
				r.ifaceKey = append(r.ifaceKey, key)
			}
		}
		if e.Kind == AUDIT {
			r.byExact[key] = append([]int64{e.ID}, r.byExact[key]...)
		} else {
			r.byExact[key] = append(r.byExact[key], e.ID)
		}
	}
}

func (r *Registry) hasIfaceKey(t reflect.Type) bool {
	for _, k := range r.ifaceKey {
		if k == t {
			return true
		}
	}
	return false
}

// indexKeys returns every type that should make e reachable through Get: a
// CONTEXT entry only through its own return type (the type it produces,
// consulted by registerContextJob on demand); every other entry through
// each of its Domain AND Context parameter contracts, so it is
// rediscovered and retried both when its domain input arrives and when a
// context value it depends on is finally produced (spec.md §4.4
// "_register_job" re-attempts a job whenever any of its inputs changes).
func indexKeys(e *Entry) []reflect.Type {
	if e.Kind == CONTEXT {
		if e.ReturnType == nil {
			return nil
		}
		return []reflect.Type{e.ReturnType}
	}
	keys := make([]reflect.Type, 0, len(e.Parameters.Domain)+len(e.Parameters.Context))
	for _, p := range e.Parameters.Domain {
		keys = append(keys, p.Contract)
	}
	for _, p := range e.Parameters.Context {
		keys = append(keys, p.Contract)
	}
	return keys
}

// Get returns every entry applicable to a message of the given concrete
// type: every entry indexed exactly under t, followed by every entry
// indexed under an interface type t implements (the Go analogue of walking
// a Python class's MRO for a declared supertype contract). AUDIT entries
// are always ordered before non-AUDIT entries within each contributing
// bucket.
func (r *Registry) Get(t reflect.Type) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []int64
	ids = append(ids, r.byExact[t]...)
	for _, iface := range r.ifaceKey {
		if iface == t {
			continue
		}
		if t.Implements(iface) {
			ids = append(ids, r.byExact[iface]...)
		}
	}

	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		if e := r.byID[id]; e != nil {
			entries = append(entries, e)
		}
	}
	return entries
}

// GetByID returns the entry registered under id, or false if none exists.
func (r *Registry) GetByID(id int64) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	return e, ok
}

// All returns every registered entry in registration order.
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]*Entry, 0, len(r.order))
	for _, id := range r.order {
		if e := r.byID[id]; e != nil {
			entries = append(entries, e)
		}
	}
	return entries
}

// Merge registers every entry of other into r and returns r, the Go
// analogue of the specification's ActorRegistry.__add__ concatenation
// (spec.md SUPPLEMENTED FEATURES). Entries already present (by ID) are
// left untouched.
func (r *Registry) Merge(other *Registry) *Registry {
	if other == nil {
		return r
	}
	other.mu.RLock()
	entries := make([]*Entry, 0, len(other.order))
	for _, id := range other.order {
		if e := other.byID[id]; e != nil {
			entries = append(entries, e)
		}
	}
	other.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		if _, exists := r.byID[e.ID]; exists {
			continue
		}
		r.register(e)
	}
	return r
}
