package javamodules

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// Session coordinates module synthesis over one build graph. All memoized
// state lives here: collected module dependencies and finished descriptors
// are cached on the session, never on the artifacts themselves, so
// independent sessions over the same graph cannot observe each other.
type Session struct {
	resolver ArtifactResolver
	logger   *log.Logger
	progress ProgressSink

	mu          sync.Mutex
	flight      singleflight.Group
	moduleDeps  map[string][]Artifact
	descriptors map[string]*Descriptor
}

// SessionConfig configures a Session.
type SessionConfig struct {
	// Resolver maps persisted artifact references back to live archives.
	// Required to load snapshots whose module path crosses distributions.
	Resolver ArtifactResolver
	// Logger receives session diagnostics. Defaults to log.Default().
	Logger *log.Logger
	// Progress receives synthesis progress events. Optional.
	Progress ProgressSink
}

// NewSession creates an empty session.
func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		resolver:    cfg.Resolver,
		logger:      logger,
		progress:    cfg.Progress,
		moduleDeps:  make(map[string][]Artifact),
		descriptors: make(map[string]*Descriptor),
	}
}

// ModuleFor returns the module descriptor derived from dist, producing it
// if necessary. The lookup order is session memo, persisted snapshot,
// fresh synthesis; concurrent calls for the same distribution share one
// derivation. It returns nil without error when dist does not define a
// module.
func (s *Session) ModuleFor(ctx context.Context, dist Archive, platform Platform) (*Descriptor, error) {
	if jmd, ok := s.cachedDescriptor(dist.Name()); ok {
		return jmd, nil
	}
	v, err, _ := s.flight.Do(dist.Name(), func() (any, error) {
		if jmd, ok := s.cachedDescriptor(dist.Name()); ok {
			return jmd, nil
		}
		jmd, err := s.Load(ctx, dist, platform, false)
		if err != nil {
			return nil, err
		}
		if jmd == nil {
			jmd, err = s.Synthesize(ctx, dist, platform)
			if err != nil {
				return nil, err
			}
		}
		if jmd != nil {
			s.storeDescriptor(dist.Name(), jmd)
		}
		return jmd, nil
	})
	if err != nil {
		return nil, err
	}
	jmd, _ := v.(*Descriptor)
	return jmd, nil
}

func (s *Session) cachedDescriptor(name string) (*Descriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jmd, ok := s.descriptors[name]
	return jmd, ok
}

func (s *Session) storeDescriptor(name string, jmd *Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptors[name] = jmd
}

func (s *Session) cachedModuleDeps(name string) ([]Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deps, ok := s.moduleDeps[name]
	return deps, ok
}

func (s *Session) storeModuleDeps(name string, deps []Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moduleDeps[name] = deps
}

func (s *Session) emit(evt Event) {
	if s.progress == nil {
		return
	}
	s.progress.OnEvent(evt)
}
