// Package app provides application state, events, logging and the theme.
package app

import (
	"sync"

	"imageview/internal/image"

	"github.com/rs/zerolog"
)

// State holds the picture currently shown by the viewer.
type State struct {
	mu sync.RWMutex

	picture *image.Picture

	log       zerolog.Logger
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	// EventPictureChanged carries the new *image.Picture.
	EventPictureChanged EventType = iota
	// EventLoadFailed carries a LoadError. The current picture is unchanged.
	EventLoadFailed
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// LoadError reports a file that could not be shown.
type LoadError struct {
	Path string
	Err  error
}

func (e LoadError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e LoadError) Unwrap() error { return e.Err }

// NewState creates a new application state with no picture.
func NewState(log zerolog.Logger) *State {
	return &State{
		log:       Component(log, "state"),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Picture returns the picture being shown, or nil.
func (s *State) Picture() *image.Picture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.picture
}

// SetPicture replaces the shown picture and emits EventPictureChanged.
func (s *State) SetPicture(pic *image.Picture) {
	s.mu.Lock()
	s.picture = pic
	s.mu.Unlock()
	s.Emit(EventPictureChanged, pic)
}

// LoadPicture decodes the file at path and, on success, replaces the shown
// picture. On failure the current picture is kept, EventLoadFailed is
// emitted and the error is returned.
func (s *State) LoadPicture(path string) error {
	pic, err := image.Load(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("image not loaded")
		loadErr := LoadError{Path: path, Err: err}
		s.Emit(EventLoadFailed, loadErr)
		return loadErr
	}

	s.log.Info().
		Str("path", path).
		Str("format", pic.Format).
		Int("width", pic.Width()).
		Int("height", pic.Height()).
		Msg("image loaded")
	s.SetPicture(pic)
	return nil
}
