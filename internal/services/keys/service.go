// Package keys provides API key ring management with file watching and persistence.
package keys

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/barkgg/barkdash/internal/logger"
	"github.com/barkgg/barkdash/internal/models"
)

// KeysFile represents the JSON file structure for key storage.
type KeysFile struct {
	Keys    []models.KeyEntry `json:"keys"`
	Version int               `json:"version,omitempty"`
}

// Event represents a key service event.
type Event struct {
	Type  EventType
	Error error
	Key   *models.KeyEntry
}

// EventType defines the type of key event.
type EventType int

const (
	EventKeysLoaded EventType = iota
	EventKeysChanged
	EventKeyAdded
	EventKeyUpdated
	EventKeyDeleted
	EventError
)

// Service manages API keys with file watching and change notifications.
type Service struct {
	mu            sync.RWMutex
	keys          []models.KeyEntry
	filePath      string
	watcher       *fsnotify.Watcher
	onChange      func()
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// defaultKeysPath returns the default keys file path.
func defaultKeysPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "barkdash", "keys.json")
}

// New creates a new key service and starts file watching.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		filePath = defaultKeysPath()
	}

	s := &Service{
		keys:      make([]models.KeyEntry, 0),
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	// Ensure directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load keys from file
	if err := s.loadKeys(); err != nil {
		// If file doesn't exist, create an empty key file
		if os.IsNotExist(err) {
			if err := s.saveKeys(); err != nil {
				return nil, fmt.Errorf("failed to create keys file: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to load keys: %w", err)
		}
	}

	// Start file watcher
	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventKeysLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to key changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// SetOnChange sets a callback invoked after the key file changes on disk.
func (s *Service) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// List returns a copy of all keys.
func (s *Service) List() []models.KeyEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]models.KeyEntry, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Get returns the key with the given ID.
func (s *Service) Get(id string) (models.KeyEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, k := range s.keys {
		if k.ID == id {
			return k, true
		}
	}
	return models.KeyEntry{}, false
}

// Count returns the number of stored keys.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Add adds a new key to the ring.
func (s *Service) Add(entry models.KeyEntry) error {
	if entry.Key == "" {
		return fmt.Errorf("key must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check for duplicate
	for _, k := range s.keys {
		if k.Key == entry.Key {
			return fmt.Errorf("key %s already exists", models.MaskKey(entry.Key))
		}
	}

	// Set defaults
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("key_%d", time.Now().UnixNano())
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}

	s.keys = append(s.keys, entry)

	if err := s.saveKeysLocked(); err != nil {
		// Rollback
		s.keys = s.keys[:len(s.keys)-1]
		return fmt.Errorf("failed to save keys: %w", err)
	}

	s.sendEvent(Event{Type: EventKeyAdded, Key: &entry})
	return nil
}

// Rename changes the label of an existing key.
func (s *Service) Rename(id, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	var updated models.KeyEntry
	for i := range s.keys {
		if s.keys[i].ID == id {
			s.keys[i].Label = label
			updated = s.keys[i]
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("key not found: %s", id)
	}

	if err := s.saveKeysLocked(); err != nil {
		return fmt.Errorf("failed to save keys: %w", err)
	}

	s.sendEvent(Event{Type: EventKeyUpdated, Key: &updated})
	return nil
}

// Remove deletes a key from the ring by ID.
func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.keys {
		if s.keys[i].ID == id {
			idx = i
			break
		}
	}

	if idx < 0 {
		return fmt.Errorf("key not found: %s", id)
	}

	removed := s.keys[idx]
	s.keys = append(s.keys[:idx], s.keys[idx+1:]...)

	if err := s.saveKeysLocked(); err != nil {
		return fmt.Errorf("failed to save keys: %w", err)
	}

	s.sendEvent(Event{Type: EventKeyDeleted, Key: &removed})
	return nil
}

// loadKeys reads and parses the keys file.
func (s *Service) loadKeys() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	keys, err := s.parseKeys(data)
	if err != nil {
		return err
	}

	s.keys = keys
	return nil
}

// parseKeys decodes the keys file. It accepts both the wrapped file format
// and a bare JSON array of entries written by older tooling.
func (s *Service) parseKeys(data []byte) ([]models.KeyEntry, error) {
	var file KeysFile
	if err := json.Unmarshal(data, &file); err == nil && file.Keys != nil {
		return file.Keys, nil
	}

	var bare []models.KeyEntry
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("unrecognized keys file format")
}

// saveKeys saves keys to the JSON file (public version).
func (s *Service) saveKeys() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveKeysLocked()
}

// saveKeysLocked saves keys to the JSON file (must hold lock).
func (s *Service) saveKeysLocked() error {
	file := KeysFile{
		Keys:    s.keys,
		Version: 1,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keys: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation/deletion)
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our keys file
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.handleFileChange()
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads keys from file after an external change.
func (s *Service) handleFileChange() {
	s.mu.Lock()
	err := s.loadKeys()
	s.mu.Unlock()

	if err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	s.sendEvent(Event{Type: EventKeysChanged})

	s.mu.RLock()
	onChange := s.onChange
	s.mu.RUnlock()

	if onChange != nil {
		onChange()
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
