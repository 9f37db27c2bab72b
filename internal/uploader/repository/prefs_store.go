package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// PrefsStore keeps uploader settings in a flat JSON object of strings. The
// whole file is read once and rewritten on every change.
type PrefsStore struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// OpenPrefsStore loads path. A missing file is an empty store; a file that
// is not a JSON string map is an error.
func OpenPrefsStore(path string) (*PrefsStore, error) {
	s := &PrefsStore{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	return s, nil
}

func (s *PrefsStore) Path() string {
	return s.path
}

func (s *PrefsStore) Get(key, defaultValue string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value, ok := s.values[key]; ok {
		return value
	}
	return defaultValue
}

func (s *PrefsStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

func (s *PrefsStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

func (s *PrefsStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	return s.save()
}

// GetInt returns defaultValue when the key is missing or not a number.
func (s *PrefsStore) GetInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(s.Get(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func (s *PrefsStore) SetInt(key string, value int) error {
	return s.Set(key, strconv.Itoa(value))
}

// GetBool returns defaultValue when the key is missing or not a boolean.
func (s *PrefsStore) GetBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(s.Get(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func (s *PrefsStore) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

// Keys lists the stored keys.
func (s *PrefsStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	return keys
}

func (s *PrefsStore) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", s.path, err)
	}
	return nil
}
