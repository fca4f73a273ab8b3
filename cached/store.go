// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cached

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/apex/log"
)

const (
	// ValueExt is the file extension of the encoded value of a key.
	ValueExt = ".json"
	// MetaExt is the file extension of the encoded Meta of a key.
	MetaExt = ".cache"
)

var (
	sharedOnce  sync.Once
	sharedStore *Store
)

// Store is a file-backed cache rooted at a single directory. It keeps no state
// in memory; every call goes to disk, so changes made by other processes are
// seen immediately. Store does no locking and is only safe with one writer per
// key at a time.
type Store struct {
	dir string
	now func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns a Store that keeps its files in dir. The directory is
// created on the first write.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shared returns the process-wide Store rooted at DefaultDir. It is created on
// first use.
func Shared() *Store {
	sharedOnce.Do(func() {
		sharedStore = NewStore(DefaultDir())
		log.Debugf("shared cache store at %s", sharedStore.dir)
	})
	return sharedStore
}

// DefaultDir resolves the cache directory: os.UserCacheDir()/cached, or the
// current directory if the user cache directory is unknown.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "cached")
	}
	return "./"
}

// Dir returns the directory the store manages.
func (s *Store) Dir() string {
	return s.dir
}

// ValuePath returns the path of the value file for key. Keys are not escaped
// and must be safe to use as file names.
func (s *Store) ValuePath(key string) string {
	return filepath.Join(s.dir, key+ValueExt)
}

// MetaPath returns the path of the metadata file for key.
func (s *Store) MetaPath(key string) string {
	return filepath.Join(s.dir, key+MetaExt)
}

// Create replaces the entry for key with value, expiring after ttl seconds
// (never if ttl <= 0). Metadata is written before the value and is left in
// place if the value write fails. It reports whether the value was written.
func (s *Store) Create(key string, value any, ttl float64) bool {
	if err := os.MkdirAll(s.dir, 0o755); err != nil { //nolint:mnd
		log.WithError(err).Debugf("failed to create cache directory %s", s.dir)
	}

	p := s.ValuePath(key)
	remove(p)
	s.createMeta(key, value, ttl)

	data, ok := Encode(value)
	if !ok {
		return false
	}
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		log.WithError(err).Debugf("failed to write cache file %s", p)
		return false
	}
	log.WithField("key", key).Debugf("cached %d bytes", len(data))
	return true
}

func (s *Store) createMeta(key string, value any, ttl float64) {
	p := s.MetaPath(key)
	remove(p)

	data, ok := Encode(NewMeta(ttl, value, s.now()))
	if !ok {
		return
	}
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		log.WithError(err).Debugf("failed to write cache meta %s", p)
	}
}

// Read decodes the value cached for key into target, a non-nil pointer. Stale
// entries are purged first. A missing or undecodable value reports false.
func (s *Store) Read(key string, target any) bool {
	if meta, ok, removed := s.purge(key); ok && !removed {
		warnTypeMismatch(key, meta, target)
	}

	data, err := os.ReadFile(s.ValuePath(key))
	if err != nil {
		return false
	}
	return DecodeInto(data, target)
}

// Read returns the value cached for key in s as a T.
func Read[T any](s *Store, key string) (T, bool) {
	var v T
	if !s.Read(key, &v) {
		var zero T
		return zero, false
	}
	return v, true
}

// Meta returns the metadata of key without checking for staleness.
func (s *Store) Meta(key string) (Meta, bool) {
	data, err := os.ReadFile(s.MetaPath(key))
	if err != nil {
		return Meta{}, false
	}
	return Decode[Meta](data)
}

// Purge removes both files of key if its metadata says it is stale. Missing or
// unreadable metadata leaves the entry alone. It reports whether anything was
// removed.
func (s *Store) Purge(key string) bool {
	_, _, removed := s.purge(key)
	return removed
}

func (s *Store) purge(key string) (meta Meta, ok bool, removed bool) {
	meta, ok = s.Meta(key)
	if !ok || !meta.Stale(s.now()) {
		return meta, ok, false
	}

	log.WithField("key", key).Debugf("purging entry expired at %s", meta.Expires)
	v := remove(s.ValuePath(key))
	m := remove(s.MetaPath(key))
	return meta, ok, v || m
}

// remove deletes path, ignoring failures. It reports whether a file was
// removed.
func remove(path string) bool {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Debugf("failed to remove cache file %s", path)
	}
	return err == nil
}

// warnTypeMismatch logs when key was written as a different type than the one
// being read. The read still goes ahead.
func warnTypeMismatch(key string, meta Meta, target any) {
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Pointer {
		return
	}
	want := t.Elem()
	if want.Kind() == reflect.Interface || meta.ValueType == "" {
		return
	}
	if want.String() != meta.ValueType {
		log.WithFields(log.Fields{
			"key":     key,
			"cached":  meta.ValueType,
			"reading": want.String(),
		}).Warn("cached value type differs from requested type")
	}
}
