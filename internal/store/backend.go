package store

import (
	"log/slog"

	"github.com/peterbourgon/diskv/v3"
)

// Backend is a string key/value store. fyne.Preferences satisfies it.
type Backend interface {
	String(key string) string
	SetString(key string, value string)
	RemoveValue(key string)
}

// DiskvBackend keeps each key in its own file under a base directory
type DiskvBackend struct {
	d      *diskv.Diskv
	logger *slog.Logger
}

// NewDiskvBackend opens a diskv store rooted at basePath. The directory is created on
// first write.
func NewDiskvBackend(basePath string, logger *slog.Logger) *DiskvBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiskvBackend{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 256 * 1024,
		}),
		logger: logger.With("component", "store", "backend", "diskv"),
	}
}

// BasePath returns the directory the values live in
func (b *DiskvBackend) BasePath() string {
	return b.d.BasePath
}

// String returns the value for key or an empty string
func (b *DiskvBackend) String(key string) string {
	if !b.d.Has(key) {
		return ""
	}
	val, err := b.d.Read(key)
	if err != nil {
		b.logger.Warn("read failed", "key", key, "err", err)
		return ""
	}
	return string(val)
}

// SetString writes the value for key
func (b *DiskvBackend) SetString(key string, value string) {
	if err := b.d.WriteString(key, value); err != nil {
		b.logger.Warn("write failed", "key", key, "err", err)
	}
}

// RemoveValue deletes key if present
func (b *DiskvBackend) RemoveValue(key string) {
	if !b.d.Has(key) {
		return
	}
	if err := b.d.Erase(key); err != nil {
		b.logger.Warn("erase failed", "key", key, "err", err)
	}
}
