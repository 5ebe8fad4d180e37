package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
	"swiftstyle/internal/version"
)

// Current schema version - increment when cacheEntry format changes
const cacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Cache хранит результаты проверки файлов на диске, по ключу из
// содержимого файла и отпечатка настроек правил.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// cacheEntry is the on-disk form of one file's result. Spans are stored
// with a zero file id and rebound on load.
type cacheEntry struct {
	Schema      uint16
	Diagnostics []diag.Diagnostic
	Dropped     int
}

// OpenCache opens the cache at the standard location for app.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		base = dir
	}
	return NewCache(filepath.Join(base, app))
}

// NewCache opens a cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey derives the key of a file under the given settings fingerprint.
// Any change of content, rule settings, tool version or schema yields a
// different key.
func CacheKey(file *source.File, fingerprint string) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], cacheSchemaVersion)
	h.Write(schema[:])
	h.Write([]byte(version.Version))
	h.Write([]byte{0})
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(file.Hash[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := key.String()
	// двухсимвольные подкаталоги, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes the diagnostics of one file.
func (c *Cache) Put(key Digest, diags []diag.Diagnostic, dropped int) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	entry := cacheEntry{Schema: cacheSchemaVersion, Diagnostics: rebind(diags, 0), Dropped: dropped}
	if err := msgpack.NewEncoder(f).Encode(&entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads the cached diagnostics for key and rebinds them to file.
// A missing entry or one written by another schema is a miss.
func (c *Cache) Get(key Digest, file source.FileID) (diags []diag.Diagnostic, dropped int, ok bool, err error) {
	if c == nil {
		return nil, 0, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}
	defer f.Close()

	var entry cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, 0, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if entry.Schema != cacheSchemaVersion {
		return nil, 0, false, nil
	}
	return rebind(entry.Diagnostics, file), entry.Dropped, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// rebind returns a copy of diags with every span pointing at file.
func rebind(diags []diag.Diagnostic, file source.FileID) []diag.Diagnostic {
	if len(diags) == 0 {
		return nil
	}
	out := make([]diag.Diagnostic, len(diags))
	for i, d := range diags {
		d.Primary.File = file
		if len(d.Notes) > 0 {
			notes := make([]diag.Note, len(d.Notes))
			for j, n := range d.Notes {
				n.Span.File = file
				notes[j] = n
			}
			d.Notes = notes
		}
		if len(d.Fixes) > 0 {
			fixes := make([]diag.Fix, len(d.Fixes))
			for j, fx := range d.Fixes {
				edits := make([]diag.TextEdit, len(fx.Edits))
				for k, e := range fx.Edits {
					e.Span.File = file
					edits[k] = e
				}
				fx.Edits = edits
				fixes[j] = fx
			}
			d.Fixes = fixes
		}
		out[i] = d
	}
	return out
}
