// Package fs implements the blob store on a local directory tree.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"chemcore/internal/blob/core"
)

// Store implements core.Store using the local filesystem. Keys map to
// relative file paths under the root, with a sidecar file (data path plus
// `.meta`) holding content type and user metadata. Writes are atomic per
// file but the store is not safe for concurrent writers of the same key.
type Store struct {
	root string
}

// New returns a filesystem-backed blob store rooted at path, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./bundledata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// location is the pair of on-disk paths backing one key.
type location struct {
	data string
	meta string
}

// cleanKey forbids empty keys, path traversal, and absolute paths.
func cleanKey(key string) (string, error) {
	switch {
	case strings.TrimSpace(key) == "":
		return "", fmt.Errorf("empty key")
	case strings.Contains(key, ".."):
		return "", fmt.Errorf("invalid key contains '..'")
	case strings.HasPrefix(key, "/"):
		return "", fmt.Errorf("invalid absolute key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key traversal")
	}
	return clean, nil
}

func (s *Store) locate(key string) (location, error) {
	k, err := cleanKey(key)
	if err != nil {
		return location{}, err
	}
	data := filepath.Join(s.root, k)
	return location{data: data, meta: data + ".meta"}, nil
}

// sidecar is the JSON document stored next to each blob.
type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// stage streams r into a temp file inside dir, returning the temp path,
// the hex sha256 of the content, and the byte count.
func stage(dir string, r io.Reader) (string, string, int64, error) {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", "", 0, err
	}
	digest := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, digest), r)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", "", 0, err
	}
	return tmp.Name(), hex.EncodeToString(digest.Sum(nil)), size, nil
}

// Put streams the content to a temp file, computes its digest, and moves it
// into place. Existing keys are rejected to keep stored bundles immutable.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	loc, err := s.locate(key)
	if err != nil {
		return core.Info{}, err
	}
	if _, err := os.Stat(loc.data); err == nil {
		return core.Info{}, fmt.Errorf("blob %s already exists", key)
	}
	if err := os.MkdirAll(filepath.Dir(loc.data), 0o755); err != nil {
		return core.Info{}, err
	}
	tmp, etag, size, err := stage(filepath.Dir(loc.data), r)
	if err != nil {
		return core.Info{}, err
	}
	defer func() { _ = os.Remove(tmp) }()
	if err := os.Rename(tmp, loc.data); err != nil {
		return core.Info{}, err
	}
	now := time.Now().UTC()
	sc := sidecar{
		ContentType: opts.ContentType,
		Metadata:    copyMeta(opts.Metadata),
		ETag:        etag,
		Size:        size,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := storeSidecar(loc.meta, sc); err != nil {
		return core.Info{}, err
	}
	return s.describe(key, sc), nil
}

// Get returns blob metadata and a reader over its content.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	loc, err := s.locate(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	file, err := os.Open(loc.data)
	if err != nil {
		return core.Info{}, nil, err
	}
	sc, err := loadSidecar(loc.meta)
	if err != nil {
		_ = file.Close()
		return core.Info{}, nil, err
	}
	return s.describe(key, sc), file, nil
}

// Head returns blob metadata only.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	loc, err := s.locate(key)
	if err != nil {
		return core.Info{}, err
	}
	sc, err := loadSidecar(loc.meta)
	if err != nil {
		return core.Info{}, err
	}
	return s.describe(key, sc), nil
}

// Delete removes the blob and its sidecar, reporting whether it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	loc, err := s.locate(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(loc.data); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := os.Remove(loc.data); err != nil {
		return false, err
	}
	_ = os.Remove(loc.meta)
	return true, nil
}

// List walks the root collecting sidecar files whose keys match the prefix.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	var infos []core.Info
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".meta") {
			return err
		}
		sc, err := loadSidecar(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, strings.TrimSuffix(path, ".meta"))
		if err != nil {
			return err
		}
		if key := filepath.ToSlash(rel); prefix == "" || strings.HasPrefix(key, prefix) {
			infos = append(infos, s.describe(key, sc))
		}
		return nil
	}
	if err := filepath.WalkDir(s.root, walk); err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// PresignURL returns a pseudo URL for local development. Only GET is supported.
func (s *Store) PresignURL(_ context.Context, key string, opts core.SignedURLOptions) (string, error) {
	if opts.Method != "" && strings.ToUpper(opts.Method) != "GET" {
		return "", core.ErrUnsupported
	}
	return s.devURL(key), nil
}

func (s *Store) describe(key string, sc sidecar) core.Info {
	return core.Info{
		Key:          key,
		Size:         sc.Size,
		ContentType:  sc.ContentType,
		ETag:         sc.ETag,
		Metadata:     copyMeta(sc.Metadata),
		LastModified: sc.UpdatedAt,
		URL:          s.devURL(key),
	}
}

func (s *Store) devURL(key string) string {
	return (&url.URL{Scheme: "http", Host: "local.blob", Path: "/" + key}).String()
}

func copyMeta(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func storeSidecar(path string, sc sidecar) error {
	b, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func loadSidecar(path string) (sidecar, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return sidecar{}, err
	}
	var sc sidecar
	if err := json.Unmarshal(b, &sc); err != nil {
		return sidecar{}, err
	}
	return sc, nil
}
