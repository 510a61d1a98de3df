package store

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/youruser/mockupapp/internal/apperr"
	"github.com/youruser/mockupapp/internal/util"
)

// Disk writes objects as files under dir. A file older than ttl counts as
// gone and is removed by Sweep.
type Disk struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

func NewDisk(dir string, ttl time.Duration) (*Disk, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "create store dir")
	}
	return &Disk{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (d *Disk) Put(_ context.Context, name string, obj Object) (string, error) {
	id := newID(name)
	if err := util.WriteFileAtomic(filepath.Join(d.dir, id+extFor(obj.ContentType)), obj.Data); err != nil {
		return "", apperr.Wrap(apperr.KindStorage, err, "write image")
	}
	return id, nil
}

func (d *Disk) Get(_ context.Context, id string) (*Object, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(d.dir, id+".*"))
	if err != nil || len(matches) == 0 {
		return nil, notFound(id)
	}
	path := matches[0]

	info, err := os.Stat(path)
	if err != nil {
		return nil, notFound(id)
	}
	if d.expired(info) {
		os.Remove(path)
		return nil, notFound(id)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(id)
		}
		return nil, apperr.Wrap(apperr.KindStorage, err, "read image")
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &Object{Data: data, ContentType: ct}, nil
}

// Sweep deletes expired files and returns how many were removed.
func (d *Disk) Sweep() (int, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindStorage, err, "list store dir")
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil || !d.expired(info) {
			continue
		}
		if os.Remove(filepath.Join(d.dir, e.Name())) == nil {
			removed++
		}
	}
	return removed, nil
}

func (d *Disk) expired(info fs.FileInfo) bool {
	return d.ttl > 0 && d.now().Sub(info.ModTime()) > d.ttl
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png", "":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
