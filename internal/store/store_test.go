package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/mockupapp/internal/apperr"
)

var png = Object{Data: []byte("\x89PNG\r\n\x1a\nfake"), ContentType: "image/png"}

func TestNewID(t *testing.T) {
	id := newID("Acme Tee - Mockup: Front Full!")
	assert.True(t, strings.HasPrefix(id, "acme-tee-mockup-front-full-"), id)
	assert.NoError(t, checkID(id))

	assert.Len(t, newID("***"), 36)
}

func TestCheckIDRejectsTraversal(t *testing.T) {
	for _, id := range []string{"", "../etc/passwd", "a/b", "UPPER", "x.png", "-lead"} {
		assert.True(t, apperr.Is(checkID(id), apperr.KindNotFound), id)
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	id, err := m.Put(ctx, "print-front", png)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, png, *got)

	_, err = m.Get(ctx, "print-front-missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(20 * time.Millisecond)
	id, err := m.Put(context.Background(), "", png)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	_, err = m.Get(context.Background(), id)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	d, err := NewDisk(dir, time.Hour)
	require.NoError(t, err)

	id, err := d.Put(ctx, "mug wrap", png)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, id+".png"))

	got, err := d.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, png.Data, got.Data)
	assert.Equal(t, "image/png", got.ContentType)

	_, err = d.Get(ctx, "nothing-here")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDiskExpiryAndSweep(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	d, err := NewDisk(dir, time.Minute)
	require.NoError(t, err)

	oldID, err := d.Put(ctx, "old", png)
	require.NoError(t, err)
	freshID, err := d.Put(ctx, "fresh", png)
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(dir, oldID+".png"), past, past))

	n, err := d.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = d.Get(ctx, oldID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = d.Get(ctx, freshID)
	assert.NoError(t, err)
}
