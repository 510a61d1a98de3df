package util

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.png")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestPostJSON(t *testing.T) {
	received := make(chan map[string]any, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var got map[string]any
		json.NewDecoder(r.Body).Decode(&got)
		received <- got
		if got["fail"] == true {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewClient(time.Second)

	body, err := PostJSON(context.Background(), client, srv.URL, map[string]any{"image_url": "u"})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "u", (<-received)["image_url"])

	_, err = PostJSON(context.Background(), client, srv.URL, map[string]any{"fail": true})
	assert.ErrorContains(t, err, "status 502")
}

func TestDenyInternal(t *testing.T) {
	tests := []struct {
		addr string
		deny bool
	}{
		{"127.0.0.1:80", true},
		{"[::1]:443", true},
		{"10.0.0.7:443", true},
		{"192.168.1.20:8080", true},
		{"169.254.169.254:80", true},
		{"0.0.0.0:80", true},
		{"[::ffff:127.0.0.1]:80", true},
		{"93.184.216.34:443", false},
		{"[2606:2800:220:1::]:443", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			err := DenyInternal("tcp", tt.addr, nil)
			if tt.deny {
				assert.ErrorIs(t, err, ErrInternalAddress)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGuardedClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := PostJSON(context.Background(), NewGuardedClient(time.Second), srv.URL, map[string]any{})
	assert.ErrorIs(t, err, ErrInternalAddress)

	_, err = PostJSON(context.Background(), NewClient(time.Second), srv.URL, map[string]any{})
	assert.NoError(t, err)
}
