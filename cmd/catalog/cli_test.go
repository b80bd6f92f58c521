package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeMemegen(t *testing.T) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"drake"},{"id":"gru"},{"id":"success"}]`))
	}))
	t.Cleanup(srv.Close)

	t.Chdir(t.TempDir())
	t.Setenv("MEMEGEN_BASE_URL", srv.URL)
	t.Setenv("REDIS_URL", "")
	return &calls
}

func TestListCommand(t *testing.T) {
	calls := fakeMemegen(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"list"}, &out))

	var got listOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, []string{"drake", "gru", "success"}, got.Templates)
	assert.NotNil(t, got.FetchedAt)
	assert.EqualValues(t, 1, calls.Load())
}

func TestListIsDefaultCommand(t *testing.T) {
	fakeMemegen(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &out))
	assert.Contains(t, out.String(), `"gru"`)
}

func TestResolveCommand(t *testing.T) {
	fakeMemegen(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--refresh", "resolve", "gru-plan", "Success_Kid", "nope"}, &out))

	var got []resolution
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, resolution{Requested: "gru-plan", Alias: "gru", Resolved: "gru"}, got[0])
	assert.Equal(t, "success", got[1].Resolved)
	assert.Equal(t, resolution{Requested: "nope", Resolved: "drake"}, got[2])
}

func TestUnknownCommand(t *testing.T) {
	fakeMemegen(t)

	err := run(context.Background(), []string{"explode"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestHelpExitsCleanly(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--help"}, &out))
	assert.Contains(t, out.String(), "resolve")
}
