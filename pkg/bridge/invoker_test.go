package bridge

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeHelper(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-helper")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestLocateViaPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell helper only")
	}
	dir := t.TempDir()
	writeFakeHelper(t, dir, "echo ok\n")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	inv := NewInvoker("fake-helper", time.Second)
	path, err := inv.Locate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fake-helper"), path)
}

func TestLocateFailsWithDetailedError(t *testing.T) {
	inv := NewInvoker("totally-nonexistent-helper-binary", time.Second)
	_, err := inv.Locate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "totally-nonexistent-helper-binary")
}

func TestInvokeCapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell helper only")
	}
	dir := t.TempDir()
	helper := writeFakeHelper(t, dir, "echo hello-from-helper\n")

	inv := NewInvoker("fake-helper", 5*time.Second)
	out, err := inv.Invoke(context.Background(), helper, filepath.Join(dir, "req.json"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "hello-from-helper")
}

func TestInvokeSurfacesStderrOnNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell helper only")
	}
	dir := t.TempDir()
	helper := writeFakeHelper(t, dir, "echo boom 1>&2\nexit 1\n")

	inv := NewInvoker("fake-helper", 5*time.Second)
	_, err := inv.Invoke(context.Background(), helper, filepath.Join(dir, "req.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestInvokeTimesOut(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell helper only")
	}
	dir := t.TempDir()
	helper := writeFakeHelper(t, dir, "sleep 5\n")

	inv := NewInvoker("fake-helper", 50*time.Millisecond)
	_, err := inv.Invoke(context.Background(), helper, filepath.Join(dir, "req.json"))
	require.ErrorIs(t, err, ErrTimeout)
}
