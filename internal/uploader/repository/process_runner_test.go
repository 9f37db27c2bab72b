package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galacticworkshop/steam-depot-uploader/pkg/systemutil"
)

func TestProcessRunner_Start(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "steamcmd.sh")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("in workdir\n"), 0644))
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"args: $*\"\ncat marker.txt\necho oops >&2\nexit 7\n"), 0755))

	stream, err := ProcessRunner{}.Start(context.Background(), script, dir, "+login", "bob", "+quit")
	require.NoError(t, err)

	var lines []systemutil.Line
	for stream.Next() {
		lines = append(lines, stream.Line())
	}
	exitCode, err := stream.Wait()
	require.NoError(t, err)
	assert.Equal(t, 7, exitCode)

	assert.Contains(t, lines, systemutil.Line{Text: "args: +login bob +quit"})
	assert.Contains(t, lines, systemutil.Line{Text: "oops", Stderr: true})
	assert.Contains(t, lines, systemutil.Line{Text: "in workdir"})
}

func TestProcessRunner_StartMissingExecutable(t *testing.T) {
	_, err := ProcessRunner{}.Start(context.Background(), filepath.Join(t.TempDir(), "nope"), "")
	assert.Error(t, err)
}
