package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSimulate(t *testing.T) {
	cases := []struct {
		name   string
		opts   options
		want   string
		anyOut bool
	}{
		{
			name: "on_demand_scene_snaps",
			opts: options{scene: "duel.yaml", frames: 3, dt: 1.0 / 60, report: 1},
			want: "position=(10.0000, 2.5000, -10.0000) size=5.0000\n",
		},
		{
			name: "zero_frames_leaves_camera",
			opts: options{scene: "duel.yaml", frames: 0, dt: 1.0 / 60},
			want: "position=(0.0000, 0.0000, -10.0000) size=1.0000\n",
		},
		{
			name:   "realtime_scene_with_physics_and_scripts",
			opts:   options{scene: "chase.yaml", frames: 120, dt: 1.0 / 60, report: 30},
			anyOut: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opts := c.opts
			opts.scene = filepath.Join("testdata", opts.scene)

			var out bytes.Buffer
			require.NoError(t, simulate(opts, zap.NewNop(), &out))
			if c.anyOut {
				assert.Contains(t, out.String(), "position=(")
				return
			}
			assert.Equal(t, c.want, out.String())
		})
	}
}

func TestSimulateErrors(t *testing.T) {
	cases := []struct {
		name string
		opts options
	}{
		{"missing_scene", options{scene: filepath.Join("testdata", "nope.yaml"), frames: 1, dt: 0.1}},
		{"bad_dt", options{scene: filepath.Join("testdata", "duel.yaml"), frames: 1, dt: 0}},
		{"negative_frames", options{scene: filepath.Join("testdata", "duel.yaml"), frames: -1, dt: 0.1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, simulate(c.opts, zap.NewNop(), &out))
			assert.Empty(t, out.String())
		})
	}
}

func TestSimulateAllKeepsSceneOrder(t *testing.T) {
	duel := filepath.Join("testdata", "duel.yaml")
	chase := filepath.Join("testdata", "chase.yaml")
	opts := options{frames: 10, dt: 1.0 / 60}

	var out bytes.Buffer
	require.NoError(t, simulateAll([]string{duel, chase}, opts, zap.NewNop(), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, duel+": position=(10.0000, 2.5000, -10.0000) size=5.0000", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], chase+": position=("), lines[1])

	out.Reset()
	err := simulateAll([]string{duel, filepath.Join("testdata", "nope.yaml")}, opts, zap.NewNop(), &out)
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(out.String(), duel+": "))
}

func TestContentChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\n"), 0o644))

	digests := make(map[string]uint64)
	assert.True(t, contentChanged(digests, path))
	assert.False(t, contentChanged(digests, path), "rewrite with same bytes")

	require.NoError(t, os.WriteFile(path, []byte("name: b\n"), 0o644))
	assert.True(t, contentChanged(digests, path))

	require.NoError(t, os.Remove(path))
	assert.True(t, contentChanged(digests, path))
	assert.NotContains(t, digests, path)
}
