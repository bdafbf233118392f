package dist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundlesize/artifacts"
)

func writeFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", 256)
	writeFile(t, dir, "assets/main.js", 2048)
	writeFile(t, dir, "assets/main.js.map", 4096)
	writeFile(t, dir, "assets/css/style.css", 512)
	writeFile(t, dir, ".git/HEAD", 10)
	writeFile(t, dir, "empty.txt", 0)

	store := artifacts.NewStore()
	c := Collector{Dir: dir, Workers: 2, Ignore: []string{"*.map"}}
	n, err := c.Collect(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.Equal(t, map[string]uint64{
		"index.html":           256,
		"assets/main.js":       2048,
		"assets/css/style.css": 512,
		"empty.txt":            0,
	}, store.Snapshot())
}

func TestCollectManyFilesFewWorkers(t *testing.T) {
	dir := t.TempDir()
	want := map[string]uint64{}
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("chunks/chunk_%d.js", i)
		writeFile(t, dir, name, i*10)
		want[name] = uint64(i * 10)
	}

	store := artifacts.NewStore()
	c := Collector{Dir: dir, Workers: 3}
	n, err := c.Collect(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, 50, n)
	assert.Equal(t, want, store.Snapshot())
}

func TestCollectIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.js", 100)
	writeFile(t, dir, "node_modules/lib/index.js", 100)
	writeFile(t, dir, "assets/vendor/big.js", 100)

	store := artifacts.NewStore()
	c := Collector{Dir: dir, Ignore: []string{"node_modules", "assets/vendor"}}
	n, err := c.Collect(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, map[string]uint64{"app.js": 100}, store.Snapshot())
}

func TestCollectEmptyDirectory(t *testing.T) {
	store := artifacts.NewStore()
	c := Collector{Dir: t.TempDir()}
	n, err := c.Collect(context.Background(), store)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, store.Len())
}

func TestCollectMissingDirectory(t *testing.T) {
	c := Collector{Dir: filepath.Join(t.TempDir(), "missing")}
	_, err := c.Collect(context.Background(), artifacts.NewStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read output directory")
}

func TestCollectNotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bundle.js", 1)

	c := Collector{Dir: filepath.Join(dir, "bundle.js")}
	_, err := c.Collect(context.Background(), artifacts.NewStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestCollectCancelled(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.js", "b.js", "c.js"} {
		writeFile(t, dir, name, 10)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := Collector{Dir: dir, Workers: 1}
	_, err := c.Collect(ctx, artifacts.NewStore())
	assert.ErrorIs(t, err, context.Canceled)
}
