package dist

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bundlesize/artifacts"
)

const DefaultWorkers = 4

// Collector reads every file below Dir into an artifact store, keyed by its
// slash-separated path relative to Dir.
type Collector struct {
	Dir     string
	Workers int
	// Glob patterns matched against both the base name and the relative
	// path. Matching directories are skipped entirely.
	Ignore []string
}

type file struct {
	name string
	path string
}

func (c *Collector) ignored(name, rel string) bool {
	if name == ".git" {
		return true
	}
	for _, pattern := range c.Ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (c *Collector) listFiles() ([]file, error) {
	f, err := os.Stat(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read output directory: %w", err)
	}
	if !f.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", c.Dir)
	}

	var files []file
	err = filepath.WalkDir(c.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == c.Dir {
			return nil
		}
		rel, err := filepath.Rel(c.Dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if c.ignored(d.Name(), rel) {
			log.Debugf("Ignoring %s", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, file{name: rel, path: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", c.Dir, err)
	}
	return files, nil
}

// Collect stores every file found below Dir and returns how many were read.
// At most Workers files are read at once. The first read error or
// cancellation of ctx aborts the collection.
func (c *Collector) Collect(ctx context.Context, store *artifacts.Store) (int, error) {
	files, err := c.listFiles()
	if err != nil {
		return 0, err
	}
	log.Debugf("Found %d files in %s", len(files), c.Dir)

	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var count atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, f := range files {
		if gctx.Err() != nil {
			break
		}
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(f.path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.name, err)
			}
			log.Tracef("Read %s (%s)", f.name, humanize.IBytes(uint64(len(data))))
			store.Put(f.name, data)
			count.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(count.Load()), err
	}
	return int(count.Load()), ctx.Err()
}
