package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	domds "github.com/kailas-cloud/jokedex/internal/domain/dataset"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

// LockFileName is the lock readers share and a vendoring process holds exclusively while it rewrites the directory.
const LockFileName = ".jokedex.lock"

const lockRetryDelay = 50 * time.Millisecond

// maxLineSize bounds a single JSONL record.
const maxLineSize = 1 << 20

// FileSource reads datasets from a directory of <name>.json, <name>.jsonl or <name>.yaml files.
type FileSource struct {
	dir         string
	lockTimeout time.Duration
}

// NewFileSource creates a directory-backed source.
func NewFileSource(dir string, lockTimeout time.Duration) *FileSource {
	return &FileSource{dir: dir, lockTimeout: lockTimeout}
}

// Read loads every dataset file in name order while holding a shared lock on the directory.
func (s *FileSource) Read(ctx context.Context) ([]domds.Dataset, error) {
	unlock, err := s.rlock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir %s: %w", s.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, ok := decoderFor(e.Name()); ok {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	sets := make([]domds.Dataset, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := s.readFile(name)
		if err != nil {
			return nil, err
		}
		sets = append(sets, d)
	}
	return sets, nil
}

func (s *FileSource) readFile(name string) (domds.Dataset, error) {
	decode, _ := decoderFor(name)
	path := filepath.Join(s.dir, name)

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}

	jokes, err := decode(data)
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}

	d, err := domds.New(strings.TrimSuffix(name, filepath.Ext(name)), jokes)
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("dataset from %s: %w", path, err)
	}
	return d, nil
}

// rlock takes the shared directory lock, waiting up to lockTimeout for a writer to finish.
// A directory where the lock file cannot be created is read without a lock,
// since no writer can replace files there either.
func (s *FileSource) rlock(ctx context.Context) (func(), error) {
	l := flock.New(filepath.Join(s.dir, LockFileName))

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := l.TryRLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("dataset dir %s is locked by another process", s.dir)
		}
		if lockFileUnavailable(err) {
			return func() {}, nil
		}
		return nil, fmt.Errorf("lock dataset dir %s: %w", s.dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("dataset dir %s is locked by another process", s.dir)
	}
	return func() { _ = l.Unlock() }, nil
}

// lockFileUnavailable reports whether err comes from a lock file that cannot
// be created on a read-only or non-writable directory.
func lockFileUnavailable(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS)
}

// Write replaces a dataset with <name>.jsonl while holding the exclusive
// directory lock. Files of other formats for the same dataset are removed.
func (s *FileSource) Write(ctx context.Context, d *domds.Dataset) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create dataset dir %s: %w", s.dir, err)
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	var buf bytes.Buffer
	jokes := d.Jokes()
	for i := range jokes {
		data, err := EncodeJoke(&jokes[i])
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	target := filepath.Join(s.dir, d.Name()+".jsonl")
	tmp, err := os.CreateTemp(s.dir, "."+d.Name()+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename to %s: %w", target, err)
	}

	for _, ext := range []string{".json", ".ndjson", ".yaml", ".yml"} {
		stale := filepath.Join(s.dir, d.Name()+ext)
		if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", stale, err)
		}
	}
	return nil
}

// lock takes the exclusive directory lock, waiting up to lockTimeout for readers to finish.
func (s *FileSource) lock(ctx context.Context) (func(), error) {
	l := flock.New(filepath.Join(s.dir, LockFileName))

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := l.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !locked {
		if err == nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("dataset dir %s is in use by another process", s.dir)
		}
		return nil, fmt.Errorf("lock dataset dir %s: %w", s.dir, err)
	}
	return func() { _ = l.Unlock() }, nil
}

type decodeFunc func(data []byte) ([]joke.Joke, error)

func decoderFor(name string) (decodeFunc, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return decodeJSONArray, true
	case ".jsonl", ".ndjson":
		return decodeJSONLines, true
	case ".yaml", ".yml":
		return decodeYAML, true
	default:
		return nil, false
	}
}

func decodeJSONArray(data []byte) ([]joke.Joke, error) {
	var dtos []jokeDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return convertAll(dtos)
}

func decodeJSONLines(data []byte) ([]joke.Joke, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var out []joke.Joke
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		j, err := decodeJSONJoke(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, j)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return out, nil
}

func decodeYAML(data []byte) ([]joke.Joke, error) {
	var dtos []jokeDTO
	if err := yaml.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return convertAll(dtos)
}
