package background

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"brainrot/config"
)

// Source is an enumerable pool of background clips.
type Source interface {
	// List returns the references of every candidate clip.
	List(ctx context.Context) ([]string, error)
	// Fetch resolves a reference returned by List to a local file path.
	Fetch(ctx context.Context, ref string) (string, error)
}

// DirSource is a local folder of clips.
type DirSource struct {
	Dir     string
	Pattern string
}

// NewDirSource returns a DirSource matching config.BackgroundPattern.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir, Pattern: config.BackgroundPattern}
}

func (d *DirSource) List(ctx context.Context) ([]string, error) {
	pattern := d.Pattern
	if pattern == "" {
		pattern = config.BackgroundPattern
	}
	return filepath.Glob(filepath.Join(d.Dir, pattern))
}

func (d *DirSource) Fetch(ctx context.Context, ref string) (string, error) {
	return ref, nil
}

// ObjectStore is the subset of storage.S3 used by S3Source.
type ObjectStore interface {
	List(ctx context.Context, bucket, prefix string) ([]string, error)
	Download(ctx context.Context, bucket, key, path string) error
}

// S3Source is a bucket prefix of clips, downloaded on first use into CacheDir.
type S3Source struct {
	Store    ObjectStore
	Bucket   string
	Prefix   string
	CacheDir string
}

func (s *S3Source) List(ctx context.Context) ([]string, error) {
	keys, err := s.Store.List(ctx, s.Bucket, s.Prefix)
	if err != nil {
		return nil, err
	}
	ext := strings.TrimPrefix(config.BackgroundPattern, "*")
	out := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(strings.ToLower(k), ext) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *S3Source) Fetch(ctx context.Context, ref string) (string, error) {
	local := filepath.Join(s.CacheDir, "backgrounds", s.Bucket, filepath.FromSlash(ref))
	if _, err := os.Stat(local); err == nil {
		return local, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := s.Store.Download(ctx, s.Bucket, ref, local); err != nil {
		return "", err
	}
	return local, nil
}
