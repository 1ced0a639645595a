package render

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

// FileRenderer writes "<filename>.<format>" files into Dir.
type FileRenderer struct {
	Dir     string
	Formats []Format
	Options Options

	files     []string
	artifacts []Artifact
}

// NewFileRenderer returns a renderer writing formats into dir. An empty dir
// means the working directory; no formats means DefaultFormat.
func NewFileRenderer(dir string, formats []Format, opts Options) *FileRenderer {
	if dir == "" {
		dir = "."
	}
	return &FileRenderer{Dir: dir, Formats: formats, Options: opts}
}

// Render produces every format in memory, then moves each file into place.
// The output directory must already exist.
func (r *FileRenderer) Render(ctx context.Context, d *diagram.Diagram) error {
	info, err := os.Stat(r.Dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "output directory %s", r.Dir)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeRender, "output path %s is not a directory", r.Dir)
	}

	arts, err := Artifacts(ctx, d, r.Formats, r.Options)
	if err != nil {
		return err
	}

	staged := make([]string, 0, len(arts))
	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}
	for _, a := range arts {
		tmp, err := stage(r.Dir, a.Data)
		if err != nil {
			cleanup()
			return errors.Wrap(errors.ErrCodeRender, err, "write %s", a.Format)
		}
		staged = append(staged, tmp)
	}

	files := make([]string, 0, len(arts))
	for i, a := range arts {
		path := filepath.Join(r.Dir, d.Filename()+"."+string(a.Format))
		if err := os.Rename(staged[i], path); err != nil {
			cleanup()
			return errors.Wrap(errors.ErrCodeRender, err, "write %s", path)
		}
		files = append(files, path)
	}

	r.files = files
	r.artifacts = arts
	return nil
}

// Files returns the paths written by the last successful Render.
func (r *FileRenderer) Files() []string { return r.files }

// Artifacts returns the artifacts written by the last successful Render.
func (r *FileRenderer) Artifacts() []Artifact { return r.artifacts }

func stage(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".archdiagram-*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

var _ diagram.Renderer = (*FileRenderer)(nil)
