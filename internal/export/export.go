// Package export persists snapshots off the UI goroutine.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/sketchpad/internal/imageio"
	"github.com/example/sketchpad/internal/notify"
	"github.com/example/sketchpad/internal/render"
)

// ErrClosed is returned when queueing on a closed saver.
var ErrClosed = errors.New("export: saver closed")

// Result reports the outcome of one save.
type Result struct {
	Path string
	Err  error
}

// Option configures a Saver.
type Option func(*Saver)

// WithDir sets the directory used for generated file names.
func WithDir(dir string) Option { return func(s *Saver) { s.dir = dir } }

// WithFormat sets the encoding used when a path has no known extension.
func WithFormat(f imageio.Format) Option { return func(s *Saver) { s.format = f } }

// WithQuality sets the JPEG quality.
func WithQuality(q int) Option { return func(s *Saver) { s.quality = q } }

// WithBackground sets the fill used when flattening for formats without alpha.
func WithBackground(c color.RGBA) Option { return func(s *Saver) { s.background = c } }

// WithNotifier announces completed and failed saves.
func WithNotifier(n *notify.Notifier) Option { return func(s *Saver) { s.notifier = n } }

// WithQueue sets how many pending saves are buffered.
func WithQueue(n int) Option {
	return func(s *Saver) {
		if n > 0 {
			s.queue = n
		}
	}
}

type job struct {
	img  image.Image
	path string
	done func(Result)
}

// Saver encodes snapshots on a single background goroutine so the caller
// never blocks on disk.
type Saver struct {
	dir        string
	format     imageio.Format
	quality    int
	background color.RGBA
	notifier   *notify.Notifier
	queue      int

	mu     sync.Mutex
	jobs   chan job
	closed bool
	wg     sync.WaitGroup
}

var now = time.Now

// DefaultDir returns the pictures directory, falling back to the working
// directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	pics := filepath.Join(home, "Pictures")
	if st, err := os.Stat(pics); err == nil && st.IsDir() {
		return pics
	}
	return home
}

// New starts a saver. The worker stops when ctx is done or Close is called.
func New(ctx context.Context, opts ...Option) *Saver {
	s := &Saver{
		dir:        ".",
		format:     imageio.JPEG,
		quality:    imageio.DefaultQuality,
		background: color.RGBA{255, 255, 255, 255},
		queue:      4,
	}
	for _, o := range opts {
		o(s)
	}
	s.jobs = make(chan job, s.queue)
	s.wg.Add(1)
	go s.run(ctx)
	return s
}

// NextPath returns a fresh file name in the save directory.
func (s *Saver) NextPath() string {
	id := uuid.New().String()[:8]
	name := fmt.Sprintf("sketch-%s-%s%s", now().Format("20060102-150405"), id, s.format.Ext())
	return filepath.Join(s.dir, name)
}

// Save queues img for writing to path, or to NextPath when path is empty.
// done runs on the worker goroutine exactly once.
func (s *Saver) Save(img image.Image, path string, done func(Result)) error {
	if img == nil {
		return fmt.Errorf("export: nothing to save")
	}
	if path == "" {
		path = s.NextPath()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.jobs <- job{img: img, path: path, done: done}:
		return nil
	default:
		return fmt.Errorf("export: %d saves already pending", cap(s.jobs))
	}
}

// WriteFile encodes img to path on the calling goroutine.
func (s *Saver) WriteFile(path string, img image.Image) (string, error) {
	if path == "" {
		path = s.NextPath()
	}
	f := imageio.FormatForPath(path, s.format)
	if filepath.Ext(path) == "" {
		path += f.Ext()
	}
	if f.Opaque() {
		img = render.Flatten(img, s.background)
	}
	if err := imageio.Save(path, img, f, s.quality); err != nil {
		return "", err
	}
	return path, nil
}

// Close stops accepting work and waits for queued saves to finish.
func (s *Saver) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Saver) run(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			s.drain(ctx.Err())
			return
		case j, ok := <-s.jobs:
			if !ok {
				return
			}
			s.handle(j)
		}
	}
}

func (s *Saver) handle(j job) {
	path, err := s.WriteFile(j.path, j.img)
	if err != nil {
		log.Printf("save %s: %v", j.path, err)
		s.notifier.SaveFailed(err)
		path = j.path
	} else {
		s.notifier.Save(path)
	}
	if j.done != nil {
		j.done(Result{Path: path, Err: err})
	}
}

func (s *Saver) drain(cause error) {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()
	for j := range s.jobs {
		if j.done != nil {
			j.done(Result{Path: j.path, Err: fmt.Errorf("export: %w", cause)})
		}
	}
}
