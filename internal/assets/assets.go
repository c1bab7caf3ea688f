// Package assets loads the vignette's assets in the background.
//
// Loads run on a worker pool and only touch CPU-side data: glTF meshes,
// decoded images and decoded audio. Results are queued on a channel that the
// frame goroutine drains with Poll, so completion handling never races with
// a frame in progress. A failed load is reported once and never retried.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"github.com/Faultbox/orbit-vignette/internal/engine/audio"
	"github.com/Faultbox/orbit-vignette/internal/engine/model"
	"github.com/Faultbox/orbit-vignette/internal/engine/texture"
)

// Kind is the type of asset a request loads.
type Kind int

const (
	// KindDescriptor is a glTF scene descriptor: meshes plus punctual lights.
	KindDescriptor Kind = iota
	// KindCharacter is the glTF character model.
	KindCharacter
	// KindTexture is a 2D image.
	KindTexture
	// KindAudio is an MP3 or WAV track.
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindDescriptor:
		return "descriptor"
	case KindCharacter:
		return "character"
	case KindTexture:
		return "texture"
	case KindAudio:
		return "audio"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrClosed is returned for loads requested after Close.
var ErrClosed = errors.New("loader closed")

// LoadError reports a failed load. The feature it was for stays absent.
type LoadError struct {
	Kind Kind
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %q (%s): %v", e.Kind, e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Request names one asset to load. Name is the logical handle the caller
// matches results on; Path is relative to the loader root unless absolute.
type Request struct {
	Kind Kind
	Name string
	Path string
}

// Result is a completed load. Exactly one of Model, Image, Audio is set when
// Err is nil.
type Result struct {
	Request  Request
	Model    *model.Model
	Image    *image.RGBA
	Audio    *audio.Buffer
	Err      error
	Duration time.Duration
}

// Options configures a Loader.
type Options struct {
	// Root is the directory relative paths resolve against.
	Root string
	// Workers is the pool size. Defaults to NumCPU-1, at least 1.
	Workers int
	// MaxTextureSize downsamples larger images. Defaults to texture.DefaultMaxSize.
	MaxTextureSize int
	// Logger may be nil.
	Logger *zap.Logger
}

// Loader runs asset loads on a worker pool.
type Loader struct {
	root    string
	maxTex  int
	log     *zap.Logger
	cache   *Cache
	pool    worker.DynamicWorkerPool
	results chan Result

	mu      sync.Mutex
	closed  bool
	pending atomic.Int64
	nextID  atomic.Int64
}

const (
	// queueSize bounds tasks waiting for a free worker.
	queueSize = 64
	// resultBuffer bounds how many completions can wait for Poll before
	// workers block.
	resultBuffer = 64
)

// NewLoader creates a loader and its worker pool.
func NewLoader(opts Options) *Loader {
	workers := opts.Workers
	if workers <= 0 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	maxTex := opts.MaxTextureSize
	if maxTex <= 0 {
		maxTex = texture.DefaultMaxSize
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Loader{
		root:    opts.Root,
		maxTex:  maxTex,
		log:     log,
		cache:   NewCache(),
		pool:    worker.NewDynamicWorkerPool(workers, queueSize, 1*time.Second),
		results: make(chan Result, resultBuffer),
	}
}

// Load queues req. The result arrives through Poll or Next.
func (l *Loader) Load(req Request) {
	l.pending.Add(1)

	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		l.deliver(Result{Request: req, Err: l.loadError(req, ErrClosed)})
		return
	}

	id := int(l.nextID.Add(1))
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			l.deliver(l.run(req))
			return nil, nil
		},
	})
}

func (l *Loader) deliver(res Result) {
	if res.Err != nil {
		l.log.Warn("asset load failed",
			zap.Stringer("kind", res.Request.Kind),
			zap.String("name", res.Request.Name),
			zap.Error(res.Err))
	} else {
		l.log.Debug("asset loaded",
			zap.Stringer("kind", res.Request.Kind),
			zap.String("name", res.Request.Name),
			zap.Duration("took", res.Duration))
	}
	l.results <- res
}

// run performs one load. Panics in decoders become load errors.
func (l *Loader) run(req Request) (res Result) {
	start := time.Now()
	res.Request = req
	defer func() {
		if r := recover(); r != nil {
			res = Result{Request: req, Err: l.loadError(req, fmt.Errorf("panic: %v", r))}
		}
		res.Duration = time.Since(start)
	}()

	path := l.resolve(req.Path)
	var err error
	switch req.Kind {
	case KindDescriptor, KindCharacter:
		res.Model, err = model.LoadGLTF(path)
	case KindTexture:
		res.Image, err = l.loadImage(path)
	case KindAudio:
		res.Audio, err = l.loadAudio(path)
	default:
		err = fmt.Errorf("unknown asset kind %d", int(req.Kind))
	}
	if err != nil {
		res.Err = l.loadError(req, err)
	}
	return res
}

func (l *Loader) loadError(req Request, err error) error {
	return &LoadError{Kind: req.Kind, Name: req.Name, Path: req.Path, Err: err}
}

func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) || l.root == "" {
		return path
	}
	return filepath.Join(l.root, path)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if data, ok := l.cache.Get(path); ok {
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l.cache.Set(path, data)
	return data, nil
}

func (l *Loader) loadImage(path string) (*image.RGBA, error) {
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	img, err := texture.Decode(data, path)
	if err != nil {
		return nil, err
	}
	return texture.FitToMax(img, l.maxTex), nil
}

func (l *Loader) loadAudio(path string) (*audio.Buffer, error) {
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	return audio.Decode(data, path)
}

// Poll returns every result that has completed since the last call without
// blocking.
func (l *Loader) Poll() []Result {
	var out []Result
	for {
		select {
		case res := <-l.results:
			l.pending.Add(-1)
			out = append(out, res)
		default:
			return out
		}
	}
}

// Next blocks until a result is available or ctx is done.
func (l *Loader) Next(ctx context.Context) (Result, error) {
	select {
	case res := <-l.results:
		l.pending.Add(-1)
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Pending returns the number of requested loads not yet returned by Poll or Next.
func (l *Loader) Pending() int {
	return int(l.pending.Load())
}

// CacheStats returns hit and miss counts of the raw file cache.
func (l *Loader) CacheStats() (hits, misses int) {
	return l.cache.Stats()
}

// Close rejects further loads and drops cached file data. Loads already
// queued still complete.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.cache.Clear()
}
