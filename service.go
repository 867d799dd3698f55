package memegen

import (
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

const (
	defaultRequestBuffer = 32
	defaultFrameBuffer   = 8
)

// LineID identifies a line within a preview session. Ids are assigned by the
// PreviewService in AddLine order, starting from 0, and are never reused.
type LineID int

// PositionedLine is a line held by the PreviewService. A nil Position means
// the line is placed with Autolayout on every frame.
type PositionedLine struct {
	Line     Line
	Position *image.Point
	ID       LineID
}

// Request is a command consumed by the PreviewService. The set of requests is closed:
// AddLine, UpdateText, UpdatePosition, UpdateScale, UpdateOrientation, RemoveLine and Save.
type Request interface {
	request()
}

// AddLine appends a line to the session. If Reply is not nil the assigned id is sent
// on it; the channel must be buffered, otherwise the id is dropped.
type AddLine struct {
	Line     Line
	Position *image.Point
	Reply    chan<- LineID
}

// UpdateText replaces the text of a line.
type UpdateText struct {
	ID   LineID
	Text string
}

// UpdatePosition pins a line at an explicit top-left position.
type UpdatePosition struct {
	ID       LineID
	Position image.Point
}

// UpdateScale changes the font scale of a line by Delta. The result never drops below MinScale.
type UpdateScale struct {
	ID    LineID
	Delta float64
}

// UpdateOrientation moves an auto placed line to another edge or anchor rank.
type UpdateOrientation struct {
	ID          LineID
	Orientation Orientation
	Anchor      int
}

// RemoveLine discards a line. Its id is not reassigned.
type RemoveLine struct {
	ID LineID
}

// Save renders the session onto the full resolution source image and sends the
// result on Reply, which must be buffered. Save does not emit a preview frame.
type Save struct {
	Reply chan<- *image.NRGBA
}

func (AddLine) request()           {}
func (UpdateText) request()        {}
func (UpdatePosition) request()    {}
func (UpdateScale) request()       {}
func (UpdateOrientation) request() {}
func (RemoveLine) request()        {}
func (Save) request()              {}

// ServiceOptions configures a PreviewService. The zero value is usable.
type ServiceOptions struct {
	// RequestBuffer is the capacity of the request channel.
	RequestBuffer int
	// FrameBuffer is the capacity of the frame channel. Once it is full the worker
	// blocks until the consumer catches up, which in turn blocks the producers
	// when the request buffer is full too.
	FrameBuffer int
	// PreviewCap is the long edge of the preview image. Defaults to PreviewCap.
	PreviewCap int
	// Rasterizer used to draw the lines. Defaults to a plain source-over Rasterizer.
	Rasterizer *Rasterizer
}

// PreviewService keeps the lines of an editing session and renders a new preview
// frame after every request. All of its state is owned by a single worker goroutine
// and can only be changed by sending requests.
type PreviewService struct {
	original *image.NRGBA
	preview  *image.NRGBA
	raster   *Rasterizer

	requests chan Request
	frames   chan *image.NRGBA
	done     chan struct{}

	startOnce sync.Once
	closeOnce sync.Once

	// owned by the worker goroutine
	lines  []PositionedLine
	nextID LineID
}

// NewPreviewService prepares a session over img. The worker starts with Start.
func NewPreviewService(img image.Image, opts *ServiceOptions) *PreviewService {
	if opts == nil {
		opts = &ServiceOptions{}
	}
	reqBuf, frameBuf, edge := opts.RequestBuffer, opts.FrameBuffer, opts.PreviewCap
	if reqBuf <= 0 {
		reqBuf = defaultRequestBuffer
	}
	if frameBuf <= 0 {
		frameBuf = defaultFrameBuffer
	}
	if edge <= 0 {
		edge = PreviewCap
	}
	raster := opts.Rasterizer
	if raster == nil {
		raster = std
	}

	original := imaging.Clone(img)
	return &PreviewService{
		original: original,
		preview:  generatePreview(original, edge),
		raster:   raster,
		requests: make(chan Request, reqBuf),
		frames:   make(chan *image.NRGBA, frameBuf),
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine. Subsequent calls are no-ops.
func (s *PreviewService) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Requests returns the channel accepting requests. Any number of goroutines may send on it.
func (s *PreviewService) Requests() chan<- Request {
	return s.requests
}

// Frames returns the channel delivering the rendered frames, one per request except Save,
// in request order. It is closed once the worker exits.
func (s *PreviewService) Frames() <-chan *image.NRGBA {
	return s.frames
}

// Send enqueues a request. It blocks while the request buffer is full.
func (s *PreviewService) Send(req Request) {
	s.requests <- req
}

// Close stops accepting requests. The worker drains the pending ones, publishes their
// frames and exits. All producers must have stopped sending before Close is called.
func (s *PreviewService) Close() {
	s.closeOnce.Do(func() {
		close(s.requests)
	})
}

// Done is closed when the worker has exited.
func (s *PreviewService) Done() <-chan struct{} {
	return s.done
}

// PreviewBounds returns the bounds of the frames produced by the service.
func (s *PreviewService) PreviewBounds() image.Rectangle {
	return s.preview.Bounds()
}

func (s *PreviewService) run() {
	defer close(s.done)
	defer close(s.frames)

	Logger().Info("preview service started",
		"width", s.preview.Bounds().Dx(),
		"height", s.preview.Bounds().Dy(),
	)
	for req := range s.requests {
		if !s.apply(req) {
			continue
		}
		s.frames <- s.render()
	}
	Logger().Info("preview service stopped", "lines", len(s.lines))
}

// apply executes a request against the line table and reports whether a frame should be published.
func (s *PreviewService) apply(req Request) bool {
	switch req := req.(type) {
	case AddLine:
		id := s.nextID
		s.nextID++
		pl := PositionedLine{Line: req.Line, ID: id}
		if req.Position != nil {
			p := *req.Position
			pl.Position = &p
		}
		s.lines = append(s.lines, pl)
		if req.Reply != nil {
			select {
			case req.Reply <- id:
			default:
				Logger().Debug("dropping line id, reply channel is full", "id", id)
			}
		}
	case UpdateText:
		if pl := s.lookup(req.ID); pl != nil {
			pl.Line.Text = req.Text
		}
	case UpdatePosition:
		if pl := s.lookup(req.ID); pl != nil {
			p := req.Position
			pl.Position = &p
		}
	case UpdateScale:
		if pl := s.lookup(req.ID); pl != nil {
			pl.Line.Fontspec.Scale = max(MinScale, pl.Line.Fontspec.Scale+req.Delta)
		}
	case UpdateOrientation:
		if pl := s.lookup(req.ID); pl != nil {
			pl.Line.Orientation = req.Orientation
			pl.Line.Anchor = max(0, req.Anchor)
		}
	case RemoveLine:
		for i := range s.lines {
			if s.lines[i].ID == req.ID {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
				return true
			}
		}
		Logger().Debug("ignoring request for unknown line", "id", req.ID)
	case Save:
		s.save(req.Reply)
		return false
	default:
		Logger().Debug("ignoring unsupported request", "request", req)
		return false
	}
	return true
}

// lookup returns the line with the given id or nil.
func (s *PreviewService) lookup(id LineID) *PositionedLine {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return &s.lines[i]
		}
	}
	Logger().Debug("ignoring request for unknown line", "id", id)
	return nil
}

// render draws every line onto a fresh copy of the preview base.
func (s *PreviewService) render() *image.NRGBA {
	frame := imaging.Clone(s.preview)
	s.compose(frame, 1)
	return frame
}

// compose draws the line table onto dst. Positions and scales are multiplied by ratio,
// which maps preview coordinates onto dst. Auto placed lines are laid out from a copy,
// so the scale requested for a line is never changed by fitting.
func (s *PreviewService) compose(dst *image.NRGBA, ratio float64) {
	for _, pl := range s.lines {
		line := pl.Line
		line.Fontspec.Scale *= ratio

		if pl.Position != nil {
			x, y := float64(pl.Position.X)*ratio, float64(pl.Position.Y)*ratio
			s.raster.drawRowsAt(line, dst, x, y)
			continue
		}
		s.raster.drawAuto(line, dst)
	}
}

// save renders the session at the resolution of the source image.
func (s *PreviewService) save(reply chan<- *image.NRGBA) {
	if reply == nil {
		Logger().Debug("ignoring save request without reply channel")
		return
	}
	out := imaging.Clone(s.original)
	ratio := float64(s.original.Bounds().Dx()) / float64(s.preview.Bounds().Dx())
	s.compose(out, ratio)

	select {
	case reply <- out:
		Logger().Info("session saved",
			"width", out.Bounds().Dx(),
			"height", out.Bounds().Dy(),
			"lines", len(s.lines),
		)
	default:
		Logger().Debug("dropping saved image, reply channel is full")
	}
}
