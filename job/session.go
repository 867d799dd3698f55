package job

import (
	"github.com/esimov/memegen"
)

type entry struct {
	id     memegen.LineID
	text   string
	anchor int
}

// Session mirrors the captions of a job into a PreviewService.
// Every caption entry becomes one auto placed line of the service.
//
// The session predicts the ids assigned by the service, so it must be the only
// producer of AddLine requests for that service.
type Session struct {
	svc    *memegen.PreviewService
	fs     memegen.Fontspec
	top    []entry
	bottom []entry
	nextID memegen.LineID
}

// NewSession returns a session adding lines rendered with fs.
func NewSession(svc *memegen.PreviewService, fs memegen.Fontspec) *Session {
	fs.Scale = max(fs.Scale, memegen.MinScale)
	return &Session{svc: svc, fs: fs}
}

// Sync sends the requests turning the current lines into the ones of j
// and returns how many preview frames they will produce.
func (s *Session) Sync(j *Job) int {
	var sent int

	// The service clamps every scale to MinScale, so the session tracks the clamped value.
	if scale := max(j.Scale, memegen.MinScale); j.Scale > 0 && scale != s.fs.Scale {
		delta := scale - s.fs.Scale
		s.fs.Scale = scale
		for _, e := range append(append([]entry(nil), s.top...), s.bottom...) {
			s.svc.Send(memegen.UpdateScale{ID: e.id, Delta: delta})
			sent++
		}
	}

	s.top, sent = s.sync(s.top, nonEmpty(j.Top), memegen.Top, sent)
	s.bottom, sent = s.sync(s.bottom, nonEmpty(j.Bottom), memegen.Bottom, sent)
	return sent
}

func (s *Session) sync(cur []entry, texts []string, o memegen.Orientation, sent int) ([]entry, int) {
	anchors := anchorsOf(texts, o)

	next := make([]entry, 0, len(texts))
	for i, text := range texts {
		if i >= len(cur) {
			line := memegen.Line{Text: text, Orientation: o, Fontspec: s.fs, Anchor: anchors[i]}
			s.svc.Send(memegen.AddLine{Line: line})
			sent++

			next = append(next, entry{id: s.nextID, text: text, anchor: anchors[i]})
			s.nextID++
			continue
		}

		e := cur[i]
		if e.text != text {
			s.svc.Send(memegen.UpdateText{ID: e.id, Text: text})
			sent++
			e.text = text
		}
		if e.anchor != anchors[i] {
			s.svc.Send(memegen.UpdateOrientation{ID: e.id, Orientation: o, Anchor: anchors[i]})
			sent++
			e.anchor = anchors[i]
		}
		next = append(next, e)
	}

	for _, e := range cur[min(len(cur), len(texts)):] {
		s.svc.Send(memegen.RemoveLine{ID: e.id})
		sent++
	}
	return next, sent
}

// anchorsOf returns the anchor rank of every caption entry. An entry spanning several
// rows takes as many ranks. Bottom entries are ranked from the last one upwards.
func anchorsOf(texts []string, o memegen.Orientation) []int {
	anchors := make([]int, len(texts))
	rank := 0
	if o == memegen.Bottom {
		for i := len(texts) - 1; i >= 0; i-- {
			anchors[i] = rank
			rank += len(memegen.SplitRows(texts[i]))
		}
		return anchors
	}
	for i, text := range texts {
		anchors[i] = rank
		rank += len(memegen.SplitRows(text))
	}
	return anchors
}

func nonEmpty(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
