package service

import (
	"context"
	"errors"
	"io"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/ludo-technologies/distclust/internal/linkage"
)

// recordStream chains the records of several sources in order. It
// implements linkage.RecordSource; each source keeps its own line numbers.
type recordStream struct {
	ctx      context.Context
	resolver domain.InputResolver
	progress domain.ProgressManager
	sources  []string

	next    int
	current *linkage.ScannerSource
	closer  io.Closer
	name    string
}

func newRecordStream(ctx context.Context, resolver domain.InputResolver, progress domain.ProgressManager, sources []string) *recordStream {
	return &recordStream{
		ctx:      ctx,
		resolver: resolver,
		progress: progress,
		sources:  sources,
	}
}

// newReaderStream wraps a single reader, used for inline input.
func newReaderStream(ctx context.Context, name string, r io.Reader, progress domain.ProgressManager) *recordStream {
	s := &recordStream{ctx: ctx, progress: progress, name: name}
	s.current = linkage.NewScannerSource(name, s.count(r))
	return s
}

// Next implements linkage.RecordSource
func (s *recordStream) Next() (linkage.Record, error) {
	for {
		if err := s.ctx.Err(); err != nil {
			return linkage.Record{}, err
		}

		if s.current == nil {
			if s.next >= len(s.sources) {
				return linkage.Record{}, io.EOF
			}
			if err := s.open(s.sources[s.next]); err != nil {
				return linkage.Record{}, err
			}
			s.next++
		}

		rec, err := s.current.Next()
		if errors.Is(err, io.EOF) {
			s.closeCurrent()
			continue
		}
		return rec, err
	}
}

// Source returns the name of the source being read
func (s *recordStream) Source() string {
	return s.name
}

// Close releases the open source, if any
func (s *recordStream) Close() error {
	s.closeCurrent()
	return nil
}

func (s *recordStream) open(source string) error {
	rc, err := s.resolver.Open(source)
	if err != nil {
		return err
	}
	name := source
	if source == domain.StdinPath {
		name = "<stdin>"
	}
	s.name = name
	s.closer = rc
	s.current = linkage.NewScannerSource(name, s.count(rc))
	return nil
}

func (s *recordStream) closeCurrent() {
	if s.closer != nil {
		_ = s.closer.Close()
		s.closer = nil
	}
	s.current = nil
}

func (s *recordStream) count(r io.Reader) io.Reader {
	if s.progress == nil {
		return r
	}
	return &progressReader{r: r, progress: s.progress}
}

// progressReader reports every byte read to a progress manager
type progressReader struct {
	r        io.Reader
	progress domain.ProgressManager
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.progress.Add(int64(n))
	}
	return n, err
}
