package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/ludo-technologies/distclust/internal/linkage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProgress records the bytes reported by a stream
type countingProgress struct {
	NoopProgressManager
	mu    sync.Mutex
	total int64
}

func (p *countingProgress) Add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total += n
}

func drain(t *testing.T, src linkage.RecordSource) []linkage.Record {
	t.Helper()
	var out []linkage.Record
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestRecordStream_ChainsSources(t *testing.T) {
	dir := t.TempDir()
	// no trailing newline on the first file
	first := writeFile(t, dir, "1.txt", "a b 0.1")
	second := writeFile(t, dir, "2.txt", "# header\nc d 0.2\n")

	progress := &countingProgress{}
	stream := newRecordStream(context.Background(), NewInputResolver(nil), progress, []string{first, second})
	defer stream.Close()

	records := drain(t, stream)
	assert.Equal(t, []linkage.Record{
		{Label1: "a", Label2: "b", Distance: 0.1},
		{Label1: "c", Label2: "d", Distance: 0.2},
	}, records)
	assert.Equal(t, int64(len("a b 0.1")+len("# header\nc d 0.2\n")), progress.total)
	assert.Equal(t, second, stream.Source())
}

func TestRecordStream_LineNumbersPerSource(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "1.txt", "a b 0.1\nb c 0.1\n")
	second := writeFile(t, dir, "2.txt", "oops\n")

	stream := newRecordStream(context.Background(), NewInputResolver(nil), nil, []string{first, second})
	defer stream.Close()

	_, err := stream.Next()
	require.NoError(t, err)
	_, err = stream.Next()
	require.NoError(t, err)
	_, err = stream.Next()

	var recErr *linkage.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, second, recErr.Source)
	assert.Equal(t, 1, recErr.Line)
}

func TestRecordStream_Reader(t *testing.T) {
	stream := newReaderStream(context.Background(), "inline", strings.NewReader("x y 1\n"), nil)
	records := drain(t, stream)
	assert.Len(t, records, 1)
	assert.Equal(t, "inline", stream.Source())
}

func TestRecordStream_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream := newReaderStream(ctx, "inline", strings.NewReader("x y 1\n"), nil)
	cancel()

	_, err := stream.Next()
	assert.ErrorIs(t, err, context.Canceled)
}
