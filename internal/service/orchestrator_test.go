package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelscript/internal/core/domain"
	"reelscript/internal/core/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExtractor writes a real file so cleanup can be observed on disk.
type fakeExtractor struct {
	dir      string
	err      error
	path     string
	cleanups atomic.Int32
}

func (f *fakeExtractor) DownloadAudio(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.path = filepath.Join(f.dir, "artifact.mp3")
	if err := os.WriteFile(f.path, []byte("audio"), 0644); err != nil {
		return "", err
	}
	return f.path, nil
}

func (f *fakeExtractor) Cleanup(path string) error {
	f.cleanups.Add(1)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// blockingExtractor holds the download open until its context is done.
type blockingExtractor struct{}

func (blockingExtractor) DownloadAudio(ctx context.Context, url string) (string, error) {
	<-ctx.Done()
	return "", &domain.DownloadError{URL: url, Detail: "download interrupted", Err: ctx.Err()}
}

func (blockingExtractor) Cleanup(string) error { return nil }

// liveContextSink refuses events whose context is already done, the way a
// network-backed sink does.
func liveContextSink(c *Collector) ports.ProgressSink {
	return ports.SinkFunc(func(ctx context.Context, ev domain.Event) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return c.Emit(ctx, ev)
	})
}

type fakeTranscriber struct {
	text     string
	segments []domain.Segment
	err      error
}

func (f *fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	return f.text, f.err
}

func (f *fakeTranscriber) TranscribeSegments(context.Context, string) ([]domain.Segment, error) {
	return f.segments, f.err
}

type fakeRewriter struct {
	doc   domain.ScriptDocument
	err   error
	panic bool
	calls atomic.Int32
}

func (f *fakeRewriter) AnalyzeAndRewrite(context.Context, string, domain.Platform) (domain.ScriptDocument, error) {
	f.calls.Add(1)
	if f.panic {
		panic("rewriter blew up")
	}
	return f.doc, f.err
}

func tiktokRequest() RunRequest {
	return RunRequest{Video: domain.VideoReference{
		URL:      "https://www.tiktok.com/@user/video/12345",
		Platform: domain.PlatformTikTok,
	}}
}

func kinds(events []domain.Event, kind domain.EventKind) []domain.Event {
	var out []domain.Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func TestRunHappyPath(t *testing.T) {
	ext := &fakeExtractor{dir: t.TempDir()}
	doc := domain.ScriptDocument(strings.Repeat("x", 9000))
	o := NewOrchestrator(ext, &fakeTranscriber{text: "hello world"}, &fakeRewriter{doc: doc}, discardLogger())
	sink := &Collector{}

	res, err := o.Run(context.Background(), tiktokRequest(), sink)
	require.NoError(t, err)

	assert.Equal(t, domain.StageDone, res.Stage)
	assert.Equal(t, domain.OutcomeDone, res.Outcome)
	assert.Equal(t, "hello world", res.Transcript.Text)
	assert.NotEmpty(t, res.RunID)

	events := sink.Events()
	progress := kinds(events, domain.EventProgress)
	require.Len(t, progress, 4)
	for i, ev := range progress {
		assert.Equal(t, i+1, ev.Step)
		assert.Equal(t, 4, ev.TotalSteps)
		assert.Equal(t, res.RunID, ev.RunID)
	}
	assert.Equal(t, "Found a TikTok link! Starting analysis...\n\nStep 1/4: Downloading audio...", progress[0].Text)
	assert.Equal(t, "Step 4/4: Done!", progress[3].Text)

	transcript := kinds(events, domain.EventTranscript)
	require.Len(t, transcript, 1)
	assert.Contains(t, transcript[0].Text, "hello world")

	results := kinds(events, domain.EventResult)
	require.Len(t, results, 3)
	assert.Len(t, results[0].Text, 4000)
	assert.Len(t, results[1].Text, 4000)
	assert.Len(t, results[2].Text, 1000)
	assert.Equal(t, 3, results[2].Total)
	assert.Equal(t, 3, results[2].Index)
	assert.Equal(t, res.Chunks, []string{results[0].Text, results[1].Text, results[2].Text})

	// progress precedes transcript, transcript precedes results
	assert.Equal(t, domain.EventProgress, events[3].Kind)
	assert.Equal(t, domain.EventTranscript, events[4].Kind)
	assert.Equal(t, domain.EventResult, events[5].Kind)

	assert.Equal(t, int32(1), ext.cleanups.Load())
	assert.NoFileExists(t, ext.path)
}

func TestRunMaxLengthFromRequest(t *testing.T) {
	ext := &fakeExtractor{dir: t.TempDir()}
	o := NewOrchestrator(ext, &fakeTranscriber{text: "hi"}, &fakeRewriter{doc: "aaaa bbbb cccc"}, discardLogger())
	sink := &Collector{}

	req := tiktokRequest()
	req.MaxLength = 5
	res, err := o.Run(context.Background(), req, sink)
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa", "bbbb", "cccc"}, res.Chunks)
}

func TestRunDownloadFailure(t *testing.T) {
	dlErr := &domain.DownloadError{URL: "u", Detail: "HTTP Error 403: Forbidden"}
	ext := &fakeExtractor{dir: t.TempDir(), err: dlErr}
	rw := &fakeRewriter{}
	o := NewOrchestrator(ext, &fakeTranscriber{text: "x"}, rw, discardLogger())
	sink := &Collector{}

	res, err := o.Run(context.Background(), tiktokRequest(), sink)
	require.Error(t, err)
	var de *domain.DownloadError
	assert.True(t, errors.As(err, &de))

	assert.Equal(t, domain.StageFailed, res.Stage)
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)
	assert.Equal(t, int32(0), ext.cleanups.Load())
	assert.Equal(t, int32(0), rw.calls.Load())

	failures := kinds(sink.Events(), domain.EventFailure)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Text, "Sorry, I couldn't analyze this video. Error: failed to download audio: HTTP Error 403: Forbidden")
	assert.Contains(t, failures[0].Text, "TikTok blocking downloads")
	assert.Len(t, kinds(sink.Events(), domain.EventProgress), 1)
}

func TestRunTranscriptionFailure(t *testing.T) {
	ext := &fakeExtractor{dir: t.TempDir()}
	o := NewOrchestrator(ext, &fakeTranscriber{err: errors.New("provider down")}, &fakeRewriter{}, discardLogger())
	sink := &Collector{}

	_, err := o.Run(context.Background(), tiktokRequest(), sink)
	var te *domain.TranscriptionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, int32(1), ext.cleanups.Load())
	assert.NoFileExists(t, ext.path)

	failures := kinds(sink.Events(), domain.EventFailure)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Text, "- Platform blocking downloads")
}

func TestRunRewriteFailureStillCleansUp(t *testing.T) {
	ext := &fakeExtractor{dir: t.TempDir()}
	o := NewOrchestrator(ext, &fakeTranscriber{text: "some words"}, &fakeRewriter{err: errors.New("quota")}, discardLogger())
	sink := &Collector{}

	res, err := o.Run(context.Background(), tiktokRequest(), sink)
	var re *domain.RewriteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, domain.StageFailed, res.Stage)
	assert.Equal(t, int32(1), ext.cleanups.Load())
	assert.NoFileExists(t, ext.path)
	assert.Len(t, kinds(sink.Events(), domain.EventProgress), 3)
	assert.Empty(t, kinds(sink.Events(), domain.EventResult))
}

func TestRunCleanupOnPanic(t *testing.T) {
	ext := &fakeExtractor{dir: t.TempDir()}
	o := NewOrchestrator(ext, &fakeTranscriber{text: "words"}, &fakeRewriter{panic: true}, discardLogger())

	assert.Panics(t, func() {
		_, _ = o.Run(context.Background(), tiktokRequest(), &Collector{})
	})
	assert.Equal(t, int32(1), ext.cleanups.Load())
	assert.NoFileExists(t, ext.path)
}

func TestRunNoSpeech(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		t.Run(strings.ReplaceAll(text, " ", "_"), func(t *testing.T) {
			ext := &fakeExtractor{dir: t.TempDir()}
			rw := &fakeRewriter{}
			o := NewOrchestrator(ext, &fakeTranscriber{text: text}, rw, discardLogger())
			sink := &Collector{}

			res, err := o.Run(context.Background(), tiktokRequest(), sink)
			require.ErrorIs(t, err, domain.ErrNoSpeech)
			assert.Equal(t, domain.StageNoSpeech, res.Stage)
			assert.Equal(t, domain.OutcomeNoSpeech, res.Outcome)
			assert.Equal(t, int32(0), rw.calls.Load())
			assert.Equal(t, int32(1), ext.cleanups.Load())

			ns := kinds(sink.Events(), domain.EventNoSpeech)
			require.Len(t, ns, 1)
			assert.Equal(t, noSpeechMessage, ns[0].Text)
			assert.Len(t, kinds(sink.Events(), domain.EventProgress), 2)
		})
	}
}

func TestRunFailureDeliveredAfterDeadline(t *testing.T) {
	o := NewOrchestrator(blockingExtractor{}, &fakeTranscriber{}, &fakeRewriter{}, discardLogger())
	got := &Collector{}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := o.Run(ctx, tiktokRequest(), liveContextSink(got))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)

	failures := kinds(got.Events(), domain.EventFailure)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Text, "download interrupted")
}

func TestRunNoSpeechDeliveredAfterCancel(t *testing.T) {
	ext := &fakeExtractor{dir: t.TempDir()}
	ctx, cancel := context.WithCancel(context.Background())
	tr := &cancellingTranscriber{cancel: cancel}
	o := NewOrchestrator(ext, tr, &fakeRewriter{}, discardLogger())
	got := &Collector{}

	_, err := o.Run(ctx, tiktokRequest(), liveContextSink(got))
	require.ErrorIs(t, err, domain.ErrNoSpeech)
	assert.Len(t, kinds(got.Events(), domain.EventNoSpeech), 1)
}

// cancellingTranscriber returns an empty transcript after cancelling the run.
type cancellingTranscriber struct {
	cancel context.CancelFunc
}

func (c *cancellingTranscriber) Transcribe(context.Context, string) (string, error) {
	c.cancel()
	return "", nil
}

func (c *cancellingTranscriber) TranscribeSegments(context.Context, string) ([]domain.Segment, error) {
	c.cancel()
	return nil, nil
}

func TestRunMinTranscriptChars(t *testing.T) {
	ext := &fakeExtractor{dir: t.TempDir()}
	rw := &fakeRewriter{}
	o := NewOrchestrator(ext, &fakeTranscriber{text: " ok "}, rw, discardLogger(), WithMinTranscriptChars(3))

	_, err := o.Run(context.Background(), tiktokRequest(), &Collector{})
	require.ErrorIs(t, err, domain.ErrNoSpeech)
	assert.Equal(t, int32(0), rw.calls.Load())
}

func TestRunWithSegments(t *testing.T) {
	ext := &fakeExtractor{dir: t.TempDir()}
	segs := []domain.Segment{{Text: " first ", Start: 0, End: 1}, {Text: "second", Start: 1, End: 2}}
	o := NewOrchestrator(ext, &fakeTranscriber{segments: segs}, &fakeRewriter{doc: "doc"}, discardLogger(), WithSegments(true))

	res, err := o.Run(context.Background(), tiktokRequest(), &Collector{})
	require.NoError(t, err)
	assert.Equal(t, "first second", res.Transcript.Text)
	assert.Equal(t, segs, res.Transcript.Segments)
}

func TestRunSinkErrorsDoNotChangeOutcome(t *testing.T) {
	ext := &fakeExtractor{dir: t.TempDir()}
	o := NewOrchestrator(ext, &fakeTranscriber{text: "words"}, &fakeRewriter{doc: "doc"}, discardLogger())
	var emitted atomic.Int32
	sink := ports.SinkFunc(func(context.Context, domain.Event) error {
		emitted.Add(1)
		return errors.New("transport closed")
	})

	res, err := o.Run(context.Background(), tiktokRequest(), sink)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDone, res.Outcome)
	assert.Equal(t, int32(6), emitted.Load())
}

func TestFailureMessagePerPlatform(t *testing.T) {
	dl := &domain.DownloadError{Detail: "x"}
	assert.Contains(t, FailureMessage(domain.PlatformYouTube, dl), "YouTube asking for sign-in")
	assert.Contains(t, FailureMessage(domain.PlatformInstagram, dl), "Instagram requiring a logged-in session")
	assert.Contains(t, FailureMessage(domain.Platform(""), dl), "- Network issues")

	generic := FailureMessage(domain.PlatformYouTube, errors.New("boom"))
	assert.Equal(t, "Sorry, I couldn't analyze this video. Error: boom\n\nThis might be due to:\n"+
		"- The video being private or age-restricted\n- Platform blocking downloads\n- Network issues", generic)
}
