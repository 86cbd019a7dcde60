package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"

	"reelscript/internal/adapters/localstorage"
	"reelscript/internal/core/domain"
)

const maxDetailRunes = 500

// YtDlpDownloader uses the local yt-dlp binary to extract audio tracks.
type YtDlpDownloader struct {
	binaryPath  string
	cookiesPath string
	tmp         *localstorage.TempDir
	logger      *slog.Logger
}

// Option configures a YtDlpDownloader.
type Option func(*YtDlpDownloader)

// WithBinary overrides the yt-dlp executable.
func WithBinary(path string) Option {
	return func(d *YtDlpDownloader) {
		if path != "" {
			d.binaryPath = path
		}
	}
}

// WithCookies passes a cookie file to yt-dlp when the file exists.
func WithCookies(path string) Option {
	return func(d *YtDlpDownloader) { d.cookiesPath = path }
}

// NewYtDlpDownloader creates a new downloader writing into tmp.
func NewYtDlpDownloader(tmp *localstorage.TempDir, logger *slog.Logger, opts ...Option) *YtDlpDownloader {
	d := &YtDlpDownloader{
		binaryPath: "yt-dlp", // Assumes yt-dlp is in PATH
		tmp:        tmp,
		logger:     logger,
	}
	// Check if yt-dlp.exe exists in current directory
	if _, err := os.Stat("yt-dlp.exe"); err == nil {
		d.binaryPath = ".\\yt-dlp.exe"
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadAudio extracts the audio of videoURL as mp3 into the temp
// directory and returns the resulting path.
func (d *YtDlpDownloader) DownloadAudio(ctx context.Context, videoURL string) (string, error) {
	id := uuid.New().String()
	args := d.buildArgs(id, videoURL)

	d.logger.Info("downloading audio", slog.String("url", videoURL), slog.String("artifact_id", id))

	cmd := exec.CommandContext(ctx, d.binaryPath, args...)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		d.discard(id)
		return "", &domain.DownloadError{
			URL:    videoURL,
			Detail: diagnostic(stderr.String(), out.String(), err),
			Err:    err,
		}
	}

	path, ok, err := d.tmp.FindByPrefix(id)
	if err != nil {
		return "", &domain.DownloadError{URL: videoURL, Detail: err.Error(), Err: err}
	}
	if !ok {
		return "", &domain.DownloadError{URL: videoURL, Detail: "audio file was not created"}
	}

	d.logger.Info("audio downloaded", slog.String("path", path))
	return path, nil
}

// Cleanup removes an artifact returned by DownloadAudio.
func (d *YtDlpDownloader) Cleanup(path string) error {
	if path == "" {
		return nil
	}
	if err := d.tmp.Remove(path); err != nil {
		return err
	}
	d.logger.Debug("cleaned up artifact", slog.String("path", path))
	return nil
}

// -x: audio only; --audio-quality 0: best; --no-playlist: single item;
// --quiet/--no-warnings: errors only on stderr.
func (d *YtDlpDownloader) buildArgs(id, videoURL string) []string {
	args := []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"--output", d.tmp.Template(id),
		"--no-playlist",
		"--no-warnings",
		"--quiet",
	}
	if d.cookiesPath != "" {
		if _, err := os.Stat(d.cookiesPath); err == nil {
			args = append(args, "--cookies", d.cookiesPath)
		}
	}
	return append(args, videoURL)
}

// discard removes partial output left by a failed or killed subprocess.
func (d *YtDlpDownloader) discard(id string) {
	n, err := d.tmp.RemovePrefix(id)
	if err != nil {
		d.logger.Warn("failed to remove partial download", slog.String("artifact_id", id), slog.Any("error", err))
		return
	}
	if n > 0 {
		d.logger.Debug("removed partial download", slog.String("artifact_id", id), slog.Int("files", n))
	}
}

func diagnostic(stderr, stdout string, err error) string {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = strings.TrimSpace(stdout)
	}
	if msg == "" {
		msg = fmt.Sprintf("yt-dlp failed: %v", err)
	}
	if r := []rune(msg); len(r) > maxDetailRunes {
		msg = string(r[len(r)-maxDetailRunes:])
	}
	return msg
}
