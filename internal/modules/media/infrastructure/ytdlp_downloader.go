package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sglre6355/mediabot/internal/modules/media/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
)

const infoPrintTemplate = "%(id)s\t%(title)s\t%(duration)s\t%(is_live)s\t%(live_status)s"

const infoFieldCount = 5

// YtdlpDownloader downloads audio with the yt-dlp binary found on PATH.
// ffmpeg must be available for the MP3 conversion.
type YtdlpDownloader struct{}

// NewYtdlpDownloader creates a new YtdlpDownloader.
func NewYtdlpDownloader() *YtdlpDownloader {
	return &YtdlpDownloader{}
}

// FetchInfo reads the video metadata without downloading.
func (d *YtdlpDownloader) FetchInfo(ctx context.Context, url string) (*domain.VideoInfo, error) {
	res, err := ytdlp.New().
		NoPlaylist().
		Print(infoPrintTemplate).
		NoWarnings().
		IgnoreConfig().
		Run(ctx, "--skip-download", url)
	if err != nil {
		return nil, downloadError(ctx, url, res, err)
	}

	info, ok := parseInfoOutput(res.Stdout)
	if !ok {
		return nil, &domain.DownloadError{URL: url, Reason: "no video information"}
	}
	return info, nil
}

// DownloadAudio downloads the best audio stream and converts it to MP3.
func (d *YtdlpDownloader) DownloadAudio(ctx context.Context, req ports.AudioDownload) (string, error) {
	if err := os.MkdirAll(req.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	target, err := uniquePath(filepath.Join(req.Dir, req.FileName))
	if err != nil {
		return "", err
	}

	var args []string
	if req.Clip != nil {
		args = append(args, "--postprocessor-args", req.Clip.PostprocessorArgs())
	}
	args = append(args, req.URL)

	res, err := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality("192K").
		NoPlaylist().
		Output(strings.TrimSuffix(target, filepath.Ext(target))+".%(ext)s").
		Print("after_move:filepath").
		NoSimulate().
		NoWarnings().
		IgnoreConfig().
		Run(ctx, args...)
	if err != nil {
		_ = os.Remove(target)
		return "", downloadError(ctx, req.URL, res, err)
	}

	if path := lastLine(res.Stdout); path != "" {
		return path, nil
	}
	return target, nil
}

func downloadError(ctx context.Context, url string, res *ytdlp.Result, err error) error {
	if ctx.Err() != nil {
		return &domain.DownloadError{URL: url, Err: ctx.Err()}
	}
	reason := ""
	if res != nil {
		reason = lastLine(res.Stderr)
	}
	return &domain.DownloadError{URL: url, Reason: reason, Err: err}
}

// parseInfoOutput reads the first complete line of the info template.
func parseInfoOutput(stdout string) (*domain.VideoInfo, bool) {
	for line := range strings.SplitSeq(strings.TrimSpace(stdout), "\n") {
		ps := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(ps) < infoFieldCount {
			continue
		}

		info := &domain.VideoInfo{
			ID:       naOrEmpty(ps[0]),
			Title:    naOrEmpty(ps[1]),
			Duration: parseSeconds(ps[2]),
			IsLive:   ps[3] == "True" || ps[4] == "is_live",
		}
		return info, true
	}
	return nil, false
}

// uniquePath returns path, or the first of stem-1.ext, stem-2.ext, ...
// that does not exist yet.
func uniquePath(path string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	candidate := path
	for i := 1; ; i++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		candidate = stem + "-" + strconv.Itoa(i) + ext
	}
}

func parseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

func naOrEmpty(s string) string {
	if s == "NA" {
		return ""
	}
	return s
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimPrefix(strings.TrimSpace(s), "ERROR: ")
}

// Ensure YtdlpDownloader implements ports.AudioDownloader.
var _ ports.AudioDownloader = (*YtdlpDownloader)(nil)
