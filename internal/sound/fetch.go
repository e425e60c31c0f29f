package sound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"
	"github.com/vfaronov/httpheader"
)

const (
	DefaultAssetName = "alarm.mp3"
	FetchTimeout     = 30 * time.Second
	sniffLen         = 262
)

var ErrNotAudio = errors.New("downloaded asset is not an audio file")

// Fetcher downloads the notification sound once and keeps it in a cache directory.
type Fetcher struct {
	Client   *grab.Client
	CacheDir string
}

func NewFetcher(cacheDir string) *Fetcher {
	client := grab.NewClient()
	client.UserAgent = "pomo"
	return &Fetcher{Client: client, CacheDir: cacheDir}
}

// AssetPath is where the asset for rawurl is stored in the cache.
func (f *Fetcher) AssetPath(rawurl string) string {
	return filepath.Join(f.CacheDir, assetName(rawurl))
}

// Fetch returns a local path for rawurl, downloading it when the cache holds
// no valid copy. Anything that does not sniff as audio is removed and rejected.
func (f *Fetcher) Fetch(ctx context.Context, rawurl string) (string, error) {
	dst := f.AssetPath(rawurl)
	if ok, _ := isAudioFile(dst); ok {
		return dst, nil
	}

	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	req, err := grab.NewRequest(dst, rawurl)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req = req.WithContext(ctx)
	req.NoResume = true
	httpheader.SetAccept(req.HTTPRequest.Header, []httpheader.AcceptElem{
		{Type: "audio/mpeg", Q: 1},
		{Type: "audio/*", Q: 0.8},
	})
	httpheader.SetUserAgent(req.HTTPRequest.Header, []httpheader.Product{
		{Name: "pomo", Comment: "notification sound"},
	})

	start := time.Now()
	resp := f.Client.Do(req)
	if err := resp.Err(); err != nil {
		return "", fmt.Errorf("download %s: %w", rawurl, err)
	}

	ok, err := isAudioFile(resp.Filename)
	if err != nil {
		return "", err
	}
	if !ok {
		os.Remove(resp.Filename)
		return "", fmt.Errorf("%s: %w", rawurl, ErrNotAudio)
	}

	log.Info().
		Str("url", rawurl).
		Str("path", resp.Filename).
		Int64("bytes", resp.BytesComplete()).
		Dur("elapsed", time.Since(start)).
		Msg("notification sound cached")
	return resp.Filename, nil
}

func assetName(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return DefaultAssetName
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return DefaultAssetName
	}
	return name
}

func isAudioFile(p string) (bool, error) {
	file, err := os.Open(p)
	if err != nil {
		return false, err
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.IsAudio(head[:n]), nil
}
