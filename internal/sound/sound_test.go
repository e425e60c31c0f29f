package sound

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// id3Payload sniffs as MP3 (ID3v2 tag header).
var id3Payload = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x0f"), bytes.Repeat([]byte{0}, 512)...)

func assetServer(t *testing.T, body []byte, contentType string) (*httptest.Server, *int64) {
	t.Helper()
	var gets int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			atomic.AddInt64(&gets, 1)
			if !strings.Contains(r.Header.Get("Accept"), "audio/") {
				t.Errorf("request Accept = %q, want an audio type", r.Header.Get("Accept"))
			}
		}
		w.Header().Set("Content-Type", contentType)
		http.ServeContent(w, r, "asset", time.Time{}, bytes.NewReader(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gets
}

func TestFetch_DownloadsAndCaches(t *testing.T) {
	srv, gets := assetServer(t, id3Payload, "audio/mpeg")
	f := NewFetcher(t.TempDir())
	url := srv.URL + "/sfx/2869-preview.mp3"

	p, err := f.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if filepath.Base(p) != "2869-preview.mp3" {
		t.Errorf("cached as %q, want the URL's base name", p)
	}
	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, id3Payload) {
		t.Error("cached asset differs from served payload")
	}

	again, err := f.Fetch(context.Background(), url)
	if err != nil || again != p {
		t.Fatalf("second Fetch = %q, %v", again, err)
	}
	if n := atomic.LoadInt64(gets); n != 1 {
		t.Errorf("server saw %d GETs, want 1", n)
	}
}

func TestFetch_RejectsNonAudio(t *testing.T) {
	srv, _ := assetServer(t, []byte("<html><body>not found</body></html>"), "text/html")
	f := NewFetcher(t.TempDir())
	url := srv.URL + "/alarm.mp3"

	_, err := f.Fetch(context.Background(), url)
	if !errors.Is(err, ErrNotAudio) {
		t.Fatalf("err = %v, want ErrNotAudio", err)
	}
	if _, statErr := os.Stat(f.AssetPath(url)); !os.IsNotExist(statErr) {
		t.Error("rejected asset should be removed from the cache")
	}
}

func TestAssetName(t *testing.T) {
	tests := map[string]string{
		"https://assets.mixkit.co/active_storage/sfx/2869/2869-preview.mp3": "2869-preview.mp3",
		"https://example.com/":  DefaultAssetName,
		"https://example.com":   DefaultAssetName,
		"://bad":                DefaultAssetName,
	}
	for in, want := range tests {
		if got := assetName(in); got != want {
			t.Errorf("assetName(%q) = %q, want %q", in, got, want)
		}
	}
}

func cachedAlarm(t *testing.T) (*Alarm, *bytes.Buffer) {
	t.Helper()
	srv, _ := assetServer(t, id3Payload, "audio/mpeg")
	var bell bytes.Buffer
	a := NewAlarm(srv.URL+"/alarm.mp3", NewFetcher(t.TempDir()), &bell)
	return a, &bell
}

func TestAlarm_PlaysWithFirstAvailablePlayer(t *testing.T) {
	a, bell := cachedAlarm(t)
	a.LookPath = func(file string) (string, error) {
		if file == "ffplay" || file == "aplay" {
			return "/usr/bin/" + file, nil
		}
		return "", errors.New("not found")
	}
	var ran []string
	a.Run = func(ctx context.Context, name string, args ...string) error {
		ran = append(ran, name+" "+strings.Join(args, " "))
		return nil
	}

	if err := a.Play(context.Background()); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(ran) != 1 || !strings.HasPrefix(ran[0], "/usr/bin/ffplay -nodisp") || !strings.HasSuffix(ran[0], "alarm.mp3") {
		t.Errorf("ran %v", ran)
	}
	if bell.Len() != 0 {
		t.Error("bell should not ring when a player succeeds")
	}
}

func TestAlarm_FailingPlayerFallsThrough(t *testing.T) {
	a, bell := cachedAlarm(t)
	a.LookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	var ran []string
	a.Run = func(ctx context.Context, name string, args ...string) error {
		ran = append(ran, name)
		if name == "/usr/bin/paplay" {
			return errors.New("connection refused")
		}
		return nil
	}

	if err := a.Play(context.Background()); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(ran) != 2 || ran[1] != "/usr/bin/pw-play" {
		t.Errorf("ran %v, want paplay then pw-play", ran)
	}
	if bell.Len() != 0 {
		t.Error("bell should not ring when a later player succeeds")
	}
}

func TestAlarm_AllPlayersFailRingsBellOnce(t *testing.T) {
	a, bell := cachedAlarm(t)
	a.LookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	runs := 0
	a.Run = func(ctx context.Context, name string, args ...string) error {
		runs++
		return errors.New("no output device")
	}

	err := a.Play(context.Background())
	if err == nil || errors.Is(err, ErrNoPlayer) {
		t.Fatalf("err = %v, want the player failures", err)
	}
	if runs != len(DefaultCommands) {
		t.Errorf("tried %d players, want %d", runs, len(DefaultCommands))
	}
	if bell.String() != "\a" {
		t.Errorf("bell output = %q", bell.String())
	}
}

func TestAlarm_NoPlayerRingsBell(t *testing.T) {
	a, bell := cachedAlarm(t)
	a.LookPath = func(string) (string, error) { return "", errors.New("not found") }

	if err := a.Play(context.Background()); !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("err = %v, want ErrNoPlayer", err)
	}
	if bell.String() != "\a" {
		t.Errorf("bell output = %q", bell.String())
	}
}

func TestAlarm_FetchFailureRingsBell(t *testing.T) {
	var bell bytes.Buffer
	a := NewAlarm("http://127.0.0.1:1/alarm.mp3", NewFetcher(t.TempDir()), &bell)
	if err := a.Play(context.Background()); err == nil {
		t.Fatal("Play should report the fetch failure")
	}
	if bell.String() != "\a" {
		t.Errorf("bell output = %q", bell.String())
	}
}

func TestBell(t *testing.T) {
	var out bytes.Buffer
	if err := (Bell{Out: &out}).Play(context.Background()); err != nil || out.String() != "\a" {
		t.Errorf("Bell.Play = %v, output %q", err, out.String())
	}
}
