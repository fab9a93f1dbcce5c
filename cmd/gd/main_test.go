package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/gogpu/gd"
	"github.com/gogpu/gd/backend/structured"
	"github.com/gogpu/gd/scene"
)

// isolate points the default config path at an empty home directory and
// restores the package logger afterwards.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.Reset()
	orig := gd.Logger()
	t.Cleanup(func() {
		gd.SetLogger(orig)
		homedir.Reset()
	})
	return home
}

func writePage(t *testing.T, dir string) string {
	t.Helper()
	p := scene.NewPage(1, scene.Size{W: 40, H: 30}, scene.White)
	p.Append(&scene.Rect{Bounds: scene.Bounds{X: 5, Y: 5, W: 10, H: 10}, Fill: scene.RGB(255, 0, 0), Line: scene.DefaultLine()})
	r := structured.New()
	if err := r.Render(p, 1); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "page.json")
	if err := os.WriteFile(path, r.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderersCommand(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "renderers")
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}
	for _, want := range []string{"ID", "png-base64", "image/svg+xml", "application/pdf", "svgzp"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRenderToStdout(t *testing.T) {
	dir := isolate(t)
	page := writePage(t, dir)

	out, _, err := run(t, "render", page, "-r", "svgp")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "<svg ") || !strings.Contains(out, `fill="#FF0000"`) {
		t.Errorf("unexpected svg:\n%s", out)
	}
}

func TestRenderRendererFromExtension(t *testing.T) {
	dir := isolate(t)
	page := writePage(t, dir)
	dst := filepath.Join(dir, "out.png")

	if _, _, err := run(t, "render", page, "-o", dst, "--zoom", "2", "--width", "80", "--height", "60"); err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("image size = %dx%d, want 80x60", b.Dx(), b.Dy())
	}
}

func TestRenderConfigFile(t *testing.T) {
	dir := isolate(t)
	page := writePage(t, dir)
	cfg := filepath.Join(dir, "gd.toml")
	body := `renderer = "svg"
log_level = "debug"
extra_css = ".extra { fill: blue; }"
`
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out, logs, err := run(t, "render", page, "--config", cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, ".extra { fill: blue; }") {
		t.Errorf("extra css missing:\n%s", out)
	}
	if !strings.Contains(logs, "level=DEBUG") {
		t.Errorf("debug logging not enabled:\n%s", logs)
	}

	// Flags win over the file.
	out, _, err = run(t, "render", page, "--config", cfg, "-r", "json", "--log-level", "error")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "{") {
		t.Errorf("renderer flag ignored:\n%.40s", out)
	}
}

func TestRenderDefaultConfig(t *testing.T) {
	home := isolate(t)
	page := writePage(t, home)
	dir := filepath.Join(home, ".config", "gd")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "gd.toml"), []byte(`renderer = "eps"`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := run(t, "render", page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "%!PS-Adobe-3.0 EPSF-3.0") {
		t.Errorf("default config not used:\n%.40s", out)
	}
}

func TestRenderStdin(t *testing.T) {
	dir := isolate(t)
	data, err := os.ReadFile(writePage(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"render", "-", "-r", "json"})
	cmd.SetIn(bytes.NewReader(data))
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := structured.Decode(stdout.Bytes()); err != nil {
		t.Errorf("output does not decode: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := isolate(t)
	page := writePage(t, dir)
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("colour = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	junk := filepath.Join(dir, "junk.json")
	if err := os.WriteFile(junk, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown renderer", []string{"render", page, "-r", "bmp"}, "unknown renderer"},
		{"missing page", []string{"render", filepath.Join(dir, "none.json")}, "none.json"},
		{"malformed page", []string{"render", junk}, "junk.json"},
		{"unknown config key", []string{"render", page, "--config", bad}, "colour"},
		{"missing config", []string{"render", page, "--config", filepath.Join(dir, "none.toml")}, "none.toml"},
		{"bad log level", []string{"render", page, "--log-level", "loud"}, "loud"},
		{"no arguments", []string{"render"}, "arg"},
		{"watch stdin", []string{"render", "-", "--watch"}, "stdin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetIn(strings.NewReader(`{"id":"1","w":1,"h":1,"scale":1,"fill":"#FFFFFF","clips":[],"draw_calls":[]}`))
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			err := cmd.Execute()
			if err == nil {
				t.Fatal("Execute() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestResizeCanvas(t *testing.T) {
	p := scene.NewPage(1, scene.Size{W: 10, H: 10}, scene.White)
	inner := p.AddClip(scene.Bounds{X: 1, Y: 1, W: 2, H: 2})
	got := resizeCanvas(p.Clone(), scene.Size{W: 20, H: 30})
	if got.Size != (scene.Size{W: 20, H: 30}) {
		t.Errorf("size = %v", got.Size)
	}
	if c, _ := got.FindClip(0); c.Rect != (scene.Bounds{W: 20, H: 30}) {
		t.Errorf("page clip = %v, want the new page bounds", c.Rect)
	}
	if c, _ := got.FindClip(inner); c.Rect != (scene.Bounds{X: 1, Y: 1, W: 2, H: 2}) {
		t.Errorf("inner clip moved: %v", c.Rect)
	}
}

func TestWatch(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "page.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, func() error {
			calls <- struct{}{}
			return nil
		})
	}()

	// Keep touching the file until the watcher has started and reacted.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(10 * time.Second)
wait:
	for {
		select {
		case <-calls:
			break wait
		case <-tick.C:
			if err := os.WriteFile(path, []byte("{ }"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("watch did not react to writes")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
