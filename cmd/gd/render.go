package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/gd"
	"github.com/gogpu/gd/backend"
	"github.com/gogpu/gd/backend/structured"
	"github.com/gogpu/gd/backend/svg"
	"github.com/gogpu/gd/scene"
)

type renderFlags struct {
	renderer string
	output   string
	zoom     float64
	width    float64
	height   float64
	watch    bool
}

// apply copies the flags the user set over the config values.
func (f *renderFlags) apply(cmd *cobra.Command, cfg *config) {
	flags := cmd.Flags()
	if flags.Changed("renderer") {
		cfg.Renderer = f.renderer
	}
	if flags.Changed("zoom") {
		cfg.Zoom = f.zoom
	}
	if flags.Changed("width") {
		cfg.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Height = f.height
	}
}

func newRenderCmd(g *globals) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render PAGE.json",
		Short: "Render a structured page file",
		Long: `Render decodes a page written by the json renderer and renders it with
any registered renderer. Use - to read the page from stdin.

Without --renderer the renderer is taken from the config file, then from
the output file extension, and finally defaults to svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)

			job := &renderJob{
				cfg:    cfg,
				input:  args[0],
				output: f.output,
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
			}
			if err := job.run(); err != nil {
				return err
			}
			if !f.watch {
				return nil
			}
			if args[0] == "-" {
				return errors.New("--watch needs a page file, not stdin")
			}
			return watch(cmd.Context(), args[0], job.run)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.renderer, "renderer", "r", "", "renderer id, see gd renderers")
	flags.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	flags.Float64Var(&f.zoom, "zoom", 1, "zoom factor")
	flags.Float64Var(&f.width, "width", -1, "target width; negative keeps the page size at zoom 1")
	flags.Float64Var(&f.height, "height", -1, "target height; negative keeps the page size at zoom 1")
	flags.BoolVarP(&f.watch, "watch", "w", false, "render again whenever the page file changes")
	return cmd
}

// renderJob renders one page file to one output.
type renderJob struct {
	cfg    config
	input  string
	output string
	stdin  io.Reader
	stdout io.Writer
}

func (j *renderJob) run() error {
	data, err := j.read()
	if err != nil {
		return err
	}
	page, err := structured.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", j.input, err)
	}

	reg := gd.NewRegistry(svg.WithExtraCSS(j.cfg.ExtraCSS))
	id := j.rendererID(reg)
	dev := gd.NewDevice(gd.WithRegistry(reg), gd.WithResizer(resizeCanvas))
	dev.NewPage(page.Size, page.Fill)
	if err := dev.Redraw(page); err != nil {
		return err
	}
	dev.Close()

	res, err := dev.Render(0, j.cfg.Width, j.cfg.Height, j.cfg.Zoom, id)
	if err != nil {
		return err
	}
	if j.output == "" || j.output == "-" {
		_, err = j.stdout.Write(res.Data)
		return err
	}
	if err := os.WriteFile(j.output, res.Data, 0o644); err != nil {
		return err
	}
	gd.Logger().Info("gd: wrote output", "file", j.output, "renderer", id, "bytes", len(res.Data))
	return nil
}

func (j *renderJob) read() ([]byte, error) {
	if j.input == "-" {
		return io.ReadAll(j.stdin)
	}
	return os.ReadFile(j.input)
}

// rendererID picks the renderer: configured id, then output extension,
// then svg.
func (j *renderJob) rendererID(reg *backend.Registry) string {
	if j.cfg.Renderer != "" {
		return j.cfg.Renderer
	}
	if ext := filepath.Ext(j.output); ext != "" {
		for _, info := range reg.List() {
			if info.Ext == ext {
				return info.ID
			}
		}
	}
	return svg.Info.ID
}

// resizeCanvas changes the page size without moving its content. Clips
// that covered the whole page keep covering it.
func resizeCanvas(p *scene.Page, size scene.Size) *scene.Page {
	full := scene.Bounds{W: p.Size.W, H: p.Size.H}
	p.Size = size
	for i, c := range p.Clips {
		if c.Rect == full {
			p.Clips[i].Rect = scene.Bounds{W: size.W, H: size.H}
		}
	}
	return p
}
