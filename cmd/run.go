package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ThatOtherAndrew/fragview/internal/config"
	"github.com/ThatOtherAndrew/fragview/internal/draw"
	"github.com/ThatOtherAndrew/fragview/internal/logx"
	"github.com/ThatOtherAndrew/fragview/internal/models"
	"github.com/ThatOtherAndrew/fragview/internal/opengl"
	"github.com/ThatOtherAndrew/fragview/internal/output"
	"github.com/ThatOtherAndrew/fragview/internal/remote"
	"github.com/ThatOtherAndrew/fragview/internal/session"
	"github.com/ThatOtherAndrew/fragview/internal/shaders"
	"github.com/ThatOtherAndrew/fragview/internal/timeline"
	"github.com/ThatOtherAndrew/fragview/internal/update"
	"github.com/ThatOtherAndrew/fragview/internal/watch"
	"github.com/ThatOtherAndrew/fragview/internal/window"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

var (
	runExample string
	runListen  string
	runNoWatch bool
)

var runCmd = &cobra.Command{
	Use:   "run [shader]",
	Short: "Open the preview window",
	Long: `Open the preview window on a fragment shader file, or on a bundled example
when no file is given. The file is recompiled every time it is saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: Run,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runExample, "example", "e", "", "bundled example to show when no file is given")
	runCmd.Flags().StringVar(&runListen, "listen", "", "serve the remote editor bridge on this address")
	runCmd.Flags().BoolVar(&runNoWatch, "no-watch", false, "do not recompile when the file changes")
}

// loadShader returns the source to preview and the file it came from, which
// is empty for bundled examples.
func loadShader(args []string, example string) (string, string, error) {
	if len(args) > 0 {
		path, err := homedir.Expand(args[0])
		if err != nil {
			return "", "", err
		}
		source, err := shaders.LoadSource(path)
		return source, path, err
	}
	if example == "" {
		example = shaders.DefaultExample
	}
	source, err := shaders.Example(example)
	return source, "", err
}

func newApp(settings *config.Settings, width, height int) *models.App {
	c := settings.Camera
	return &models.App{
		Camera: models.Camera{
			Rotation: mgl32.Vec2{c.RotationX, c.RotationY},
			Origin:   mgl32.Vec3(c.Origin),
			Zoom:     c.Zoom,
		},
		Viewport: models.Viewport{
			QuadView:  c.QuadView,
			QuadSplit: mgl32.Vec2{c.SplitX, c.SplitY},
			Width:     width,
			Height:    height,
		},
		RenderMode: settings.Render.Mode,
	}
}

func Run(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	source, path, err := loadShader(args, runExample)
	if err != nil {
		return err
	}

	win, err := window.New(window.Options{
		Width:   settings.Window.Width,
		Height:  settings.Window.Height,
		Title:   settings.Window.Title,
		VSync:   settings.Window.VSync,
		Visible: true,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	dev, err := opengl.New()
	if err != nil {
		return err
	}
	logx.Logger().Info("OpenGL initialized", "version", dev.Version())

	timer, err := timeline.New(settings.Timeline.LoopStart, settings.Timeline.LoopEnd, settings.LoopMode())
	if err != nil {
		return err
	}
	width, height := win.FramebufferSize()
	app := newApp(settings, width, height)
	out := output.New(os.Stdout, os.Stderr)

	sess, err := session.New(app, timer, dev, win, out, session.Options{
		Draw: draw.Options{
			BaseDistance: settings.Camera.BaseDistance,
			MinPaneSize:  settings.Camera.MinPaneSize,
		},
		Autoplay: settings.Timeline.Autoplay,
		OnClose:  win.Close,
	})
	if err != nil {
		return err
	}
	defer sess.Release()

	win.Bind(update.New(app, sess), sess)
	// Diagnostics are on the output channel; keep the window open so the
	// next save can fix them.
	_ = sess.Recompile(source)

	if path != "" && settings.Watch.Enabled && !runNoWatch {
		debounce := time.Duration(settings.Watch.DebounceMS) * time.Millisecond
		w, err := watch.New(path, debounce, func(source string) {
			win.Post(func() { _ = sess.Recompile(source) })
		})
		if err != nil {
			logx.Logger().Warn("file watching disabled", "err", err)
		} else {
			defer w.Close()
		}
	}

	listen := settings.Remote.Listen
	if runListen != "" {
		listen = runListen
	}
	if listen != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		srv := remote.New(sess, win.Post)
		out.SetTarget(srv.Broadcast)
		go func() {
			if err := srv.ListenAndServe(ctx, listen); err != nil {
				logx.Logger().Warn("remote bridge stopped", "err", err)
			}
		}()
	}

	sess.Start()
	win.Run()
	return nil
}
