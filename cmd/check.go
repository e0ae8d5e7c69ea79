package cmd

import (
	"os"

	"github.com/ThatOtherAndrew/fragview/internal/models"
	"github.com/ThatOtherAndrew/fragview/internal/opengl"
	"github.com/ThatOtherAndrew/fragview/internal/output"
	"github.com/ThatOtherAndrew/fragview/internal/session"
	"github.com/ThatOtherAndrew/fragview/internal/timeline"
	"github.com/ThatOtherAndrew/fragview/internal/window"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <shader>",
	Short: "Compile a shader without opening a window",
	Args:  cobra.ExactArgs(1),
	RunE:  Check,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func Check(cmd *cobra.Command, args []string) error {
	source, _, err := loadShader(args, "")
	if err != nil {
		return err
	}

	win, err := window.New(window.Options{Width: 1, Height: 1, Title: "fragview check"})
	if err != nil {
		return err
	}
	defer win.Destroy()

	dev, err := opengl.New()
	if err != nil {
		return err
	}

	app := &models.App{Camera: models.Camera{Zoom: 1}}
	sess, err := session.New(app, timeline.Default(), dev, win, output.New(os.Stdout, os.Stderr), session.Options{})
	if err != nil {
		return err
	}
	defer sess.Release()
	return sess.Recompile(source)
}
