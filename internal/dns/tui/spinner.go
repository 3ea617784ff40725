package tui

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner shows title on stderr while action runs. Interrupting the
// spinner cancels action's context and returns ErrApplyAborted.
func RunWithSpinner(ctx context.Context, title string, action func(ctx context.Context) error) error {
	err := spinner.New().
		Title(title).
		Accessible(os.Getenv("ACCESSIBLE") != "").
		Output(os.Stderr).
		ActionWithErr(func(spinCtx context.Context) error {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			stop := context.AfterFunc(spinCtx, cancel)
			defer stop()
			return action(runCtx)
		}).
		Run()
	if err != nil && errors.Is(err, huh.ErrUserAborted) {
		return ErrApplyAborted
	}
	return err
}
