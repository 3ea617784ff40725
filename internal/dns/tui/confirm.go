// Package tui holds the interactive prompts of the dns commands.
package tui

import (
	"errors"
	"os"

	"nathanbeddoewebdev/mailprov/internal/util"

	"github.com/charmbracelet/huh"
)

// ErrApplyAborted is returned when the user interrupts the confirmation form.
var ErrApplyAborted = errors.New("dns apply aborted by user")

// ConfirmApply asks whether the planned records should be applied. A plain
// "No" returns (false, nil); Ctrl+C returns ErrApplyAborted.
func ConfirmApply(n int) (bool, error) {
	confirm := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Apply " + util.Plural(n, "DNS record", "DNS records") + "?").
				Description("Existing records are skipped. Nothing is updated or deleted.").
				Affirmative("Apply").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithAccessible(os.Getenv("ACCESSIBLE") != "").Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrApplyAborted
		}
		return false, err
	}
	return confirm, nil
}
