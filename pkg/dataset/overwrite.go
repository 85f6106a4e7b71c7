package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/gsy-tools/gsy/pkg/util/console"
)

// ErrAborted is returned when the user declines to overwrite an existing export.
var ErrAborted = errors.New("operation cancelled by user")

// ConfirmOverwrite deletes an existing export file after asking the user. With force
// set, or when the file doesn't exist, it proceeds without asking. Off a terminal the
// prompt can't be answered, so an existing file is an error unless forced.
func ConfirmOverwrite(path string, force bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			console.Debugf("File %s does not exist. Proceeding with export...", path)
			return nil
		}
		return err
	}

	if !force {
		if !console.IsTerminal() {
			return fmt.Errorf("%s already exists. Pass --force to overwrite it", path)
		}
		ok, err := console.InteractiveBool{
			Prompt:         fmt.Sprintf("File %q already exists (modified %s). Delete it?", path, console.FormatTime(info.ModTime())),
			Default:        false,
			NonDefaultFlag: "--force",
		}.Read()
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	for {
		err := os.Remove(path)
		if err == nil {
			console.Infof("File %s deleted successfully", path)
			return nil
		}
		// Usually the workbook is still open in Excel. Give the user a chance to
		// close it rather than failing outright.
		if !console.IsTerminal() {
			return err
		}
		console.Warnf("Cannot delete %s - file may be in use. Close it if it's open in another application.", path)
		retry, promptErr := console.InteractiveBool{
			Prompt:         "Try again?",
			Default:        true,
			NonDefaultFlag: "--force",
		}.Read()
		if promptErr != nil {
			return promptErr
		}
		if !retry {
			return ErrAborted
		}
	}
}
