package version

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/color"
	"github.com/vlive-go/vlive/constant"
	"github.com/vlive-go/vlive/icon"
	"github.com/vlive-go/vlive/key"
	"github.com/vlive-go/vlive/network"
	"github.com/vlive-go/vlive/style"
	"github.com/vlive-go/vlive/util"
)

// Notify prints a notice when a newer release is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest(ctx, network.NewHTTPFetcher(nil))
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/vlive-go/vlive/releases/tag/v"+version),
	)
}
