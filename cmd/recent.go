package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vlive-go/vlive/color"
	"github.com/vlive-go/vlive/icon"
	"github.com/vlive-go/vlive/recent"
	"github.com/vlive-go/vlive/state"
	"github.com/vlive-go/vlive/style"
	"github.com/vlive-go/vlive/util"
)

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().IntP("rows", "n", 24, "Number of videos per page")
	recentCmd.Flags().IntP("page", "p", 1, "Page to fetch")
	recentCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	recentCmd.Flags().BoolP("thumbnails", "t", false, "Print thumbnail URLs")
	recentCmd.SetOut(os.Stdout)
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently posted videos",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			rows       = util.Max(lo.Must(cmd.Flags().GetInt("rows")), 1)
			page       = util.Max(lo.Must(cmd.Flags().GetInt("page")), 1)
			thumbnails = lo.Must(cmd.Flags().GetBool("thumbnails"))
		)

		erase := util.PrintErasable(fmt.Sprintf("%s Fetching recent videos...", icon.Get(icon.Progress)))
		videos, err := recent.NewClient(fetcher(), endpoints()).Fetch(context.Background(), rows, page)
		erase()
		handleErr(err)

		if printJSON(cmd, videos) {
			return
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil && w > 0 {
			width = w
		}

		for _, v := range videos {
			var (
				mark    = lo.Ternary(v.Type == state.LIVE, icon.Get(icon.Live), icon.Get(icon.VOD))
				seq     = fmt.Sprintf("%-8d", v.Seq)
				channel = util.Fit(v.ChannelName, 16)
				length  = ""
			)

			if d, ok := v.Duration.Get(); ok {
				length = d.String()
			}

			room := width - len(seq) - len(channel) - len(length) - 8 - len(mark)
			cmd.Printf("%s %s %s %s %s\n",
				mark,
				style.Fg(color.Purple)(seq),
				style.Fg(color.Cyan)(channel),
				util.Fit(v.Title, room),
				style.Faint(length),
			)

			if thumbnails {
				cmd.Printf("  %s\n", style.Faint(v.ThumbnailURL()))
			}
		}
	},
}
