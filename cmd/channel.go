package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vlive-go/vlive/channel"
	"github.com/vlive-go/vlive/color"
	"github.com/vlive-go/vlive/icon"
	"github.com/vlive-go/vlive/log"
	"github.com/vlive-go/vlive/query"
	"github.com/vlive-go/vlive/state"
	"github.com/vlive-go/vlive/style"
	"github.com/vlive-go/vlive/util"
)

func init() {
	rootCmd.AddCommand(channelCmd)
	channelCmd.PersistentFlags().BoolP("json", "j", false, "Format the output as JSON")
	channelCmd.SetOut(os.Stdout)
}

// channelCmd groups the channel listing commands.
var channelCmd = &cobra.Command{
	Use:     "channel",
	Short:   "Search channels and list their videos",
	Aliases: []string{"ch"},
}

func channelClient() *channel.Client {
	return channel.NewClient(fetcher(), endpoints())
}

// printJSON writes v to stdout and reports whether --json was given.
func printJSON(cmd *cobra.Command, v any) bool {
	if !lo.Must(cmd.Flags().GetBool("json")) {
		return false
	}

	lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(v))
	return true
}

func parseChannelSeq(ctx context.Context, client *channel.Client, arg string) (uint64, error) {
	if seq, err := strconv.ParseUint(arg, 10, 64); err == nil {
		return seq, nil
	}

	// not a number, try it as a channel code
	return client.DecodeCode(ctx, strings.ToUpper(arg))
}

// completionQueries suggests remembered search queries.
func completionQueries(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	channelCmd.AddCommand(channelSearchCmd)
	channelSearchCmd.Flags().IntP("rows", "n", 10, "Maximum number of channels to return")
	channelSearchCmd.Flags().StringP("filter", "f", "", "Keep only channels whose name fuzzily matches")
	channelSearchCmd.Flags().BoolP("codes", "c", false, "Print only channel codes")
	channelSearchCmd.MarkFlagsMutuallyExclusive("codes", "json")
}

var channelSearchCmd = &cobra.Command{
	Use:               "search <query>",
	Short:             "Search channels by name",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionQueries,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			q      = strings.Join(args, " ")
			rows   = lo.Must(cmd.Flags().GetInt("rows"))
			filter = lo.Must(cmd.Flags().GetString("filter"))
		)

		list, err := channelClient().Search(context.Background(), q, rows)
		handleErr(err)

		if len(list) > 0 {
			if err := query.Remember(q, 1); err != nil {
				log.Warn(err)
			}
		}

		if filter != "" {
			list = list.Filter(filter)
		}

		if printJSON(cmd, list) {
			return
		}

		if lo.Must(cmd.Flags().GetBool("codes")) {
			for _, code := range list.Codes() {
				cmd.Println(code)
			}
			return
		}

		if len(list) == 0 {
			cmd.Printf("%s no channels found for %s\n", icon.Get(icon.Fail), style.Fg(color.Yellow)(q))
			return
		}

		for _, c := range list {
			cmd.Println(renderChannel(c))
		}
	},
}

var channelFindCmd = &cobra.Command{
	Use:               "find <name>",
	Short:             "Find the channel whose name is closest to the given one",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionQueries,
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.Join(args, " ")
		c, err := channelClient().Find(context.Background(), name)
		handleErr(err)

		if err := query.Remember(name, 1); err != nil {
			log.Warn(err)
		}

		if printJSON(cmd, c) {
			return
		}
		cmd.Println(renderChannel(c))
		cmd.Println(style.Faint("  " + endpoints().ChannelURL(c.Code)))
	},
}

var channelDecodeCmd = &cobra.Command{
	Use:   "decode <code>",
	Short: "Turn a channel code into its numeric seq",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		seq, err := channelClient().DecodeCode(context.Background(), args[0])
		handleErr(err)

		if printJSON(cmd, map[string]any{"channelCode": args[0], "channelSeq": seq}) {
			return
		}
		cmd.Println(seq)
	},
}

func init() {
	channelCmd.AddCommand(channelFindCmd)
	channelCmd.AddCommand(channelDecodeCmd)

	for _, c := range []*cobra.Command{channelVideosCmd, channelUpcomingCmd} {
		channelCmd.AddCommand(c)
		c.Flags().IntP("rows", "n", 24, "Number of videos per page")
		c.Flags().IntP("page", "p", 1, "Page to fetch")
	}
}

var channelVideosCmd = &cobra.Command{
	Use:   "videos <seq|code>",
	Short: "List one page of a channel's videos",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			ctx    = context.Background()
			client = channelClient()
			rows   = lo.Must(cmd.Flags().GetInt("rows"))
			page   = lo.Must(cmd.Flags().GetInt("page"))
		)

		seq, err := parseChannelSeq(ctx, client, args[0])
		handleErr(err)

		list, err := client.Videos(ctx, seq, rows, page)
		handleErr(err)

		if printJSON(cmd, list) {
			return
		}

		cmd.Printf("%s %s %s\n",
			icon.Get(icon.Channel),
			style.Bold(list.Channel.Name),
			style.Faint(util.Quantify(int(list.Total), "video", "videos")),
		)
		printVideos(cmd, list.Videos)
	},
}

var channelUpcomingCmd = &cobra.Command{
	Use:   "upcoming <seq|code>",
	Short: "List one page of a channel's scheduled videos",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			ctx    = context.Background()
			client = channelClient()
			rows   = lo.Must(cmd.Flags().GetInt("rows"))
			page   = lo.Must(cmd.Flags().GetInt("page"))
		)

		seq, err := parseChannelSeq(ctx, client, args[0])
		handleErr(err)

		list, err := client.Upcoming(ctx, seq, rows, page)
		handleErr(err)

		if printJSON(cmd, list) {
			return
		}

		if len(list.Videos) == 0 {
			cmd.Printf("%s nothing scheduled\n", icon.Get(icon.Offline))
			return
		}
		printVideos(cmd, list.Videos)
	},
}

func init() {
	channelCmd.AddCommand(channelBoardsCmd)

	channelCmd.AddCommand(channelPostsCmd)
	channelPostsCmd.Flags().IntP("limit", "n", 20, "Number of posts per page")
	channelPostsCmd.Flags().StringP("after", "a", "", "Cursor printed at the end of the previous page")
}

var channelBoardsCmd = &cobra.Command{
	Use:   "boards <code>",
	Short: "List the boards of a channel",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		groups, err := channelClient().GroupedBoards(context.Background(), strings.ToUpper(args[0]))
		handleErr(err)

		if printJSON(cmd, groups) {
			return
		}

		for _, group := range groups {
			if group.Title != "" {
				cmd.Println(style.Bold(group.Title))
			}
			for _, b := range group.Boards {
				paid := lo.Ternary(bool(b.PayRequired), style.Fg(color.Yellow)("+"), " ")
				cmd.Printf("%s %s %s %s\n", paid, style.Fg(color.Purple)(fmt.Sprintf("%-8d", b.ID)), b.Title, style.Faint(string(b.Type)))
			}
		}
	},
}

var channelPostsCmd = &cobra.Command{
	Use:   "posts <code> <board>",
	Short: "List one page of a board's posts, newest first",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		boardID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			handleErr(fmt.Errorf("invalid board id %q: expected a positive number", args[1]))
		}

		var (
			code  = strings.ToUpper(args[0])
			limit = lo.Must(cmd.Flags().GetInt("limit"))
			after = lo.Must(cmd.Flags().GetString("after"))
		)

		posts, err := channelClient().BoardPosts(context.Background(), code, boardID, limit, after)
		handleErr(err)

		if printJSON(cmd, posts) {
			return
		}

		if len(posts.Posts) == 0 {
			cmd.Printf("%s no posts\n", icon.Get(icon.Offline))
			return
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil && w > 0 {
			width = w
		}

		for _, p := range posts.Posts {
			var (
				mark  = lo.Ternary(p.OfficialVideo != nil, icon.Get(icon.VOD), icon.Get(icon.Mark))
				date  = p.CreatedAt.In(state.KST).Format("2006-01-02 15:04")
				title = lo.Ternary(p.Title != "", p.Title, p.PlainBody)
			)

			room := width - len(date) - len(p.Author.Nickname) - 4 - len(mark)
			cmd.Printf("%s %s %s %s\n", mark, style.Faint(date), style.Fg(color.Cyan)(p.Author.Nickname), util.Fit(title, room))
		}

		if posts.HasNext() {
			cmd.Println(style.Faint("next page: --after " + posts.Paging.Next.After))
		}
	},
}

func renderChannel(c channel.Channel) string {
	kind := lo.Ternary(c.Type == channel.Premium, style.Fg(color.Yellow)("+"), " ")
	return fmt.Sprintf("%s %s %s", kind, style.Fg(color.Purple)(c.Code), c.Name)
}

func printVideos(cmd *cobra.Command, videos []channel.Video) {
	width := 80
	if w, _, err := util.TerminalSize(); err == nil && w > 0 {
		width = w
	}

	for _, v := range videos {
		var (
			mark = lo.Ternary(v.Type == state.LIVE, icon.Get(icon.Live), icon.Get(icon.VOD))
			seq  = fmt.Sprintf("%-8d", v.Seq)
			when = v.CreatedAt
		)

		if bool(v.Upcoming) {
			when = v.WillStartAt
		}

		date := ""
		if !when.IsZero() {
			date = when.In(state.KST).Format("2006-01-02 15:04")
		}

		// mark, seq, date and separators
		room := width - len(seq) - len(date) - 6 - len(mark)
		cmd.Printf("%s %s %s %s\n", mark, style.Fg(color.Purple)(seq), style.Faint(date), util.Fit(v.Title, room))
	}
}
