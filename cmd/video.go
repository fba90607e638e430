package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/color"
	"github.com/vlive-go/vlive/icon"
	"github.com/vlive-go/vlive/key"
	"github.com/vlive-go/vlive/pipeline"
	"github.com/vlive-go/vlive/player"
	"github.com/vlive-go/vlive/state"
	"github.com/vlive-go/vlive/stream"
	"github.com/vlive-go/vlive/style"
	"github.com/vlive-go/vlive/util"
)

func init() {
	rootCmd.AddCommand(videoCmd)

	videoCmd.Flags().BoolP("json", "j", false, "Print the stream descriptor as JSON")
	videoCmd.Flags().BoolP("best", "b", false, "Print only the URL of the highest rendition")
	videoCmd.Flags().BoolP("variants", "V", false, "List the variants of every HLS manifest")
	videoCmd.Flags().BoolP("select", "s", false, "Pick a rendition interactively and print its URL")
	videoCmd.Flags().Bool("state", false, "Print the parsed page state instead of resolving streams")
	videoCmd.Flags().BoolP("play", "p", false, "Play the highest (or the selected) rendition")
	videoCmd.Flags().IntP("concurrency", "c", 0, "How many videos to resolve at once")
	lo.Must0(viper.BindPFlag(key.ResolveConcurrency, videoCmd.Flags().Lookup("concurrency")))

	videoCmd.MarkFlagsMutuallyExclusive("json", "best", "select", "state")
	videoCmd.MarkFlagsMutuallyExclusive("variants", "best", "select", "state")
	videoCmd.MarkFlagsMutuallyExclusive("play", "json", "best", "state", "variants")

	videoCmd.SetOut(os.Stdout)
}

var videoCmd = &cobra.Command{
	Use:     "video <seq>...",
	Short:   "Resolve videos into playable streams",
	Example: "  vlive video 232024\n  vlive video --json 232024 70738\n  vlive video --play --select 232024",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		seqs, err := parseSeqs(args)
		handleErr(err)

		var (
			ctx      = context.Background()
			resolver = pipeline.New(pipeline.WithFetcher(fetcher()))
		)

		if lo.Must(cmd.Flags().GetBool("state")) {
			printStates(ctx, cmd, resolver, seqs)
			return
		}

		var (
			pick = lo.Must(cmd.Flags().GetBool("select"))
			play = lo.Must(cmd.Flags().GetBool("play"))
		)

		if pick || play {
			if len(seqs) != 1 {
				handleErr(fmt.Errorf("--select and --play take exactly one video, got %s", util.Quantify(len(seqs), "video", "videos")))
			}

			d, err := resolver.Resolve(ctx, seqs[0])
			handleErr(err)

			var url string
			if pick {
				url, err = selectRendition(d)
				handleErr(err)
			} else if best, ok := d.Best().Get(); ok {
				url = best
			} else {
				handleErr(fmt.Errorf("video %d has no renditions", d.VideoSeq))
			}

			if !play {
				cmd.Println(url)
				return
			}

			handleErr(playURL(ctx, d, url))
			return
		}

		var (
			asJson   = lo.Must(cmd.Flags().GetBool("json"))
			best     = lo.Must(cmd.Flags().GetBool("best"))
			variants = lo.Must(cmd.Flags().GetBool("variants"))
			failed   error
		)

		for _, result := range resolver.ResolveAll(ctx, seqs, viper.GetInt(key.ResolveConcurrency)) {
			if result.Err != nil {
				printErr(result.Err)
				failed = result.Err
				continue
			}

			d := result.Descriptor
			switch {
			case asJson:
				lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(d))
			case best:
				url, ok := d.Best().Get()
				if !ok {
					printErr(fmt.Errorf("video %d has no renditions", d.VideoSeq))
					continue
				}
				cmd.Println(url)
			default:
				cmd.Print(renderDescriptor(d))
			}

			if variants {
				printVariants(ctx, cmd, d)
			}
		}

		if failed != nil {
			os.Exit(exitCode(failed))
		}
	},
}

func parseSeqs(args []string) ([]uint64, error) {
	seqs := make([]uint64, 0, len(args))
	for _, arg := range args {
		seq, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid video seq %q: expected a positive number", arg)
		}
		seqs = append(seqs, seq)
	}
	return seqs, nil
}

func printStates(ctx context.Context, cmd *cobra.Command, resolver *pipeline.Resolver, seqs []uint64) {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")

	var failed error
	for _, seq := range seqs {
		s, err := resolver.State(ctx, seq)
		if err != nil {
			printErr(err)
			failed = err
			continue
		}
		lo.Must0(encoder.Encode(s))
	}

	if failed != nil {
		os.Exit(exitCode(failed))
	}
}

func printVariants(ctx context.Context, cmd *cobra.Command, d *stream.Descriptor) {
	client := fetcher()
	for _, m := range d.Manifests {
		if !strings.EqualFold(m.Type, "HLS") {
			continue
		}

		variants, err := stream.Variants(ctx, client, m.URL())
		if err != nil {
			printErr(err)
			continue
		}

		cmd.Printf("%s %s\n", style.Fg(color.Purple)(m.Type), style.Faint(util.Quantify(len(variants), "variant", "variants")))
		for _, v := range variants {
			cmd.Printf("  %-8s %8d  %s\n", v.Name, v.Bandwidth, v.URL)
		}
	}
}

// rendition is a labelled playable URL.
type rendition struct {
	Label string
	URL   string
}

func renditions(d *stream.Descriptor) []rendition {
	var out []rendition

	for _, p := range d.Progressive {
		out = append(out, rendition{
			Label: fmt.Sprintf("%s (%dx%d, %.0f kbps)", p.Name, p.Width, p.Height, p.VideoBitrate),
			URL:   p.Source,
		})
	}

	for _, m := range d.Manifests {
		out = append(out, rendition{Label: m.Type + " manifest", URL: m.URL()})
	}

	for _, r := range d.LiveResolutions {
		out = append(out, rendition{Label: "live " + r.Name, URL: r.URL})
	}

	return out
}

func selectRendition(d *stream.Descriptor) (string, error) {
	options := renditions(d)
	if len(options) == 0 {
		return "", fmt.Errorf("video %d has no renditions", d.VideoSeq)
	}

	var index int
	prompt := &survey.Select{
		Message: "Select a rendition",
		Options: lo.Map(options, func(r rendition, _ int) string { return r.Label }),
	}
	if err := survey.AskOne(prompt, &index, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)); err != nil {
		return "", err
	}

	return options[index].URL, nil
}

func playURL(ctx context.Context, d *stream.Descriptor, url string) error {
	p, err := player.FromConfig()
	if err != nil {
		return err
	}

	title := lo.Ternary(d.Meta.Subject != "", d.Meta.Subject, fmt.Sprintf("V LIVE %d", d.VideoSeq))
	fmt.Fprintf(os.Stderr, "%s Playing %s\n", icon.Get(icon.Progress), style.Bold(title))

	return p.Play(ctx, player.Media{
		URL:   url,
		Title: title,
		Headers: map[string]string{
			"User-Agent": viper.GetString(key.NetworkUserAgent),
			"Referer":    endpoints().VideoURL(d.VideoSeq),
		},
	})
}

func renderDescriptor(d *stream.Descriptor) string {
	var b strings.Builder

	mark, tag := icon.Get(icon.VOD), style.VODTag(string(state.VOD))
	if d.Kind == state.LIVE {
		mark, tag = icon.Get(icon.Live), style.LiveTag(string(state.LIVE))
	}

	title := lo.Ternary(d.Meta.Subject != "", d.Meta.Subject, strconv.FormatUint(d.VideoSeq, 10))
	fmt.Fprintf(&b, "%s %s %s %s\n", mark, tag, style.Bold(title), style.Faint(fmt.Sprintf("#%d", d.VideoSeq)))

	for _, r := range renditions(d) {
		fmt.Fprintf(&b, "  %s %s\n", style.Fg(color.Yellow)(r.Label), r.URL)
	}

	if len(d.Captions) > 0 {
		labels := lo.Map(d.Captions, func(c stream.Caption, _ int) string { return c.Label })
		fmt.Fprintf(&b, "  %s %s\n", style.Fg(color.Cyan)("captions"), strings.Join(labels, ", "))
	}

	return b.String()
}

func init() {
	videoCmd.AddCommand(videoSchemaCmd)
}

// videoSchemaCmd generates the JSON schema of the --json output.
var videoSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the stream descriptor",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			switch t.Name() {
			case "Descriptor", "Meta", "Manifest":
				return "stream." + t.Name()
			}
			return t.Name()
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&stream.Descriptor{})))
	},
}
