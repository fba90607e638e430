// Package cmd implements the command-line interface for vlive.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/color"
	"github.com/vlive-go/vlive/config"
	"github.com/vlive-go/vlive/constant"
	"github.com/vlive-go/vlive/endpoint"
	"github.com/vlive-go/vlive/fault"
	"github.com/vlive-go/vlive/icon"
	"github.com/vlive-go/vlive/key"
	"github.com/vlive-go/vlive/log"
	"github.com/vlive-go/vlive/network"
	"github.com/vlive-go/vlive/style"
	"github.com/vlive-go/vlive/version"
)

// Exit codes. Scripts polling a broadcast can tell "not live yet" apart from a failure.
const (
	exitFailure  = 1
	exitNotOnAir = 3
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("fingerprint", false, "Mimic a desktop browser TLS fingerprint")
	lo.Must0(viper.BindPFlag(key.NetworkTLSFingerprint, rootCmd.PersistentFlags().Lookup("fingerprint")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd defines the entry point for the vlive application.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Resolve V LIVE videos into playable streams",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Resolve V LIVE videos into playable streams"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		_ = cmd.Help()
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(exitFailure)
	}
}

// fetcher builds the configured upstream client.
func fetcher() network.Fetcher {
	handleErr(config.Validate())

	timeout := time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second
	return network.NewHTTPFetcher(network.NewClient(timeout, viper.GetBool(key.NetworkTLSFingerprint)))
}

func endpoints() endpoint.Set {
	return endpoint.FromConfig()
}

func exitCode(err error) int {
	if errors.Is(err, fault.ErrNotCurrentlyLive) {
		return exitNotOnAir
	}
	return exitFailure
}

func printErr(err error) {
	log.WithFields(log.Fields{
		"stage":     fault.StageOf(err),
		"retryable": fault.Retryable(err),
	}).Error(err)

	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	if hint := errHint(err); hint != "" {
		_, _ = fmt.Fprintln(os.Stderr, style.Faint("  "+hint))
	}
}

// errHint suggests what to do about err.
func errHint(err error) string {
	var fe *fault.Error
	switch {
	case errors.As(err, &fe) && fe.Timeout():
		return fmt.Sprintf("the request timed out, try raising %s", key.NetworkTimeout)
	case errors.Is(err, fault.ErrNotCurrentlyLive):
		return "the broadcast is not on air, try again once it starts"
	case errors.Is(err, fault.ErrFormatNotFound):
		return "the page layout is not recognised, the video may have been removed"
	case fault.Retryable(err):
		return "this may be temporary, try again"
	default:
		return ""
	}
}

func handleErr(err error) {
	if err != nil {
		printErr(err)
		os.Exit(exitCode(err))
	}
}
