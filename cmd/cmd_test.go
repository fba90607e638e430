package cmd

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlive-go/vlive/fault"
	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/state"
	"github.com/vlive-go/vlive/stream"
	"github.com/vlive-go/vlive/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestParseSeqs(t *testing.T) {
	Convey("Given video seq arguments", t, func() {
		seqs, err := parseSeqs([]string{"232024", " 70738 "})
		So(err, ShouldBeNil)
		So(seqs, ShouldResemble, []uint64{232024, 70738})

		_, err = parseSeqs([]string{"232024", "-1"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, `"-1"`)
	})
}

func TestExitCode(t *testing.T) {
	Convey("Not-live errors get their own exit code", t, func() {
		notLive := fault.New(fault.ErrNotCurrentlyLive, fault.StageAssembling, "live", nil)
		So(exitCode(notLive), ShouldEqual, exitNotOnAir)
		So(exitCode(errors.New("boom")), ShouldEqual, exitFailure)
		So(exitCode(fault.Transport(fault.StageFetching, "page", errors.New("reset"))), ShouldEqual, exitFailure)
	})
}

func TestErrHint(t *testing.T) {
	Convey("Errors get a hint where one helps", t, func() {
		So(errHint(fault.Transport(fault.StageFetching, "page", context.DeadlineExceeded)), ShouldContainSubstring, "network.timeout")
		So(errHint(fault.New(fault.ErrNotCurrentlyLive, fault.StageAssembling, "live", nil)), ShouldContainSubstring, "not on air")
		So(errHint(fault.Status(fault.ErrKeyResolution, fault.StageResolvingKey, "inkey", 500, nil)), ShouldContainSubstring, "try again")
		So(errHint(fault.New(fault.ErrMalformedState, fault.StageExtracting, "preloaded-state", nil)), ShouldBeEmpty)
		So(errHint(errors.New("plain")), ShouldBeEmpty)
	})
}

func TestRenditions(t *testing.T) {
	Convey("Given a recorded video", t, func() {
		d, err := stream.NewVOD(232024, stream.Meta{Subject: "Run BTS!"},
			[]stream.Progressive{{Name: "720P", Width: 1280, Height: 720, VideoBitrate: 2000, Source: "https://cdn/720.mp4"}},
			[]stream.Manifest{{Type: "HLS", Source: "https://cdn/master.m3u8", KeyName: "__gda__", KeyValue: "k"}},
			nil,
		)
		So(err, ShouldBeNil)

		Convey("Then progressive files come before manifests", func() {
			r := renditions(d)
			So(r, ShouldHaveLength, 2)
			So(r[0].URL, ShouldEqual, "https://cdn/720.mp4")
			So(r[0].Label, ShouldStartWith, "720P")
			So(r[1].URL, ShouldEqual, "https://cdn/master.m3u8?__gda__=k")
		})

		Convey("Then the rendering names the video", func() {
			So(renderDescriptor(d), ShouldContainSubstring, "Run BTS!")
			So(renderDescriptor(d), ShouldContainSubstring, "https://cdn/720.mp4")
		})
	})

	Convey("Given a live broadcast", t, func() {
		d, err := stream.NewLive(70738, "ON_AIR", stream.Meta{}, []stream.LiveResolution{{Name: "720p", Height: 720, URL: "https://live/720.m3u8"}})
		So(err, ShouldBeNil)
		So(d.Kind, ShouldEqual, state.LIVE)

		r := renditions(d)
		So(r, ShouldHaveLength, 1)
		So(r[0].Label, ShouldEqual, "live 720p")
	})
}

func TestEnvVars(t *testing.T) {
	Convey("Every exposed key has a prefixed variable", t, func() {
		vars := envVars()
		So(vars, ShouldContain, "VLIVE_NETWORK_USER_AGENT")
		So(vars, ShouldContain, "VLIVE_ENDPOINTS_VIDEO")
		So(vars, ShouldContain, where.EnvConfigPath)
	})
}

func TestParseValue(t *testing.T) {
	Convey("Values are parsed by the type of their default", t, func() {
		v, err := parseValue("network.timeout", []string{"10"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 10)

		v, err = parseValue("network.tls_fingerprint", []string{"true"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, true)

		v, err = parseValue("network.user_agent", []string{"curl/8.0", "(test)"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "curl/8.0 (test)")

		_, err = parseValue("network.timeout", []string{"soon"})
		So(err, ShouldNotBeNil)
	})

	Convey("Unknown keys suggest the closest one", t, func() {
		So(errUnknownKey("network.timout").Error(), ShouldContainSubstring, "network.timeout")
	})
}
