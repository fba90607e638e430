package fault

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKinds(t *testing.T) {
	Convey("Kinds", t, func() {
		Convey("Extraction kinds belong to the extraction family", func() {
			So(errors.Is(ErrFormatNotFound, ErrExtraction), ShouldBeTrue)
			So(errors.Is(ErrMalformedState, ErrExtraction), ShouldBeTrue)
			So(errors.Is(ErrFormatNotFound, ErrMalformedState), ShouldBeFalse)
		})

		Convey("Stream kinds belong to the stream family", func() {
			So(errors.Is(ErrNotCurrentlyLive, ErrStreamResolution), ShouldBeTrue)
			So(errors.Is(ErrMetadataMalformed, ErrStreamResolution), ShouldBeTrue)
			So(errors.Is(ErrNotCurrentlyLive, ErrMetadataMalformed), ShouldBeFalse)
		})

		Convey("Every leaf kind is distinct", func() {
			for i, a := range Kinds {
				for j, b := range Kinds {
					if i != j {
						So(errors.Is(a, b), ShouldBeFalse)
					}
				}
			}
		})
	})
}

func TestError(t *testing.T) {
	Convey("Error", t, func() {
		Convey("Unwraps to the kind only", func() {
			cause := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
			err := Transport(StageFetching, "page", cause)

			So(errors.Is(err, ErrTransport), ShouldBeTrue)

			var opErr *net.OpError
			So(errors.As(err, &opErr), ShouldBeFalse)
			So(err.Error(), ShouldContainSubstring, "connection refused")
		})

		Convey("Carries stage and status", func() {
			err := Status(ErrKeyResolution, StageResolvingKey, "inkey", 500, []byte("boom"))
			So(KindOf(err), ShouldEqual, ErrKeyResolution)
			So(StageOf(err), ShouldEqual, StageResolvingKey)
			So(err.Error(), ShouldContainSubstring, "(HTTP 500)")
			So(err.Error(), ShouldContainSubstring, "boom")
		})

		Convey("Transport keeps an existing pipeline error", func() {
			inner := New(ErrMalformedState, StageExtracting, "preloaded-state", nil)
			So(Transport(StageFetching, "page", inner), ShouldEqual, inner)
		})

		Convey("Truncates long bodies", func() {
			err := Status(ErrMetadataMalformed, StageAssembling, "vod", 502, []byte(strings.Repeat("x", 1000)))
			So(len(err.Body), ShouldBeLessThan, 300)
		})

		Convey("Non-pipeline errors have no kind", func() {
			So(KindOf(errors.New("plain")), ShouldBeNil)
			So(StageOf(errors.New("plain")), ShouldEqual, Stage(""))
		})
	})
}

func TestRedact(t *testing.T) {
	Convey("Redact", t, func() {
		So(Redact(`{"inkey":"V1234secret"}`), ShouldNotContainSubstring, "V1234secret")
		So(Redact("https://x/y?key=abcdef&z=1"), ShouldEqual, "https://x/y?key=[REDACTED]&z=1")
		So(Redact("nothing to see"), ShouldEqual, "nothing to see")
	})
}

func TestClassification(t *testing.T) {
	Convey("Classification", t, func() {
		So(IsTimeout(context.DeadlineExceeded), ShouldBeTrue)
		So(IsTimeout(&net.DNSError{IsTimeout: true}), ShouldBeTrue)
		So(IsTimeout(errors.New("nope")), ShouldBeFalse)
		So(Transport(StageFetching, "page", context.DeadlineExceeded).Timeout(), ShouldBeTrue)
		So(New(ErrTransport, StageFetching, "page", nil).Timeout(), ShouldBeFalse)

		So(Retryable(New(ErrTransport, StageFetching, "", nil)), ShouldBeTrue)
		So(Retryable(New(ErrKeyResolution, StageResolvingKey, "", nil)), ShouldBeTrue)
		So(Retryable(New(ErrFormatNotFound, StageExtracting, "", nil)), ShouldBeFalse)
		So(Retryable(New(ErrNotCurrentlyLive, StageAssembling, "", nil)), ShouldBeFalse)
	})
}
