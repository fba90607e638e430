package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vlive-go/vlive/filesystem"
	"github.com/vlive-go/vlive/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetString(key.EndpointsAppID), ShouldEqual, "8c6cc7b45d2568fb668be6e05b6e5a3b")
			So(viper.GetString(key.NetworkUserAgent), ShouldNotBeEmpty)
		})

		Convey("Should read overrides from the environment", func() {
			t.Setenv("VLIVE_ENDPOINTS_GCC", "US")
			_ = Setup()
			So(viper.GetString(key.EndpointsGCC), ShouldEqual, "US")
		})

		Convey("Defaults should be valid", func() {
			So(Setup(), ShouldBeNil)
			So(Validate(), ShouldBeNil)
		})

		Convey("Validate should reject values that break every request", func() {
			So(Setup(), ShouldBeNil)

			cases := map[string]any{
				key.EndpointsBoards:    "vam-web/board",
				key.EndpointsVideo:     "",
				key.EndpointsAppID:     "",
				key.NetworkTimeout:     0,
				key.ResolveConcurrency: -1,
			}

			for k, v := range cases {
				Convey(k, func() {
					viper.Set(k, v)
					defer viper.Set(k, Default[k].Value)

					err := Validate()
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, k)
				})
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("endpoints.vod_play"), ShouldEqual, "endpoints_vod_play")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Field", t, func() {
		f := Default[key.NetworkTimeout]

		Convey("Env name carries the application prefix", func() {
			So(f.Env(), ShouldEqual, "VLIVE_NETWORK_TIMEOUT")
		})

		Convey("JSON includes the type", func() {
			b, err := f.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"type":"int"`)
		})
	})
}
