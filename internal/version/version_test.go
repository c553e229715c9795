package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	type TestCase struct {
		description string
		commit      string
		info        *debug.BuildInfo
		want        string
	}

	stamped := &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}}}

	testCases := []TestCase{
		{description: "development build", commit: "unknown", want: "development"},
		{description: "commit from ldflags", commit: "abc1234", info: stamped, want: "development+abc1234"},
		{description: "commit from vcs stamp", commit: "unknown", info: stamped, want: "development+0123456"},
		{description: "stamp without revision", commit: "unknown", info: &debug.BuildInfo{}, want: "development"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			orig := Commit
			t.Cleanup(func() { Commit = orig })
			Commit = testCase.commit

			got := format(Version, commit(func() (*debug.BuildInfo, bool) {
				return testCase.info, testCase.info != nil
			}))

			assert.Equal(t, testCase.want, got)
		})
	}
}
