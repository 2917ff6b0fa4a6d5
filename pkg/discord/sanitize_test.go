package discord

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Sanitize_NeutralizesMentions(t *testing.T) {
	got := Sanitize("hello @everyone and <@123>", 0)

	require.NotContains(t, got, "@everyone")
	require.NotContains(t, got, "<@123>")
	require.Equal(t, 2, strings.Count(got, "@"+zeroWidthSpace))
}

func Test_Sanitize_TruncatesToLimit(t *testing.T) {
	long := strings.Repeat("@", 3000)
	got := Sanitize(long, 0)

	require.Equal(t, DefaultMaxContentLength, len([]rune(got)))

	short := Sanitize("una pregunta más", 4)
	require.Equal(t, "una ", short)
}

func Test_Sanitize_TruncationKeepsMentionsNeutralized(t *testing.T) {
	// The limit lands exactly between the "@" and its zero-width space; the
	// bare "@" must not survive.
	got := Sanitize("abc@", 4)
	require.Equal(t, "abc", got)

	got = Sanitize("abc@d", 5)
	require.False(t, strings.HasSuffix(got, "@"))
}

func Test_Sanitize_LeavesCleanContentAlone(t *testing.T) {
	require.Equal(t, "plain answer", Sanitize("plain answer", 1800))
}
