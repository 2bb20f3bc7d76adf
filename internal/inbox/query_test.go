package inbox

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/inboxdesk/internal/models"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"Apr 24, 16:55 PM", time.Date(2026, 4, 24, 16, 55, 0, 0, time.UTC)},
		{"Apr 24, 4:55 PM", time.Date(2026, 4, 24, 16, 55, 0, 0, time.UTC)},
		{"Apr 24, 09:05", time.Date(2026, 4, 24, 9, 5, 0, 0, time.UTC)},
		{"Dec 31, 2025, 11:59 PM", time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)},
		{"2026-01-02T03:04:05Z", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	for _, tc := range cases {
		require.True(t, tc.want.Equal(ParseTimestamp(tc.in, 2026, time.UTC)), tc.in)
	}

	require.True(t, ParseTimestamp("yesterday-ish", 2026, time.UTC).IsZero())
	require.True(t, ParseTimestamp("", 2026, time.UTC).IsZero())
}

func TestFormatTimestampRoundTrips(t *testing.T) {
	at := time.Date(2026, 4, 25, 14, 7, 0, 0, time.UTC)
	require.True(t, at.Equal(ParseTimestamp(FormatTimestamp(at), 2026, time.UTC)))
}

func TestUnparsableTimestampsSortOldest(t *testing.T) {
	convs := []models.Conversation{{ID: "1", Type: "General"}}
	msgs := []models.Message{
		{ID: "a", ConversationID: "1", SentAt: time.Time{}},
		{ID: "b", ConversationID: "1", SentAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	out := QueryMessages(msgs, convs, Query{Filter: FilterAll, Sort: SortNewest})
	require.Equal(t, "b", out[0].ID)
	require.Equal(t, "a", out[1].ID)
}

func TestQueryIgnoresMessagesOfHiddenConversations(t *testing.T) {
	visible := []models.Conversation{{ID: "1", Type: "Order #1"}}
	msgs := []models.Message{
		{ID: "a", ConversationID: "1", Content: "x"},
		{ID: "b", ConversationID: "2", Content: "x"},
	}
	out := QueryMessages(msgs, visible, Query{Filter: FilterOrder, Sort: SortNewest})
	require.Len(t, out, 1)
	require.Equal(t, "a", out[0].ID)
}

func TestInitialsAndPreview(t *testing.T) {
	require.Equal(t, "TL", Initials("Tanya Lamba"))
	require.Equal(t, "AT", Initials("Admin Tanya Lamba"))
	require.Equal(t, "G", Initials("gurav"))
	require.Equal(t, "", Initials("  "))

	require.Equal(t, "short", Preview("short"))
	long := "We have the same medicine with the same composition available at a lower price"
	p := Preview(long)
	require.Equal(t, long[:50]+"...", p)

	exact := strings.Repeat("₹", 50)
	require.Equal(t, exact, Preview(exact))
	require.Equal(t, exact+"...", Preview(exact+"x"))
}

func TestParsers(t *testing.T) {
	v, err := ParseVariant("")
	require.NoError(t, err)
	require.Equal(t, VariantClassic, v)
	_, err = ParseVariant("fancy")
	require.ErrorIs(t, err, ErrUnknownVariant)

	l, err := ParseLabel("order billed")
	require.NoError(t, err)
	require.Equal(t, models.LabelOrderBilled, l)
	_, err = ParseLabel("Order Lost")
	require.ErrorIs(t, err, ErrUnknownLabel)

	r, err := ParseResolution("closed")
	require.NoError(t, err)
	require.Equal(t, models.Closed, r)

	sv, err := ParseSubView("Profile")
	require.NoError(t, err)
	require.Equal(t, SubViewProfile, sv)
}
