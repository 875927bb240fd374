package wlserial

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapUnwrap(t *testing.T) {
	payload := []byte{5, 0, 0, 0, 0, 1, 2, 3}
	for _, m := range []Mode{ModeStandard, ModeLegacy, ModeAlternate} {
		s := m.Wrap(payload)
		require.Equal(t, m.Tag()+"("+base64.StdEncoding.EncodeToString(payload)+")", s)
		got, err := m.Unwrap(s)
		require.NoError(t, err, m.String())
		require.Equal(t, payload, got)
	}
}

func TestUnwrapAcceptsTags(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString([]byte("abc"))
	cases := []struct {
		mode Mode
		text string
		ok   bool
	}{
		{ModeStandard, "WL(" + b64 + ")", true},
		{ModeStandard, "TTW(" + b64 + ")", true},
		{ModeStandard, "wl(" + b64 + ")", true},
		{ModeStandard, "WLR(" + b64 + ")", false},
		{ModeLegacy, "WLR(" + b64 + ")", false},
		{ModeAlternate, "WLR(" + b64 + ")", true},
		{ModeAlternate, "TTW(" + b64 + ")", true},
		{ModeStandard, "BL3(" + b64 + ")", false},
		{ModeStandard, "  WL(" + b64 + ")\n", true},
	}
	for _, tc := range cases {
		_, err := tc.mode.Unwrap(tc.text)
		if tc.ok {
			require.NoError(t, err, "%s %q", tc.mode, tc.text)
		} else {
			require.ErrorIs(t, err, ErrMalformedText, "%s %q", tc.mode, tc.text)
		}
	}
}

func TestUnwrapRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "WL", "(abc)", "WL(YWJj", "WL(!!!)"} {
		_, err := ModeStandard.Unwrap(s)
		var me *MalformedTextError
		require.True(t, errors.As(err, &me), "%q: %v", s, err)
	}
}

func TestUnwrapToleratesMissingPadding(t *testing.T) {
	got, err := ModeStandard.Unwrap("WL(YWI)") // "ab" without "="
	require.NoError(t, err)
	require.Equal(t, []byte("ab"), got)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"":          ModeStandard,
		"WL":        ModeStandard,
		"legacy":    ModeLegacy,
		"TTW":       ModeLegacy,
		"redux":     ModeAlternate,
		"Alternate": ModeAlternate,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseMode("bl3")
	require.Error(t, err)
	require.Equal(t, "Mode(9)", Mode(9).String())
}

func TestFindSerials(t *testing.T) {
	text := "trade WL(AAAA) for TTW(BBBB)? also WLR(CCCC) and (DDDD) and xWL(EEEE) and WL(open"
	require.Equal(t, []string{"WL(AAAA)", "TTW(BBBB)", "WL(EEEE)"}, FindSerials(text, ModeStandard))
	require.Equal(t, []string{"WL(AAAA)", "TTW(BBBB)", "WLR(CCCC)", "WL(EEEE)"}, FindSerials(text, ModeAlternate))
	require.Nil(t, FindSerials("nothing here", ModeStandard))
}

func TestFindSerialsGluedAndNested(t *testing.T) {
	text := "Serial:WL(AAAA) xWL(BBBB) TTW(WL(CC)) wl(DD)"
	require.Equal(t, []string{"WL(AAAA)", "WL(BBBB)", "WL(CC)", "wl(DD)"}, FindSerials(text, ModeStandard))

	// WLR is not read as a shorter tag when alternate mode is off
	require.Nil(t, FindSerials("xWLR(AAAA)", ModeStandard))
	require.Equal(t, []string{"WLR(AAAA)"}, FindSerials("xWLR(AAAA)", ModeAlternate))
}

func TestTextRoundTrip(t *testing.T) {
	c := newTestCodec(t, func(o *Options) { o.Mode = ModeAlternate })
	s, err := c.EncodeText(scenarioItem(), 99)
	require.NoError(t, err)
	require.Equal(t, "WLR(", s[:4])

	it, err := c.DecodeText(s)
	require.NoError(t, err)
	require.Equal(t, uint32(99), it.Seed)
	require.Equal(t, uint8(10), it.Level)

	std := newTestCodec(t, nil)
	_, err = std.DecodeText(s)
	require.ErrorIs(t, err, ErrMalformedText)
}
