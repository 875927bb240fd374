package wlserial

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Mode selects the text tag EncodeText emits, which tags DecodeText accepts,
// and by convention which symbol table the caller built the codec with.
type Mode int

const (
	ModeStandard  Mode = iota // WL(...)
	ModeLegacy                // TTW(...)
	ModeAlternate             // WLR(...), redux tables
)

const (
	tagLegacy    = "TTW"
	tagStandard  = "WL"
	tagAlternate = "WLR"
)

func (m Mode) Tag() string {
	switch m {
	case ModeLegacy:
		return tagLegacy
	case ModeAlternate:
		return tagAlternate
	default:
		return tagStandard
	}
}

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeLegacy:
		return "legacy"
	case ModeAlternate:
		return "alternate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts a mode name or its tag, case-insensitively.
// "redux" is an alias for alternate.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "wl":
		return ModeStandard, nil
	case "legacy", "ttw":
		return ModeLegacy, nil
	case "alternate", "redux", "wlr":
		return ModeAlternate, nil
	}
	return 0, fmt.Errorf("wlserial: unknown mode %q", s)
}

// accepts reports whether tag may prefix a serial read in mode m.
// Legacy and standard tags are always accepted.
func (m Mode) accepts(tag string) bool {
	switch strings.ToUpper(tag) {
	case tagLegacy, tagStandard:
		return true
	case tagAlternate:
		return m == ModeAlternate
	}
	return false
}

// Wrap formats b as TAG(base64).
func (m Mode) Wrap(b []byte) string {
	return m.Tag() + "(" + base64.StdEncoding.EncodeToString(b) + ")"
}

// Unwrap validates the TAG(...) envelope and base64-decodes its content.
// The tag is checked before any decoding is attempted.
func (m Mode) Unwrap(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open <= 0 {
		return nil, &MalformedTextError{Text: s, Reason: "missing TAG( prefix"}
	}
	tag := s[:open]
	if !m.accepts(tag) {
		return nil, &MalformedTextError{Text: s, Reason: fmt.Sprintf("unrecognized tag %q", tag)}
	}
	if !strings.HasSuffix(s, ")") {
		return nil, &MalformedTextError{Text: s, Reason: "missing closing parenthesis"}
	}
	payload := s[open+1 : len(s)-1]
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// pasted serials sometimes lose their padding
		if raw, rerr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rerr == nil {
			return raw, nil
		}
		return nil, &MalformedTextError{Text: s, Reason: "bad base64", Err: err}
	}
	return b, nil
}

// FindSerials returns every TAG(...) serial accepted by m in text, in order
// of appearance. The envelopes are returned as written; nothing is decoded.
// A tag may be glued to a preceding word ("xWL(...)"); the longest accepted
// tag ending at the parenthesis wins. An envelope holding another "(" is not
// a serial, but a serial nested inside it is still found.
func FindSerials(text string, m Mode) []string {
	var out []string
	for i := 0; i < len(text); i++ {
		if text[i] != '(' {
			continue
		}
		start := tagStart(text, i, m)
		if start < 0 {
			continue
		}
		end := strings.IndexAny(text[i+1:], "()")
		if end < 0 {
			break
		}
		if text[i+1+end] == '(' {
			continue
		}
		out = append(out, text[start:i+end+2])
		i += end + 1
	}
	return out
}

var tagsByLength = []string{tagAlternate, tagLegacy, tagStandard}

// tagStart returns where the longest tag accepted by m that ends at open
// begins, or -1.
func tagStart(text string, open int, m Mode) int {
	for _, tag := range tagsByLength {
		start := open - len(tag)
		if start < 0 {
			continue
		}
		if cand := text[start:open]; strings.EqualFold(cand, tag) && m.accepts(cand) {
			return start
		}
	}
	return -1
}
