package log_test

import (
	"bytes"
	"errors"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/wlserial"
	wllogrus "github.com/unkn0wn-root/wlserial/log/logrus"
	wlslog "github.com/unkn0wn-root/wlserial/log/slog"
	wlzap "github.com/unkn0wn-root/wlserial/log/zap"
)

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := wlzap.New(zap.New(core))
	l.Warn("unexpected serial sentinel", wlserial.Fields{"got": uint32(7), "err": errors.New("boom")})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries: got %d want 1", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "wlserial" || e.Message != "unexpected serial sentinel" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	ctx := e.ContextMap()
	if ctx["got"] != uint32(7) || ctx["err"] != "boom" {
		t.Fatalf("fields: %v", ctx)
	}
}

func TestLogrusAdapter(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.JSONFormatter{})

	wllogrus.New(base).Debug("dropping unresolved part", wlserial.Fields{"part": "Part_A"})
	out := buf.String()
	for _, want := range []string{`"component":"wlserial"`, `"part":"Part_A"`, `"level":"debug"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := wlslog.Logger{L: stdslog.New(stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelInfo}))}
	l.Debug("hidden", nil)
	l.Info("shown", wlserial.Fields{"mode": "standard"})
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "mode=standard") {
		t.Fatalf("unexpected output: %q", out)
	}
}
