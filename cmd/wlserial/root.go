package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/wlserial"
	"github.com/unkn0wn-root/wlserial/codec"
	asynchook "github.com/unkn0wn-root/wlserial/hooks/async"
	"github.com/unkn0wn-root/wlserial/internal/config"
	wlzap "github.com/unkn0wn-root/wlserial/log/zap"
	pr "github.com/unkn0wn-root/wlserial/provider"
	bcprov "github.com/unkn0wn-root/wlserial/provider/bigcache"
	redisprov "github.com/unkn0wn-root/wlserial/provider/redis"
	rprov "github.com/unkn0wn-root/wlserial/provider/ristretto"
	"github.com/unkn0wn-root/wlserial/sloghooks"
	"github.com/unkn0wn-root/wlserial/symbols"
)

const maxSnapshotSize = 64 << 20

// app carries what every subcommand needs. Heavy pieces are opened lazily so
// commands that only talk to redis never read a symbol file.
type app struct {
	in      io.Reader
	out     io.Writer
	environ map[string]string // nil => process environment

	cfg   config.Config
	mode  wlserial.Mode
	log   *zap.Logger
	hooks *asynchook.Hooks

	codec   *wlserial.Codec
	cache   *wlserial.DecodeCache
	closers []func(context.Context) error
}

func newRootCmd(in io.Reader, out io.Writer, environ map[string]string) *cobra.Command {
	a := &app{in: in, out: out, environ: environ}

	root := &cobra.Command{
		Use:   "wlserial",
		Short: "Decode and encode item serials",
		Long: `wlserial converts item serials between their TAG(base64) text form and
an editable JSON record, using a symbol dataset for the active mode.

Settings come from WLSERIAL_* environment variables; flags override them.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String("mode", "", "serial mode: standard, legacy or alternate")
	pf.String("symbols", "", "symbol dataset file")
	pf.String("symbols-format", "", "dataset format: json, msgpack or cbor")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("cache", "", "decode cache: none, ristretto or bigcache")
	pf.String("cache-format", "", "cached item encoding: msgpack, cbor or proto")
	pf.String("redis-addr", "", "redis address for symbol snapshots")

	root.AddCommand(newDecodeCmd(a), newEncodeCmd(a), newFindCmd(a), newSymbolsCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg config.Config
		err error
	)
	if a.environ != nil {
		cfg, err = config.ParseMap(a.environ)
	} else {
		cfg, err = config.ParseEnv()
	}
	if err != nil {
		return err
	}

	fl := cmd.Flags()
	for name, dst := range map[string]*string{
		"mode":           &cfg.Mode,
		"symbols":        &cfg.Symbols,
		"symbols-format": &cfg.SymbolsFormat,
		"log-level":      &cfg.LogLevel,
		"cache":          &cfg.Cache,
		"cache-format":   &cfg.CacheFormat,
		"redis-addr":     &cfg.RedisAddr,
	} {
		if fl.Changed(name) {
			*dst, _ = fl.GetString(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if a.mode, err = wlserial.ParseMode(cfg.Mode); err != nil {
		return err
	}
	a.cfg = cfg

	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.OutputPaths = []string{"stderr"}
	if a.log, err = zc.Build(); err != nil {
		return err
	}
	a.closers = append(a.closers, func(context.Context) error {
		_ = a.log.Sync()
		return nil
	})
	return nil
}

// run wraps a command body so resources are released even when it fails.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := a.close(cmd.Context()); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args)
	}
}

func (a *app) close(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// redis returns a provider for the configured redis, or nil when none is set.
func (a *app) redis() (pr.Provider, error) {
	if a.cfg.RedisAddr == "" {
		return nil, nil
	}
	p, err := redisprov.New(redisprov.Config{
		Client:      goredis.NewClient(&goredis.Options{Addr: a.cfg.RedisAddr}),
		Prefix:      a.cfg.RedisPrefix,
		CloseClient: true,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, p.Close)
	return p, nil
}

func (a *app) table(ctx context.Context) (*symbols.Static, error) {
	dc, err := a.cfg.DatasetCodec()
	if err != nil {
		return nil, err
	}
	if a.cfg.Symbols != "" {
		raw, err := os.ReadFile(a.cfg.Symbols)
		if err != nil {
			return nil, err
		}
		return symbols.Load(dc, raw)
	}
	p, err := a.redis()
	if err != nil {
		return nil, err
	}
	a.log.Debug("fetching symbol snapshot", zap.String("mode", a.mode.String()))
	return symbols.Fetch(ctx, p, codec.Limit[symbols.Dataset]{Inner: dc, MaxDecode: maxSnapshotSize}, a.mode.String())
}

// open builds the codec and, when configured, the decode cache.
func (a *app) open(ctx context.Context) error {
	if a.codec != nil {
		return nil
	}
	t, err := a.table(ctx)
	if err != nil {
		return fmt.Errorf("load symbols: %w", err)
	}

	opts := wlserial.Options{Symbols: t, Mode: a.mode, Logger: wlzap.New(a.log)}
	if a.log.Core().Enabled(zapcore.DebugLevel) {
		raw := sloghooks.New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})), sloghooks.Options{})
		a.hooks = asynchook.New(raw, 1, 256)
		a.closers = append(a.closers, func(context.Context) error {
			a.hooks.Close()
			return nil
		})
		opts.Hooks = a.hooks
	}
	if a.codec, err = wlserial.New(opts); err != nil {
		return err
	}

	var p pr.Provider
	switch strings.ToLower(a.cfg.Cache) {
	case "ristretto":
		rc := rprov.DefaultConfig()
		rc.Sync = true
		p, err = rprov.New(rc)
	case "bigcache":
		p, err = bcprov.New(ctx, bcprov.Config{})
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode cache: %w", err)
	}
	records, err := a.cfg.ItemCodec()
	if err != nil {
		return err
	}
	if a.cache, err = wlserial.NewDecodeCache(a.codec, wlserial.CacheOptions{Provider: p, Codec: records}); err != nil {
		return err
	}
	a.closers = append(a.closers, a.cache.Close)
	return nil
}

func (a *app) decodeText(ctx context.Context, s string) (*wlserial.Item, error) {
	if a.cache != nil {
		return a.cache.DecodeText(ctx, s)
	}
	return a.codec.DecodeText(s)
}
