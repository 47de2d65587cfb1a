package main

import (
	"context"
	"io"

	"github.com/urfave/cli/v2"

	"katalog/app"
	"katalog/config"
	"katalog/logging"
	"katalog/persistence"
	"katalog/persistence/slot"
)

// runtime 一次命令执行期间的依赖
type runtime struct {
	cfg    *config.Config
	logger logging.Logger
	slot   slot.ISlot
	engine *app.Engine
	in     io.Reader
	out    io.Writer
}

type runtimeKey struct{}

func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "katalog",
		Usage:     "kelola katalog produk",
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "variant", Usage: "simple|extended (default: KATALOG_VARIANT)"},
			&cli.StringFlag{Name: "storage", Usage: "memory|file|sqlite|redis|nats (default: KATALOG_STORAGE)"},
			&cli.StringFlag{Name: "data-dir", Usage: "direktori data untuk storage file/sqlite"},
		},
		Before: setup,
		After:  teardown,

		// 退出码由 main 处理，便于在测试中运行
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			listCommand(),
			addCommand(),
			editCommand(),
			deleteCommand(),
			shellCommand(),
		},
	}
}

func setup(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	logger := cfg.NewLogger(c.App.ErrWriter)
	logging.SetLogger(logger)

	ctx := c.Context
	s, err := cfg.OpenSlot(ctx, logger)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	policy := cfg.Policy()
	gateway := persistence.NewGateway(s, policy.Seed, persistence.Options{Logger: logger})
	engine, err := app.NewEngine(ctx, gateway, policy,
		app.WithLogger(logger),
		app.WithWorkerID(cfg.WorkerID),
		app.WithNotifyTTL(cfg.NotifyTTL),
	)
	if err != nil {
		_ = slot.Close(s)
		return cli.Exit(err.Error(), 2)
	}

	rt := &runtime{cfg: cfg, logger: logger, slot: s, engine: engine, in: c.App.Reader, out: c.App.Writer}
	c.Context = context.WithValue(ctx, runtimeKey{}, rt)
	return nil
}

func teardown(c *cli.Context) error {
	if rt := fromContext(c); rt != nil {
		return slot.Close(rt.slot)
	}
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.IsSet("variant") {
		cfg.Variant = c.String("variant")
	}
	if c.IsSet("storage") {
		cfg.Storage = c.String("storage")
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
		cfg.SQLitePath = ""
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromContext(c *cli.Context) *runtime {
	if c == nil || c.Context == nil {
		return nil
	}
	rt, _ := c.Context.Value(runtimeKey{}).(*runtime)
	return rt
}
