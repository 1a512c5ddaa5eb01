package cmd

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/uideck/internal/assistant"
	"github.com/oakwood-commons/uideck/internal/catalog"
	"github.com/oakwood-commons/uideck/internal/celx"
	"github.com/oakwood-commons/uideck/internal/config"
	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/formview"
	"github.com/oakwood-commons/uideck/internal/itemview"
	"github.com/oakwood-commons/uideck/internal/listview"
	"github.com/oakwood-commons/uideck/internal/metrics"
	"github.com/oakwood-commons/uideck/internal/mockdata"
	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui"
	"github.com/oakwood-commons/uideck/pkg/loader"
	"github.com/oakwood-commons/uideck/pkg/logger"
	"github.com/oakwood-commons/uideck/pkg/settings"
)

type appOptions struct {
	// snapshot drops the simulated latency and tool delay.
	snapshot bool
	// recorder receives metrics; nil means none.
	recorder metrics.Recorder
}

// app holds the services shared by every command.
type app struct {
	ctx        context.Context
	cfg        config.Config
	styles     theme.Styles
	log        logr.Logger
	store      *mockdata.Store
	source     mockdata.Source
	recorder   metrics.Recorder
	eval       *celx.Evaluator
	dispatcher *dispatch.Dispatcher
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	run, ok := settings.FromContext(ctx)
	if !ok {
		run = settings.NewCliParams()
	}
	lgr := *logger.FromContext(ctx)

	cfg, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}
	styles, err := selectStyles(cfg, themeName, run.NoColor)
	if err != nil {
		return nil, err
	}

	lat := run.EffectiveLatency(cfg.Latency(mockdata.DefaultLatency))
	if opts.snapshot {
		lat = 0
	}
	storeOpts := []mockdata.Option{mockdata.WithLatency(lat)}
	if path := firstNonEmpty(seedFile, cfg.App.SeedFile); path != "" {
		seed, err := loader.SeedYAML(expandHome(path))
		if err != nil {
			return nil, fmt.Errorf("--seed: %w", err)
		}
		storeOpts = append(storeOpts, mockdata.WithSeed(seed))
		lgr.V(1).Info("using seed file", "path", path)
	}
	store, err := mockdata.NewStore(storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("load seed data: %w", err)
	}
	rec := opts.recorder
	if rec == nil {
		rec = metrics.Noop{}
	}
	eval, err := celx.Default()
	if err != nil {
		return nil, fmt.Errorf("init CEL: %w", err)
	}

	a := &app{
		ctx:      ctx,
		cfg:      cfg,
		styles:   styles,
		log:      lgr,
		store:    store,
		source:   metrics.InstrumentSource(store, rec),
		recorder: rec,
		eval:     eval,
	}
	listLayout, _ := listview.ParseLayout(cfg.App.DefaultListLayout)
	itemLayout, _ := itemview.ParseLayout(cfg.App.DefaultItemLayout)
	a.dispatcher = dispatch.New(a.source, catalog.New(lgr.WithName("catalog")), dispatch.Options{
		ListLayout:      listLayout,
		ItemLayout:      itemLayout,
		SuccessDuration: cfg.SuccessDuration(formview.DefaultSuccessDuration),
		Recorder:        rec,
		Evaluator:       eval,
		Logger:          lgr.WithName("dispatch"),
		Context:         ctx,
		Styles:          &a.styles,
	})
	lgr.V(1).Info("app ready", "latency", lat.String(), "theme", themeName)
	return a, nil
}

// model builds the root UI model.
func (a *app) model(chat bool) *ui.Model {
	toolDelay := a.cfg.ToolDelay(ui.DefaultToolDelay)
	if renderSnapshot {
		toolDelay = 0
	}
	return ui.NewModel(ui.Options{
		Dispatcher:       a.dispatcher,
		Agent:            assistant.NewRuleAgent(),
		Styles:           a.styles,
		Title:            a.cfg.App.Title,
		Tagline:          a.cfg.App.Tagline,
		ChatEnabled:      chat && a.cfg.ChatEnabled(),
		ChatWidthPercent: a.cfg.UI.Chat.WidthPercent,
		ToolDelay:        toolDelay,
		Logger:           a.log.WithName("ui"),
		Context:          a.ctx,
	})
}
