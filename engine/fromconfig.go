package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/fxsim/config"
	"github.com/quantfold/fxsim/correlation"
	"github.com/quantfold/fxsim/crossmarket"
	"github.com/quantfold/fxsim/feed"
	"github.com/quantfold/fxsim/journal"
	"github.com/quantfold/fxsim/market"
	"github.com/quantfold/fxsim/metrics"
	"github.com/quantfold/fxsim/news"
	"github.com/quantfold/fxsim/sizing"
)

// FromConfig builds a ready-to-run engine from a validated config.
func FromConfig(cfg config.Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	store, err := market.LoadBars(cfg.Data.Bars, cfg.Instrument, market.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("engine: load bars: %w", err)
	}
	feeder := feed.New(store)

	if cfg.Episode.RandomStart && store.Len() > 1 {
		seed := cfg.Episode.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		offset := rng.Intn(store.Len() - 1)
		if err := feeder.ResetAt(offset); err != nil {
			return nil, err
		}
		log.Info("episode starts mid-series",
			zap.Int("offset", offset), zap.Int64("seed", seed))
	}

	components := sizing.Components{}

	if cfg.Components.Session.Enabled {
		components.Session = sizing.SessionComponent{BaseSpread: cfg.Components.Session.BaseSpread}
	}

	var newsTracker *news.Tracker
	if cfg.Components.News.Enabled && cfg.Data.Calendar != "" {
		events, err := news.LoadCalendar(cfg.Data.Calendar)
		if err != nil {
			return nil, fmt.Errorf("engine: load calendar: %w", err)
		}
		newsCfg, err := newsConfigFromOverrides(cfg.Components.News)
		if err != nil {
			return nil, err
		}
		newsTracker, err = news.NewTracker(events, newsCfg)
		if err != nil {
			return nil, err
		}
		components.News = sizing.NewsComponent{Tracker: newsTracker}
		log.Info("calendar loaded", zap.Int("events", newsTracker.Len()))
	}

	var corrTracker *correlation.Tracker
	if cfg.Components.Correlation.Enabled {
		cc := cfg.Components.Correlation
		corrTracker, err = correlation.NewTracker(correlation.Config{
			Window:          cc.Window,
			RefreshEvery:    cc.RefreshEvery,
			MinObservations: cc.MinObservations,
			Floor:           cc.Floor,
		})
		if err != nil {
			return nil, err
		}
		components.Correlation = sizing.CorrelationComponent{Tracker: corrTracker}
	}

	var multiStore *crossmarket.MultiStore
	var agg *crossmarket.Aggregator
	if cfg.Components.CrossMarket.Enabled && len(cfg.Data.CrossMarket) > 0 {
		stores := make(map[string]*market.BarStore, len(cfg.Data.CrossMarket))
		for key, path := range cfg.Data.CrossMarket {
			name := key
			if i := strings.LastIndex(key, "/"); i >= 0 {
				name = key[i+1:]
			}
			s, err := market.LoadBars(path, name, market.LoadOptions{})
			if err != nil {
				return nil, fmt.Errorf("engine: load %s: %w", key, err)
			}
			stores[key] = s
		}
		multiStore, err = crossmarket.NewMultiStore(stores)
		if err != nil {
			return nil, err
		}
		agg = crossmarket.NewAggregator(crossmarket.DefaultDetectors()...)
		components.CrossMarket = sizing.CrossMarketComponent{Store: multiStore, Agg: agg}
		log.Info("cross-market series aligned",
			zap.Int("series", len(stores)), zap.Int("bars", multiStore.Len()))
	}

	pipeline, err := sizing.NewPipeline(sizing.Config{
		MinComposite:          cfg.Sizing.MinComposite,
		MaxComposite:          cfg.Sizing.MaxComposite,
		BlockedUnwindFraction: cfg.Sizing.BlockedUnwindFraction,
	}, components)
	if err != nil {
		return nil, err
	}

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return nil, err
	}

	var set *metrics.Set
	if cfg.Metrics.Enabled {
		set = metrics.NewSet()
	}

	return New(Options{
		Instrument:       cfg.Instrument,
		ProposedUnits:    cfg.ProposedUnits,
		Lookback:         cfg.Lookback,
		MaxSteps:         cfg.Episode.MaxSteps,
		Feeder:           feeder,
		Pipeline:         pipeline,
		News:             newsTracker,
		Correlation:      corrTracker,
		CrossMarketStore: multiStore,
		CrossMarketAgg:   agg,
		Journal:          jnl,
		Metrics:          set,
		Logger:           log,
	})
}

func newsConfigFromOverrides(nc config.News) (news.Config, error) {
	cfg := news.DefaultConfig()
	for raw, minutes := range nc.PreWindowMinutes {
		imp, err := news.ParseImpact(raw)
		if err != nil {
			return cfg, err
		}
		cfg.PreWindow[imp] = time.Duration(minutes) * time.Minute
	}
	for raw, minutes := range nc.PostWindowMinutes {
		imp, err := news.ParseImpact(raw)
		if err != nil {
			return cfg, err
		}
		cfg.PostWindow[imp] = time.Duration(minutes) * time.Minute
	}
	return cfg, nil
}

func openJournal(jc config.Journal) (journal.Journal, error) {
	switch strings.ToLower(jc.Type) {
	case "", "none":
		return journal.Nop{}, nil
	case "sqlite":
		return journal.OpenSQLite(jc.Path)
	case "csv":
		return journal.OpenCSV(jc.StepsPath, jc.EpisodesPath)
	default:
		return nil, fmt.Errorf("engine: unknown journal type %q", jc.Type)
	}
}
