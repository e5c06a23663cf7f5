package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/herbe-rt/bancho/internal/bancho"
	"github.com/herbe-rt/bancho/internal/config"
	"github.com/herbe-rt/bancho/internal/crypto"
	"github.com/herbe-rt/bancho/internal/db"
	"github.com/herbe-rt/bancho/internal/geoloc"
	"github.com/herbe-rt/bancho/internal/metrics"
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/oui"
	"github.com/herbe-rt/bancho/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	var out io.Writer = os.Stdout
	if level <= zerolog.DebugLevel {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	log := zerolog.New(out).With().Timestamp().Logger().Level(level)

	log.Info().Msg("bancho starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(ctx, cfg.WriteDB.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info().Msg("database migrations applied")

	database, err := db.New(ctx, cfg.ReadDB.DSN(), cfg.WriteDB.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	log.Info().Msg("database connected")

	redisOpts, err := redis.ParseURL(cfg.RedisDSN())
	if err != nil {
		return fmt.Errorf("parsing redis dsn: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	log.Info().Msg("redis connected")

	kv := store.NewRedisKV(rdb)

	accounts := db.NewAccounts(database, log)
	statsRepo := db.NewStats(database, rdb, log)
	icons := db.NewIcons(database)

	sessions := store.NewSessions(kv, accounts, statsRepo, log)
	channels := store.NewChannels(kv, sessions, log)
	matches := store.NewMatches(kv, sessions, channels, log)

	seeds, err := config.LoadChannelSeeds(cfg.ChannelSeedPath)
	if err != nil {
		return fmt.Errorf("loading channel seeds: %w", err)
	}
	seeded := make([]model.Channel, 0, len(seeds))
	for _, seed := range seeds {
		seeded = append(seeded, model.Channel{
			Name:        seed.Name,
			Description: seed.Description,
			PublicRead:  seed.PublicRead,
			PublicWrite: seed.PublicWrite,
			AutoJoin:    seed.AutoJoin,
			Hidden:      seed.Hidden,
		})
	}
	if err := channels.Initialise(ctx, seeded); err != nil {
		return fmt.Errorf("seeding channels: %w", err)
	}
	log.Info().Int("channels", len(seeded)).Msg("channels seeded")

	resolver, err := geoloc.NewResolver(cfg.GeoIPPath, log)
	if err != nil {
		return fmt.Errorf("opening geolocation database: %w", err)
	}
	defer resolver.Close()

	m := metrics.New()

	router := bancho.NewRouter(bancho.Deps{
		Sessions: sessions,
		Channels: channels,
		Matches:  matches,
		Accounts: accounts,
		Stats:    statsRepo,
		Icons:    icons,
		Verifier: crypto.NewVerifier(),
		OUI:      oui.NewCache(cfg.OUICachePath, log),
		Metrics:  m,

		RestrictionMessage: cfg.RestrictionMessage,
		FrozenMessage:      cfg.FrozenMessage,

		Log: log,
	})

	server := bancho.NewServer(router, resolver, sessions, m, log)
	pubsub := bancho.NewPubSub(kv, router, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := pubsub.Run(gctx); err != nil {
			return fmt.Errorf("pubsub: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := server.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("bancho server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("bancho stopped")
	return nil
}
