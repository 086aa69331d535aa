package serve

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ferreirogomes/artshare/auth"
	"github.com/ferreirogomes/artshare/config"
	"github.com/ferreirogomes/artshare/handlers"
	"github.com/ferreirogomes/artshare/ledger"
	"github.com/ferreirogomes/artshare/services"
	"github.com/ferreirogomes/artshare/storage"
)

// openStore restaura o último checkpoint, ou cria um livro-razão novo.
func openStore(ctx context.Context, cfg config.Config, db *storage.DB) (*ledger.Store, error) {
	var opts []ledger.Option
	if !cfg.SeedSampleAsset {
		opts = append(opts, ledger.WithoutSeed())
	}
	if db == nil {
		return ledger.NewStore(opts...), nil
	}

	snap, found, err := db.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Info().Msg("nenhum checkpoint encontrado, iniciando livro-razão novo")
		return ledger.NewStore(opts...), nil
	}
	store, err := ledger.Restore(snap)
	if err != nil {
		return nil, errors.Wrap(err, "checkpoint inconsistente")
	}
	log.Info().Int("assets", len(snap.Assets)).Int("offers", len(snap.Offers)).
		Int("trades", len(snap.Trades)).Msg("livro-razão restaurado do checkpoint")
	return store, nil
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *storage.DB
	if cfg.DatabaseURL != "" {
		db, err = storage.NewDB(cfg.DatabaseURL, cfg.MigrationsDir)
		if err != nil {
			return err
		}
		defer db.Close()
	} else {
		log.Warn().Msg("DB_PG_URL não definido, estado mantido apenas em memória")
	}

	store, err := openStore(ctx, cfg, db)
	if err != nil {
		return err
	}

	svc := services.NewMarketplaceService(store, auth.ParseAllowlist(cfg.AdminPrincipals))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.NewRouter(svc, auth.NewVerifier(cfg.SignatureMaxSkew)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("servidor HTTP iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "servidor HTTP")
		}
		return nil
	})
	// drained fecha quando o servidor parou de atender requisições.
	drained := make(chan struct{})
	g.Go(func() error {
		<-ctx.Done()
		defer close(drained)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("encerrando servidor HTTP")
		return srv.Shutdown(shutdownCtx)
	})
	if db != nil {
		checkpointer := services.NewCheckpointer(svc, db, cfg.CheckpointInterval)
		g.Go(func() error {
			return checkpointer.Run(ctx, drained)
		})
	}

	return g.Wait()
}

var Command = &cli.Command{
	Name:   "serve",
	Usage:  "Sobe a API HTTP do livro-razão",
	Action: run,
}
