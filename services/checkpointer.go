package services

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ferreirogomes/artshare/models"
)

// Persister grava o estado completo do livro-razão.
type Persister interface {
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error
}

// Checkpointer grava periodicamente o estado quando houve mutações desde a última gravação.
type Checkpointer struct {
	svc       *MarketplaceService
	persister Persister
	interval  time.Duration

	mu    sync.Mutex
	saved uint64
}

// NewCheckpointer cria o gravador periódico. A revisão inicial do serviço é
// considerada já persistida.
func NewCheckpointer(svc *MarketplaceService, persister Persister, interval time.Duration) *Checkpointer {
	return &Checkpointer{
		svc:       svc,
		persister: persister,
		interval:  interval,
		saved:     svc.Revision(),
	}
}

// Run grava a cada intervalo até o contexto terminar. A última gravação
// espera drained ser fechado, para incluir as mutações das requisições que
// ainda estavam em curso; drained nil grava logo.
func (c *Checkpointer) Run(ctx context.Context, drained <-chan struct{}) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if drained != nil {
				<-drained
			}
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return c.Flush(flushCtx)
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				log.Error().Err(err).Msg("falha ao gravar checkpoint")
			}
		}
	}
}

// Flush grava o estado se a revisão mudou.
func (c *Checkpointer) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rev := c.svc.Revision()
	if rev == c.saved {
		return nil
	}
	snap := c.svc.Snapshot()
	if err := c.persister.SaveSnapshot(ctx, snap); err != nil {
		return errors.Wrapf(err, "checkpoint da revisão %d", rev)
	}
	c.saved = rev
	log.Debug().Uint64("revision", rev).Int("assets", len(snap.Assets)).
		Int("holdings", len(snap.Holdings)).Msg("checkpoint gravado")
	return nil
}
