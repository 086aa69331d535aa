package storage

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/ferreirogomes/artshare/models"
)

// DB representa a conexão com o banco de dados PostgreSQL.
type DB struct {
	*sqlx.DB
}

// NewDB conecta-se ao PostgreSQL e executa as migrações.
func NewDB(dataSourceName, migrationsDir string) (*DB, error) {
	db, err := Connect(dataSourceName)
	if err != nil {
		return nil, err
	}

	if _, err := db.Migrate(migrationsDir, migrate.Up); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Connect abre e testa a conexão, sem aplicar migrações.
func Connect(dataSourceName string) (*DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, errors.Wrap(err, "falha ao conectar ao banco de dados")
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "falha ao pingar o banco de dados")
	}
	log.Info().Msg("conexão com PostgreSQL estabelecida")
	return &DB{db}, nil
}

// Migrate aplica as migrações do diretório na direção pedida.
func (d *DB) Migrate(dir string, direction migrate.MigrationDirection) (int, error) {
	return runMigrations(d.DB.DB, dir, direction)
}

// runMigrations executa as migrações usando sql-migrate.
func runMigrations(db *sql.DB, dir string, direction migrate.MigrationDirection) (int, error) {
	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	n, err := migrate.Exec(db, "postgres", migrations, direction)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao aplicar migrações")
	}
	if n > 0 {
		log.Info().Int("count", n).Str("dir", dir).Msg("migrações aplicadas")
	} else {
		log.Info().Msg("nenhuma migração nova para aplicar")
	}
	return n, nil
}

// SaveSnapshot substitui todo o conteúdo das tabelas pelo snapshot, numa única transação.
func (d *DB) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "falha ao iniciar transação")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"trades", "offers", "holdings", "profiles", "assets", "ledger_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "falha ao limpar %s", table)
		}
	}

	for _, a := range snap.Assets {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO assets
			(id, title, artist, description, image_url, total_supply, price_per_token, verified, creator, created_at)
			VALUES (:id, :title, :artist, :description, :image_url, :total_supply, :price_per_token, :verified, :creator, :created_at)`, a); err != nil {
			return errors.Wrapf(err, "falha ao salvar obra %d", a.ID)
		}
	}
	for _, h := range snap.Holdings {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO holdings
			(asset_id, holder, tokens_held, cost_basis, purchased_at)
			VALUES (:asset_id, :holder, :tokens_held, :cost_basis, :purchased_at)`, h); err != nil {
			return errors.Wrapf(err, "falha ao salvar posição de %s na obra %d", h.Holder, h.Asset)
		}
	}
	for _, o := range snap.Offers {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO offers
			(id, asset_id, seller, tokens_offered, price_per_token, status, created_at, closed_at)
			VALUES (:id, :asset_id, :seller, :tokens_offered, :price_per_token, :status, :created_at, :closed_at)`, o); err != nil {
			return errors.Wrapf(err, "falha ao salvar oferta %d", o.ID)
		}
	}
	for _, p := range snap.Profiles {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO profiles
			(id, display_name, contact, total_invested, verified, created_at)
			VALUES (:id, :display_name, :contact, :total_invested, :verified, :created_at)`, p); err != nil {
			return errors.Wrapf(err, "falha ao salvar perfil %s", p.ID)
		}
	}
	for _, t := range snap.Trades {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO trades
			(id, kind, asset_id, offer_id, seller, buyer, tokens, price_per_token, cost, executed_at)
			VALUES (:id, :kind, :asset_id, :offer_id, :seller, :buyer, :tokens, :price_per_token, :cost, :executed_at)`, t); err != nil {
			return errors.Wrapf(err, "falha ao salvar liquidação %s", t.ID)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO ledger_meta (next_asset_id, next_offer_id) VALUES ($1, $2)`,
		snap.NextAssetID, snap.NextOfferID); err != nil {
		return errors.Wrap(err, "falha ao salvar sequências")
	}

	return errors.Wrap(tx.Commit(), "falha ao confirmar snapshot")
}

// LoadSnapshot lê o último snapshot gravado. found é false se nada foi gravado ainda.
func (d *DB) LoadSnapshot(ctx context.Context) (snap models.Snapshot, found bool, err error) {
	var meta struct {
		NextAssetID uint64 `db:"next_asset_id"`
		NextOfferID uint64 `db:"next_offer_id"`
	}
	err = d.GetContext(ctx, &meta, `SELECT next_asset_id, next_offer_id FROM ledger_meta`)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, false, nil
	}
	if err != nil {
		return models.Snapshot{}, false, errors.Wrap(err, "falha ao ler sequências")
	}
	snap.NextAssetID = meta.NextAssetID
	snap.NextOfferID = meta.NextOfferID

	if err = d.SelectContext(ctx, &snap.Assets, `SELECT id, title, artist, description, image_url,
		total_supply, price_per_token, verified, creator, created_at FROM assets ORDER BY id`); err != nil {
		return models.Snapshot{}, false, errors.Wrap(err, "falha ao ler obras")
	}
	if err = d.SelectContext(ctx, &snap.Holdings, `SELECT asset_id, holder, tokens_held, cost_basis, purchased_at
		FROM holdings ORDER BY asset_id, holder`); err != nil {
		return models.Snapshot{}, false, errors.Wrap(err, "falha ao ler posições")
	}
	if err = d.SelectContext(ctx, &snap.Offers, `SELECT id, asset_id, seller, tokens_offered, price_per_token,
		status, created_at, closed_at FROM offers ORDER BY id`); err != nil {
		return models.Snapshot{}, false, errors.Wrap(err, "falha ao ler ofertas")
	}
	if err = d.SelectContext(ctx, &snap.Profiles, `SELECT id, display_name, contact, total_invested, verified,
		created_at FROM profiles ORDER BY id`); err != nil {
		return models.Snapshot{}, false, errors.Wrap(err, "falha ao ler perfis")
	}
	if err = d.SelectContext(ctx, &snap.Trades, `SELECT id, kind, asset_id, offer_id, seller, buyer, tokens,
		price_per_token, cost, executed_at FROM trades ORDER BY seq`); err != nil {
		return models.Snapshot{}, false, errors.Wrap(err, "falha ao ler liquidações")
	}
	return snap, true, nil
}
