package migrate

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	sqlmigrate "github.com/rubenv/sql-migrate"
	"github.com/urfave/cli/v2"

	"github.com/ferreirogomes/artshare/config"
	"github.com/ferreirogomes/artshare/storage"
)

func run(direction sqlmigrate.MigrationDirection) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DB_PG_URL não definido")
	}

	db, err := storage.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Migrate(cfg.MigrationsDir, direction)
	if err != nil {
		return err
	}
	log.Info().Int("count", n).Msg("migração concluída")
	return nil
}

var Command = &cli.Command{
	Name:  "migrate",
	Usage: "Aplica as migrações do banco",

	Subcommands: []*cli.Command{
		{
			Name:  "up",
			Usage: "Aplica as migrações pendentes",
			Action: func(c *cli.Context) error {
				return run(sqlmigrate.Up)
			},
		},
		{
			Name:  "down",
			Usage: "Desfaz as migrações aplicadas",
			Action: func(c *cli.Context) error {
				return run(sqlmigrate.Down)
			},
		},
	},
}
