// Package config lê a configuração do processo a partir de variáveis de ambiente.
package config

import (
	"time"

	"github.com/allisson/go-env"
	"github.com/pkg/errors"
)

// Config reúne tudo que o servidor precisa para subir.
type Config struct {
	HTTPAddr           string
	DatabaseURL        string // Vazio mantém o estado só em memória
	MigrationsDir      string
	CheckpointInterval time.Duration
	SignatureMaxSkew   time.Duration
	AdminPrincipals    string // Lista separada por vírgulas
	SeedSampleAsset    bool
	DebugLogs          bool
}

// Load lê e valida as variáveis de ambiente.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:           env.GetString("HTTP_ADDR", ":8080"),
		DatabaseURL:        env.GetString("DB_PG_URL", ""),
		MigrationsDir:      env.GetString("MIGRATIONS_DIR", "./storage/migrations"),
		CheckpointInterval: time.Duration(env.GetInt("CHECKPOINT_INTERVAL_SECONDS", 30)) * time.Second,
		SignatureMaxSkew:   time.Duration(env.GetInt("SIGNATURE_MAX_SKEW_SECONDS", 300)) * time.Second,
		AdminPrincipals:    env.GetString("ADMIN_PRINCIPALS", ""),
		SeedSampleAsset:    env.GetBool("SEED_SAMPLE_ASSET", true),
		DebugLogs:          env.GetBool("DEBUG_LOGS", false),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate confere os limites dos valores lidos.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR não pode ser vazio")
	}
	if c.CheckpointInterval <= 0 {
		return errors.Errorf("CHECKPOINT_INTERVAL_SECONDS deve ser positivo, recebido %s", c.CheckpointInterval)
	}
	if c.SignatureMaxSkew <= 0 {
		return errors.Errorf("SIGNATURE_MAX_SKEW_SECONDS deve ser positivo, recebido %s", c.SignatureMaxSkew)
	}
	if c.DatabaseURL != "" && c.MigrationsDir == "" {
		return errors.New("MIGRATIONS_DIR é obrigatório quando DB_PG_URL está definido")
	}
	return nil
}
