package postgres

import (
	"fmt"

	"github.com/GoSim-25-26J-441/project-sync/config"
)

// DSN returns cfg.DSN when set, otherwise a key/value DSN built from the parts.
// Both lib/pq and pgx accept the key/value form.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode,
	)
}
