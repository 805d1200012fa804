package config

import (
	"context"
	"fmt"
	"io"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	DBPath         string `env:"FEETRACK_DB_PATH,default=data/fees.db"`
	OpLogPath      string `env:"FEETRACK_OP_LOG_PATH,default=fee_system.log"`
	LogLevel       string `env:"FEETRACK_LOG_LEVEL,default=info"`
	SeedSampleData bool   `env:"FEETRACK_SEED_SAMPLE_DATA,default=true"`
	ExportDir      string `env:"FEETRACK_EXPORT_DIR,default=exports"`
}

func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}
	return &cfg, nil
}

func WriteHelp(w io.Writer, version string) {
	fmt.Fprintf(w, "feetrack %s\n\n", version)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  FEETRACK_DB_PATH=data/fees.db")
	fmt.Fprintln(w, "  FEETRACK_OP_LOG_PATH=fee_system.log")
	fmt.Fprintln(w, "  FEETRACK_LOG_LEVEL=info")
	fmt.Fprintln(w, "  FEETRACK_SEED_SAMPLE_DATA=true")
	fmt.Fprintln(w, "  FEETRACK_EXPORT_DIR=exports")
}
