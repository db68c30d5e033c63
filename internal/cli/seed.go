package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/live"
	"traffic-dashboard-backend/internal/store"
)

// SeedFile — районы и замеры для импорта
type SeedFile struct {
	Areas    []domain.Area              `yaml:"areas"`
	Readings []domain.CongestionReading `yaml:"readings"`
}

// ParseSeed разбирает yaml с районами и замерами
func ParseSeed(r io.Reader) (SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return f, fmt.Errorf("parse seed file: %w", err)
	}
	for i, a := range f.Areas {
		if a.ID == "" || a.Name == "" {
			return f, fmt.Errorf("area #%d: id and name are required", i+1)
		}
	}
	return f, nil
}

// importSeed — районы через upsert, замеры через ту же проверку, что и в API
func importSeed(ctx context.Context, st store.Store, f SeedFile, log *zap.Logger) (int, int, error) {
	for _, a := range f.Areas {
		if err := st.UpsertArea(ctx, a); err != nil {
			return 0, 0, fmt.Errorf("area %s: %w", a.ID, err)
		}
	}

	ing := live.NewIngestor(st, nil, nil, log)
	for i, r := range f.Readings {
		if _, err := ing.Ingest(ctx, r); err != nil {
			return len(f.Areas), i, fmt.Errorf("reading #%d (%s): %w", i+1, r.AreaID, err)
		}
	}
	return len(f.Areas), len(f.Readings), nil
}

func newSeedCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import areas and congestion readings from a yaml file",
		Example: `  traffic seed --file fixtures.yaml

fixtures.yaml:
  areas:
    - {id: "13", name: Velachery West, zone: South, latitude: 12.98, longitude: 80.21}
  readings:
    - {area_id: "13", congestion_level: high, prediction_10min: high, current_speed: 12}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			fh, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer fh.Close()

			seed, err := ParseSeed(fh)
			if err != nil {
				return err
			}

			st, err := store.New(cmd.Context(), cfg.DB.Dialect, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			areas, readings, err := importSeed(cmd.Context(), st, seed, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d areas, %d readings\n", areas, readings)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "yaml file with areas and readings")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
