// Package cli — командная строка сервиса: serve, migrate, seed, cost, version.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/config"
	"traffic-dashboard-backend/internal/logging"
)

// Version проставляется при сборке через -ldflags "-X ...cli.Version=..."
var Version = "0.1.0-dev"

// options — общие флаги и прочитанная конфигурация
type options struct {
	cfgFile string
	verbose bool

	v *viper.Viper
}

// load читает конфигурацию и собирает логгер
func (o *options) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.v)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logging.New(cfg.Log.Level, o.verbose)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{v: config.New()}

	cmd := &cobra.Command{
		Use:   "traffic",
		Short: "Traffic dashboard backend",
		Long: `traffic serves the traffic dashboard: live congestion, route suggestions,
stability and analytics for citizens and traffic authorities.

Quick start:
  traffic migrate              Create the schema and seed demo data
  traffic serve                Start the HTTP server
  traffic cost --vehicles 500  Estimate the cost of a jam`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ReadFile(opts.v, opts.cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./traffic.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newCostCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute запускает корневую команду
func Execute() error {
	return newRootCmd().Execute()
}
