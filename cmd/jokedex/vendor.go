package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/jokedex/internal/config"
	logpkg "github.com/kailas-cloud/jokedex/internal/logger"
	datasetrepo "github.com/kailas-cloud/jokedex/internal/repository/dataset"
)

var (
	flagVendorFrom     string
	flagVendorTo       string
	flagVendorAddrs    []string
	flagVendorPassword string
	flagVendorPrefix   string
	flagVendorDSN      string
	flagVendorPath     string
)

var vendorCmd = &cobra.Command{
	Use:   "vendor",
	Short: "Copy dataset files into Redis, Valkey, SQLite or another directory",
	Long: `Read every dataset file from --from and write it to the --to location.
Connection settings default to the source section of the config file and can be
overridden with flags. Datasets already present at the destination are replaced.`,
	Example: `  jokedex vendor --to sqlite --dsn jokes.db
  jokedex vendor --to redis --addr localhost:6379 --prefix jokedex:`,
	Args: cobra.NoArgs,
	RunE: runVendor,
}

func init() {
	vendorCmd.Flags().StringVar(&flagVendorFrom, "from", "data", "Directory of dataset files to copy")
	vendorCmd.Flags().StringVar(&flagVendorTo, "to", "", "Destination driver: redis, valkey, sqlite or file")
	vendorCmd.Flags().StringSliceVar(&flagVendorAddrs, "addr", nil, "Redis/Valkey address (repeatable)")
	vendorCmd.Flags().StringVar(&flagVendorPassword, "password", "", "Redis/Valkey password")
	vendorCmd.Flags().StringVar(&flagVendorPrefix, "prefix", "", "Redis/Valkey key prefix")
	vendorCmd.Flags().StringVar(&flagVendorDSN, "dsn", "", "SQLite DSN")
	vendorCmd.Flags().StringVar(&flagVendorPath, "path", "", "Destination directory for the file driver")
	_ = vendorCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(vendorCmd)
}

func runVendor(cmd *cobra.Command, _ []string) error {
	cfg, env, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dst := vendorTarget(cmd, cfg.Source)
	if dst.Driver == config.DriverFile && dst.Path == "" {
		return errors.New("--path is required for the file driver")
	}
	if dst.Driver == config.DriverFile && samePath(dst.Path, flagVendorFrom) {
		return fmt.Errorf("destination directory %s is the source directory", dst.Path)
	}

	logger, err := logpkg.NewLogger("cli", flagLogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a := &app{env: env, cfg: cfg, logger: logger}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logpkg.ContextWithLogger(ctx, logger)

	writer, err := a.openSource(ctx, &dst)
	if err != nil {
		return err
	}

	lockTimeout := time.Duration(cfg.Source.LockTimeoutSec) * time.Second
	src := datasetrepo.NewFileSource(flagVendorFrom, lockTimeout)

	n, err := datasetrepo.Copy(ctx, src, writer)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, map[string]any{"driver": dst.Driver, "jokes": n})
	}
	fmt.Fprintf(w, "%s %d jokes from %s into %s\n",
		scoreStyle("vendored"), n, flagVendorFrom, datasetStyle(dst.Driver))
	return nil
}

// vendorTarget overlays the destination flags on the configured source settings.
func vendorTarget(cmd *cobra.Command, base config.SourceConfig) config.SourceConfig {
	dst := base
	dst.Driver = flagVendorTo
	flags := cmd.Flags()
	if flags.Changed("addr") {
		dst.Addrs = flagVendorAddrs
	}
	if flags.Changed("password") {
		dst.Password = flagVendorPassword
	}
	if flags.Changed("prefix") {
		dst.KeyPrefix = flagVendorPrefix
	}
	if flags.Changed("dsn") {
		dst.DSN = flagVendorDSN
	}
	if flags.Changed("path") {
		dst.Path = flagVendorPath
	}
	return dst
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
