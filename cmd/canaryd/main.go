// Command canaryd runs canary reconciliation once at startup against a
// configured set of keys and a MySQL-backed canary store, then reports
// the resulting key bindings. It's the thin external-collaborator layer
// around this module's core packages: it owns configuration parsing,
// provider wiring, and database connection management, none of which the
// core packages themselves know anything about.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/letsencrypt/borp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloudfoundry-incubator/credhub-core/blog"
	"github.com/cloudfoundry-incubator/credhub-core/canary"
	"github.com/cloudfoundry-incubator/credhub-core/canarystore"
	"github.com/cloudfoundry-incubator/credhub-core/keyregistry"
	"github.com/cloudfoundry-incubator/credhub-core/provider"
)

func main() {
	configPath := flag.String("config", "", "path to the canaryd YAML configuration file")
	flag.Parse()

	log := blog.New()
	if *configPath == "" {
		log.AuditErr("-config is required")
		os.Exit(1)
	}

	if err := run(*configPath, log); err != nil {
		log.AuditErrf("canaryd failed: %s", err)
		os.Exit(1)
	}
}

func run(configPath string, log blog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	stats := prometheus.NewRegistry()

	p, err := buildProvider(cfg.Provider)
	if err != nil {
		return fmt.Errorf("constructing encryption provider: %w", err)
	}

	descriptors := make([]provider.KeyDescriptor, len(cfg.Keys))
	for i, k := range cfg.Keys {
		descriptors[i] = provider.KeyDescriptor{Material: k.Material, Active: k.Active}
	}
	registry, err := keyregistry.New(p, descriptors)
	if err != nil {
		return fmt.Errorf("constructing key registry: %w", err)
	}

	db, err := sql.Open("mysql", cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	dbMap := borp.NewDbMap(db, borp.MySQLDialect{Engine: "InnoDB", Encoding: "utf8mb4"})
	store := canarystore.NewMySQLStore(dbMap)

	metrics := canary.NewMetrics(stats)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	mapper, err := canary.Reconcile(ctx, registry, p, store, log, metrics)
	if err != nil {
		return fmt.Errorf("canary reconciliation: %w", err)
	}

	log.Infof("reconciliation complete: %d keys bound, active canary %s", len(mapper.EncryptionKeyMap()), mapper.ActiveUUID())

	if cfg.MetricsAddr != "" {
		http.Handle("/metrics", promhttp.HandlerFor(stats, promhttp.HandlerOpts{}))
		log.Infof("serving metrics on %s", cfg.MetricsAddr)
		return http.ListenAndServe(cfg.MetricsAddr, nil)
	}
	return nil
}

func buildProvider(cfg providerConfig) (provider.Provider, error) {
	switch cfg.Kind {
	case "aead":
		return provider.NewAEADProvider(), nil
	case "hsm":
		return buildHSMProvider(cfg.HSM)
	case "remote":
		return buildRemoteProvider(cfg.Remote)
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
	}
}
