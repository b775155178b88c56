package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// keyConfig describes one configured key. Material is interpreted
// differently per provider kind: a hex-encoded AES-256 key for "aead", a
// PKCS#11 object label for "hsm", or an opaque label the remote service
// resolves for "remote".
type keyConfig struct {
	Material string `yaml:"material"`
	Active   bool   `yaml:"active"`
}

type aeadConfig struct{}

type hsmConfig struct {
	ModulePath string `yaml:"module_path"`
	TokenLabel string `yaml:"token_label"`
	PIN        string `yaml:"pin"`
}

type remoteConfig struct {
	Addresses      []string      `yaml:"addresses"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	timeout        time.Duration `yaml:"-"`
}

type providerConfig struct {
	Kind   string        `yaml:"kind"`
	AEAD   *aeadConfig   `yaml:"aead"`
	HSM    *hsmConfig    `yaml:"hsm"`
	Remote *remoteConfig `yaml:"remote"`
}

type dbConfig struct {
	DSN string `yaml:"dsn"`
}

// config is the root of canaryd's YAML configuration. Parsing it is this
// cmd package's concern entirely; none of the core packages know YAML
// exists, per the configuration-loading-is-external-collaborator design.
type config struct {
	Keys     []keyConfig    `yaml:"keys"`
	Provider providerConfig `yaml:"provider"`
	DB       dbConfig       `yaml:"db"`
	MetricsAddr string      `yaml:"metrics_addr"`
}

func loadConfig(path string) (*config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var c config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if c.Provider.Remote != nil {
		seconds := c.Provider.Remote.TimeoutSeconds
		if seconds <= 0 {
			seconds = 5
		}
		c.Provider.Remote.timeout = time.Duration(seconds) * time.Second
	}
	return &c, nil
}
