// Package config loads codetree settings from YAML and the environment.
package config

import (
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/kiteco/codetree/kite-go/codetree"
	"github.com/kiteco/codetree/kite-golib/envutil"
)

// Environment variables overriding the file
const (
	TokenEnv          = "GITHUB_AUTH_TOKEN"
	TimeoutEnv        = "CODETREE_TIMEOUT"
	LoadEntireTreeEnv = "CODETREE_LOAD_ENTIRE_TREE"
)

// Config ...
type Config struct {
	Token string `yaml:"token"`
	// EnterpriseURLs lists GitHub Enterprise deployments, e.g. https://ghe.example.com
	EnterpriseURLs    []string      `yaml:"enterprise_urls"`
	ShowInNonCodePage bool          `yaml:"show_in_non_code_page"`
	LoadEntireTree    bool          `yaml:"load_entire_tree"`
	PullRequestDiff   bool          `yaml:"pull_request_diff"`
	Timeout           time.Duration `yaml:"timeout"`
	CacheSize         int           `yaml:"cache_size"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		LoadEntireTree:  true,
		PullRequestDiff: true,
		Timeout:         30 * time.Second,
		CacheSize:       64,
	}
}

// Load reads path over Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		buf, err := ioutil.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, errors.Wrapf(err, "error reading config %s", path)
		default:
			if err := yaml.Unmarshal(buf, &cfg); err != nil {
				return Config{}, errors.Wrapf(err, "error parsing config %s", path)
			}
		}
	}

	cfg.Token = strings.TrimSpace(envutil.GetenvDefault(TokenEnv, cfg.Token))
	cfg.Timeout = envutil.GetenvDefaultDuration(TimeoutEnv, cfg.Timeout)
	cfg.LoadEntireTree = envutil.GetenvDefaultBool(LoadEntireTreeEnv, cfg.LoadEntireTree)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ...
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.CacheSize <= 0 {
		return errors.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	return nil
}

// EngineOptions returns the codetree.Options selected by c.
func (c Config) EngineOptions() codetree.Options {
	return codetree.Options{
		ShowInNonCodePage: c.ShowInNonCodePage,
		PullRequestDiff:   c.PullRequestDiff,
	}
}
