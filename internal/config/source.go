package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// source layers environment variables over an optional flat YAML file.
// Keys are the lowercased environment variable names, so
// `sync_provider: football_data` in YAML equals SYNC_PROVIDER=football_data.
type source struct {
	k *koanf.Koanf
}

func lookupConfigFile() string {
	return strings.TrimSpace(os.Getenv("CONFIG_FILE"))
}

func newSource(path string) (*source, error) {
	// "::" keeps dotted values such as hostnames from being split into nested keys.
	k := koanf.New("::")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", "::", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	return &source{k: k}, nil
}

// get returns the value for key, or fallback when it is unset or blank.
func (s *source) get(key, fallback string) string {
	name := strings.ToLower(key)
	if !s.k.Exists(name) {
		return fallback
	}
	value := s.k.String(name)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// parser records the first parse error so Load can read every key in sequence.
type parser struct {
	src *source
	err error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) boolean(key, fallback string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(p.src.get(key, fallback)))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return false
	}
	return v
}

func (p *parser) positiveDuration(key, fallback string) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(p.src.get(key, fallback)))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return 0
	}
	if v <= 0 {
		p.fail(fmt.Errorf("%s must be > 0", key))
		return 0
	}
	return v
}

func (p *parser) minInt(key string, fallback, minimum int) int {
	raw := strings.TrimSpace(p.src.get(key, strconv.Itoa(fallback)))
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return 0
	}
	if v < minimum {
		p.fail(fmt.Errorf("%s must be >= %d", key, minimum))
		return 0
	}
	return v
}

func (p *parser) oneOf(key, fallback string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(p.src.get(key, fallback)))
	for _, item := range allowed {
		if v == item {
			return v
		}
	}
	p.fail(fmt.Errorf("invalid %s %q: valid values are %s", key, v, strings.Join(allowed, ", ")))
	return ""
}

func (p *parser) aliasMap(key, fallback string) map[string]string {
	out, err := parseAliasMap(p.src.get(key, fallback))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return nil
	}
	return out
}
