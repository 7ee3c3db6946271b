package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SyncProvider != ProviderAPIFootball {
		t.Fatalf("unexpected SyncProvider: %q", cfg.SyncProvider)
	}
	if cfg.StorageDriver != StorageDriverPostgres {
		t.Fatalf("unexpected StorageDriver: %q", cfg.StorageDriver)
	}
	if cfg.CacheDriver != CacheDriverMemory {
		t.Fatalf("unexpected CacheDriver: %q", cfg.CacheDriver)
	}
	if cfg.APIFootball.RateLimitCalls != 100 || cfg.APIFootball.RateLimitWindow != 24*time.Hour {
		t.Fatalf("unexpected api_football quota: %+v", cfg.APIFootball)
	}
	if cfg.FootballData.RateLimitCalls != 10 || cfg.FootballData.RateLimitWindow != time.Minute {
		t.Fatalf("unexpected football_data quota: %+v", cfg.FootballData)
	}
	if cfg.CacheTTLLeagues != 24*time.Hour || cfg.CacheTTLFixtures != time.Hour || cfg.CacheTTLDetail != 30*time.Minute {
		t.Fatalf("unexpected cache ttl defaults")
	}
	if cfg.SyncDefaultDaysAhead != 30 {
		t.Fatalf("unexpected SyncDefaultDaysAhead: %d", cfg.SyncDefaultDaysAhead)
	}
	if cfg.FetchMaxAttempts != 3 || cfg.FetchBackoff != time.Second {
		t.Fatalf("unexpected retry defaults: %d %s", cfg.FetchMaxAttempts, cfg.FetchBackoff)
	}
	if got := cfg.ResolveLeague("premier_league"); got != "39" {
		t.Fatalf("unexpected premier_league alias: %q", got)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn=\"https://token@api.uptrace.dev/1\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_BetterStackConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "s1765114.eu-fsn-3.betterstackdata.com")
	t.Setenv("BETTERSTACK_TOKEN", "token-123")
	t.Setenv("BETTERSTACK_TIMEOUT", "4s")
	t.Setenv("BETTERSTACK_MIN_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BetterStackEndpoint != "s1765114.eu-fsn-3.betterstackdata.com" {
		t.Fatalf("unexpected BetterStackEndpoint: %q", cfg.BetterStackEndpoint)
	}
	if cfg.BetterStackTimeout != 4*time.Second {
		t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
	}
	if cfg.BetterStackMinLevel.String() != "warn" {
		t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel.String())
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger and needs a provider key", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("API_FOOTBALL_KEY", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error for prod without API_FOOTBALL_KEY")
		}

		t.Setenv("API_FOOTBALL_KEY", "key-1")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_ProviderSelection(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SYNC_PROVIDER", "FOOTBALL_DATA")
	t.Setenv("FOOTBALL_DATA_TOKEN", " tok ")
	t.Setenv("FOOTBALL_DATA_RATE_LIMIT_CALLS", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	active := cfg.ActiveProvider()
	if cfg.SyncProvider != ProviderFootballData || active.APIKey != "tok" || active.RateLimitCalls != 20 {
		t.Fatalf("unexpected active provider: %s %+v", cfg.SyncProvider, active)
	}

	t.Setenv("SYNC_PROVIDER", "sportmonks")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown SYNC_PROVIDER")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric rate limit", key: "API_FOOTBALL_RATE_LIMIT_CALLS", value: "many"},
		{name: "zero rate limit", key: "FOOTBALL_DATA_RATE_LIMIT_CALLS", value: "0"},
		{name: "negative ttl", key: "CACHE_TTL_FIXTURES", value: "-1m"},
		{name: "bad duration", key: "FETCH_TIMEOUT", value: "soon"},
		{name: "bad bool", key: "CIRCUIT_BREAKER_ENABLED", value: "maybe"},
		{name: "unknown cache driver", key: "CACHE_DRIVER", value: "redis"},
		{name: "unknown storage driver", key: "STORAGE_DRIVER", value: "sqlite"},
		{name: "malformed alias", key: "LEAGUE_ALIASES", value: "premier_league"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_CrossFieldValidation(t *testing.T) {
	t.Run("postgres limiter needs postgres storage", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("STORAGE_DRIVER", StorageDriverMemory)
		t.Setenv("RATE_LIMIT_STORE", RateLimitStorePostgres)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for postgres limiter on memory storage")
		}
	})

	t.Run("schedule needs leagues", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SYNC_SCHEDULE_ENABLED", "true")
		t.Setenv("SYNC_SCHEDULE_LEAGUES", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for schedule without leagues")
		}
	})
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SERVICE_NAME", "sync-worker")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "https://profiles.example.com")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "sync-worker" {
		t.Fatalf("unexpected PyroscopeAppName: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_ConfigFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sports-sync.yaml")
	content := []byte(`sync_provider: football_data
football_data_token: file-token
sync_default_days_ahead: 14
cache_driver: badger
cache_dir: /var/lib/sports-sync/cache
sync_schedule_leagues: "39, 140"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SYNC_DEFAULT_DAYS_AHEAD", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SyncProvider != ProviderFootballData || cfg.FootballData.APIKey != "file-token" {
		t.Fatalf("file values not applied: %s %+v", cfg.SyncProvider, cfg.FootballData)
	}
	if cfg.SyncDefaultDaysAhead != 7 {
		t.Fatalf("env should override file, got %d", cfg.SyncDefaultDaysAhead)
	}
	if cfg.CacheDriver != CacheDriverBadger || cfg.CacheDir != "/var/lib/sports-sync/cache" {
		t.Fatalf("unexpected cache config: %s %s", cfg.CacheDriver, cfg.CacheDir)
	}
	if len(cfg.SyncScheduleLeagues) != 2 {
		t.Fatalf("unexpected schedule leagues: %v", cfg.SyncScheduleLeagues)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestResolveLeague(t *testing.T) {
	t.Parallel()

	aliases, err := parseAliasMap("Premier_League:39, la_liga:140")
	if err != nil {
		t.Fatalf("parse aliases: %v", err)
	}
	cfg := Config{LeagueAliases: aliases}

	cases := map[string]string{
		"premier_league": "39",
		"PREMIER_LEAGUE": "39",
		" la_liga ":      "140",
		"2021":           "2021",
	}
	for in, want := range cases {
		if got := cfg.ResolveLeague(in); got != want {
			t.Fatalf("ResolveLeague(%q)=%q, want %q", in, got, want)
		}
	}
}
