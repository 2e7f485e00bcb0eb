package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// Profile selects a bundle of defaults. Individual env vars still override.
type Profile string

const (
	ProfileDev  Profile = "dev"
	ProfileProd Profile = "prod"
)

// Common errors
var (
	ErrBadProfile = errors.New("PROFILE must be 'dev' or 'prod'")
	ErrBadBaseURL = errors.New("BASE_URL must start with http:// or https://")
	ErrBadGAID    = errors.New("GA_ID must be a positive integer")
	ErrBadLimit   = errors.New("limit env vars must be non-negative integers")
	ErrNoCacheDir = errors.New("CACHE_DIR must not be empty")
)

// Config holds every runtime knob for the scraper, the ETL pipeline and the
// HTTP server. Built once in main and passed by value.
type Config struct {
	Profile Profile

	// Upstream site identity.
	GAID      int
	SessionID int
	BaseURL   string
	UserAgent string

	// Paths.
	CacheDir string
	MockDir  string

	// Mode switches.
	DevMode     bool
	SeedMode    bool
	LoadOnly    bool
	Incremental bool

	// Bounded-dataset controls. Zero means unlimited.
	MemberLimit     int
	SBLimit         int
	HBLimit         int
	BillExportLimit int

	// Votes / witness slips.
	VoteBillURLs []string

	// Serving.
	Port        string
	CORSOrigins []string
	APIKey      string

	// A bill inactive for this many months that never reached Signed or
	// Vetoed is displayed as Dead. Heuristic, hence configurable.
	DeadBillMonths int
}

// Defaults shared by both profiles.
const (
	DefaultGAID           = 104
	DefaultSessionID      = 114
	DefaultBaseURL        = "https://www.ilga.gov"
	DefaultUserAgent      = "StatehouseAtlas/1.0 (+https://github.com/StatehouseAtlas/ILGA-Backend)"
	DefaultCacheDir       = "data/cache"
	DefaultMockDir        = "data/mock"
	DefaultDeadBillMonths = 18
)

// LoadFromEnv builds a Config from the environment.
//
// PROFILE selects defaults: "dev" enables DEV_MODE and SEED_MODE, allows all
// CORS origins and caps members at 20 per chamber; "prod" turns all of that
// off. Every other variable overrides its profile default individually.
func LoadFromEnv() Config {
	profile := ProfileDev
	if strings.EqualFold(strings.TrimSpace(os.Getenv("PROFILE")), string(ProfileProd)) {
		profile = ProfileProd
	}

	cfg := Config{
		Profile:        profile,
		GAID:           envInt("GA_ID", DefaultGAID),
		SessionID:      envInt("SESSION_ID", DefaultSessionID),
		BaseURL:        envString("BASE_URL", DefaultBaseURL),
		UserAgent:      envString("USER_AGENT", DefaultUserAgent),
		CacheDir:       envString("CACHE_DIR", DefaultCacheDir),
		MockDir:        envString("MOCK_DIR", DefaultMockDir),
		Port:           envString("PORT", "5050"),
		DeadBillMonths: envInt("DEAD_BILL_MONTHS", DefaultDeadBillMonths),
	}

	if profile == ProfileDev {
		cfg.DevMode = true
		cfg.SeedMode = true
		cfg.MemberLimit = 20
		cfg.CORSOrigins = []string{"*"}
	}

	cfg.DevMode = envBool("DEV_MODE", cfg.DevMode)
	cfg.SeedMode = envBool("SEED_MODE", cfg.SeedMode)
	cfg.LoadOnly = envBool("LOAD_ONLY", false)
	cfg.Incremental = envBool("INCREMENTAL", false)

	// LOAD_ONLY is always an explicit request, while SEED_MODE may just be
	// the dev profile default. When both are on, load-only wins.
	if cfg.LoadOnly && cfg.SeedMode {
		log.Println("[config] LOAD_ONLY set; ignoring SEED_MODE")
		cfg.SeedMode = false
	}

	cfg.MemberLimit = envInt("MEMBER_LIMIT", cfg.MemberLimit)
	cfg.SBLimit = envInt("SB_LIMIT", 0)
	cfg.HBLimit = envInt("HB_LIMIT", 0)
	cfg.BillExportLimit = envInt("BILL_EXPORT_LIMIT", 0)

	if raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); raw != "" {
		cfg.CORSOrigins = splitCSV(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("VOTE_BILL_URLS")); raw != "" {
		cfg.VoteBillURLs = splitCSV(raw)
	}
	cfg.APIKey = strings.TrimSpace(os.Getenv("API_KEY"))

	return cfg
}

// Validate checks invariants and logs prod hardening warnings. It is called
// once at startup; a non-nil error is fatal.
func (c Config) Validate() error {
	if c.Profile != ProfileDev && c.Profile != ProfileProd {
		return ErrBadProfile
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("%w: got %q", ErrBadBaseURL, c.BaseURL)
	}
	if c.GAID <= 0 {
		return fmt.Errorf("%w: got %d", ErrBadGAID, c.GAID)
	}
	if c.CacheDir == "" {
		return ErrNoCacheDir
	}
	for name, v := range map[string]int{
		"MEMBER_LIMIT":      c.MemberLimit,
		"SB_LIMIT":          c.SBLimit,
		"HB_LIMIT":          c.HBLimit,
		"BILL_EXPORT_LIMIT": c.BillExportLimit,
		"DEAD_BILL_MONTHS":  c.DeadBillMonths,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrBadLimit, name, v)
		}
	}

	if c.Profile == ProfileProd {
		if len(c.CORSOrigins) == 0 {
			log.Println("[config] warning: prod profile with empty CORS_ORIGINS; browsers will be refused")
		}
		if c.APIKey == "" {
			log.Println("[config] warning: prod profile with no API_KEY; GraphQL is unauthenticated")
		}
	}
	return nil
}

// PolitenessDelay is the base sleep between requests to the same host.
func (c Config) PolitenessDelayMS() int {
	if c.DevMode {
		return 150
	}
	return 500
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[config] ignoring %s=%q: %v", key, raw, err)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	log.Printf("[config] ignoring %s=%q: not a boolean", key, raw)
	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
