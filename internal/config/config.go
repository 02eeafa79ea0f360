package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/notify"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string

	// Entity store backend: memory, redis or postgres.
	StoreBackend  string
	DBUrl         string
	RedisAddr     string
	RedisPassword string

	SendgridAPIKey   string
	TwilioAccountSID string
	TwilioAuthToken  string

	// JWTPublicKey verifies agent tokens. Nil switches the identity
	// middleware to X-User-Id headers (local development only).
	JWTPublicKey *rsa.PublicKey

	// AgentContacts maps agent IDs to email/phone for the notifier.
	AgentContacts notify.StaticDirectory

	// Feature-flag snapshots
	LDFlag_MatchThreshold      int
	LDFlag_NotifyEmailEnabled  bool
	LDFlag_NotifySMSEnabled    bool
	LDFlag_TwilioFromPhone     string
	LDFlag_SendgridFromEmail   string
	LDFlag_SendgridSandboxMode bool
	LDFlag_SeedDemoData        bool
	LDFlag_CORSHighSecurity    bool
}

const (
	OrganizationName    = constants.OrganizationName
	LDConnectionTimeout = 5 * time.Second

	LDServerContextKind = "service"
	LDServerContextKey  = "aaraazi-core"
)

// build-time override, set with -ldflags
var AppName = "aaraazi-core"

// LoadConfig reads .env plus the process environment and snapshots the
// LaunchDarkly flags once at boot. Only APP_PORT is hard-required; the
// rest degrade to local-development defaults so a bare checkout runs.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file found, using system environment variables")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL_FROM_ANYWHERE")
	if appUrl == "" {
		appUrl = "http://localhost:" + appPort
	}

	storeBackend := os.Getenv("STORE_BACKEND")
	if storeBackend == "" {
		storeBackend = "memory"
	}
	switch storeBackend {
	case "memory", "redis", "postgres":
	default:
		utils.Logger.Fatalf("STORE_BACKEND must be memory, redis or postgres, got %q", storeBackend)
	}

	dbURL := os.Getenv("DB_URL")
	if storeBackend == "postgres" && dbURL == "" {
		utils.Logger.Fatal("DB_URL env var is missing but STORE_BACKEND=postgres")
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if storeBackend == "redis" && redisAddr == "" {
		utils.Logger.Fatal("REDIS_ADDR env var is missing but STORE_BACKEND=redis")
	}

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		AppPort:          appPort,
		AppUrl:           appUrl,
		StoreBackend:     storeBackend,
		DBUrl:            dbURL,
		RedisAddr:        redisAddr,
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		SendgridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		JWTPublicKey:     loadPublicKey(),
		AgentContacts:    loadAgentContacts(),
	}

	loadFlags(cfg)

	utils.Logger.Infof("Loaded config for %s (store=%s)", AppName, storeBackend)
	return cfg
}

// loadPublicKey parses RSA_PUBLIC_KEY_BASE64 when present. Absence is
// tolerated so seeded local runs work without an identity service.
func loadPublicKey() *rsa.PublicKey {
	pubB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		utils.Logger.Warn("RSA_PUBLIC_KEY_BASE64 not set, falling back to X-User-Id header identity")
		return nil
	}
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	return pubKey
}

// loadAgentContacts parses AGENT_CONTACTS_JSON, a JSON object keyed by
// agent UUID with {"email": ..., "phone": ...} values.
func loadAgentContacts() notify.StaticDirectory {
	raw := os.Getenv("AGENT_CONTACTS_JSON")
	if raw == "" {
		return notify.StaticDirectory{}
	}
	dir := notify.StaticDirectory{}
	if err := json.Unmarshal([]byte(raw), &dir); err != nil {
		utils.Logger.WithError(err).Fatal("AGENT_CONTACTS_JSON is not valid JSON")
	}
	return dir
}

// loadFlags snapshots feature flags from LaunchDarkly when LD_SDK_KEY
// is configured, otherwise from plain env vars with the same names.
func loadFlags(cfg *Config) {
	ldSDKKey := os.Getenv("LD_SDK_KEY")
	if ldSDKKey == "" {
		utils.Logger.Info("LD_SDK_KEY not set, reading flag values from env")
		cfg.LDFlag_MatchThreshold = envInt("MATCH_THRESHOLD", constants.DefaultMatchThreshold)
		cfg.LDFlag_NotifyEmailEnabled = envBool("NOTIFY_EMAIL_ENABLED", false)
		cfg.LDFlag_NotifySMSEnabled = envBool("NOTIFY_SMS_ENABLED", false)
		cfg.LDFlag_TwilioFromPhone = envOr("TWILIO_FROM_PHONE", "+10005550006")
		cfg.LDFlag_SendgridFromEmail = envOr("SENDGRID_FROM_EMAIL", "no-reply@aaraazi.pk")
		cfg.LDFlag_SendgridSandboxMode = envBool("SENDGRID_SANDBOX_MODE", true)
		cfg.LDFlag_SeedDemoData = envBool("SEED_DEMO_DATA", false)
		cfg.LDFlag_CORSHighSecurity = envBool("CORS_HIGH_SECURITY", false)
		return
	}

	ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)

	threshold, err := ldClient.IntVariation("match_threshold", ctx, constants.DefaultMatchThreshold)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving match_threshold flag")
	}
	utils.Logger.Debugf("match_threshold flag: %d", threshold)
	if threshold < 0 || threshold > 100 {
		utils.Logger.Warnf("match_threshold flag %d out of range, defaulting to %d", threshold, constants.DefaultMatchThreshold)
		threshold = constants.DefaultMatchThreshold
	}
	cfg.LDFlag_MatchThreshold = threshold

	emailEnabled, err := ldClient.BoolVariation("notify_email_enabled", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving notify_email_enabled flag")
	}
	utils.Logger.Debugf("notify_email_enabled flag: %t", emailEnabled)
	cfg.LDFlag_NotifyEmailEnabled = emailEnabled

	smsEnabled, err := ldClient.BoolVariation("notify_sms_enabled", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving notify_sms_enabled flag")
	}
	utils.Logger.Debugf("notify_sms_enabled flag: %t", smsEnabled)
	cfg.LDFlag_NotifySMSEnabled = smsEnabled

	twilioFrom, err := ldClient.StringVariation("twilio_from_phone", ctx, "")
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving twilio_from_phone flag")
	}
	utils.Logger.Debugf("twilio_from_phone flag: %s", twilioFrom)
	if twilioFrom == "" {
		utils.Logger.Warn("twilio_from_phone flag is empty, defaulting to +10005550006")
		twilioFrom = "+10005550006"
	}
	cfg.LDFlag_TwilioFromPhone = twilioFrom

	sgFrom, err := ldClient.StringVariation("sendgrid_from_email", ctx, "")
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_from_email flag")
	}
	utils.Logger.Debugf("sendgrid_from_email flag: %s", sgFrom)
	if sgFrom == "" {
		utils.Logger.Warn("sendgrid_from_email flag is empty, defaulting to no-reply@aaraazi.pk")
		sgFrom = "no-reply@aaraazi.pk"
	}
	cfg.LDFlag_SendgridFromEmail = sgFrom

	sgSandbox, err := ldClient.BoolVariation("sendgrid_sandbox_mode", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_sandbox_mode flag")
	}
	utils.Logger.Debugf("sendgrid_sandbox_mode flag: %t", sgSandbox)
	cfg.LDFlag_SendgridSandboxMode = sgSandbox

	seedDemo, err := ldClient.BoolVariation("seed_demo_data", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving seed_demo_data flag")
	}
	utils.Logger.Debugf("seed_demo_data flag: %t", seedDemo)
	cfg.LDFlag_SeedDemoData = seedDemo

	corsHigh, err := ldClient.BoolVariation("cors_high_security", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving cors_high_security flag")
	}
	utils.Logger.Debugf("cors_high_security flag: %t", corsHigh)
	cfg.LDFlag_CORSHighSecurity = corsHigh
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		utils.Logger.Warnf("%s=%q is not a bool, defaulting to %t", key, v, fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.Logger.Warnf("%s=%q is not an int, defaulting to %d", key, v, fallback)
		return fallback
	}
	return n
}
