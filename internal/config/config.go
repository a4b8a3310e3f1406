// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config содержит параметры запуска, прочитанные из окружения.
type Config struct {
	RPCEndpoint          string
	RPCWebsocketEndpoint string
	PrivateKey           string

	TokenName     string
	TokenSymbol   string
	TokenShowName string
	TokenCreateOn string
	Description   string
	File          string
	VanityMode    bool
	VanitySuffix  string

	SwapAmount            float64
	DistributionWalletNum int
	JitoFee               float64

	Twitter  string
	Telegram string
	Website  string

	BuyerWallet string
	BuyerAmount float64

	MetadataEndpoint string
	JitoEndpoints    []string
	DataDir          string
	DebugLogging     bool
}

// ErrMissingVariable возвращается, когда обязательная переменная окружения не задана.
var ErrMissingVariable = errors.New("missing required environment variable")

var requiredKeys = []string{
	"rpc_endpoint",
	"rpc_websocket_endpoint",
	"private_key",
	"token_name",
	"token_symbol",
	"description",
	"file",
	"swap_amount",
	"distribution_walletnum",
	"jito_fee",
}

const (
	DefaultTokenCreateOn    = "https://bonk.fun"
	DefaultVanitySuffix     = "bonk"
	DefaultMetadataEndpoint = "https://storage.letsbonk.fun"
	DefaultDataDir          = "."
	MaxDistributionWallets  = 20
)

// DefaultJitoEndpoints are the public block engine regions.
var DefaultJitoEndpoints = []string{
	"https://mainnet.block-engine.jito.wtf",
	"https://amsterdam.mainnet.block-engine.jito.wtf",
	"https://frankfurt.mainnet.block-engine.jito.wtf",
	"https://ny.mainnet.block-engine.jito.wtf",
	"https://tokyo.mainnet.block-engine.jito.wtf",
}

// LoadConfig читает .env (если есть) и переменные окружения, затем валидирует результат.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	defaults := map[string]interface{}{
		"token_create_on":   DefaultTokenCreateOn,
		"vanity_mode":       false,
		"vanity_suffix":     DefaultVanitySuffix,
		"metadata_endpoint": DefaultMetadataEndpoint,
		"data_dir":          DefaultDataDir,
		"log_debug":         false,
		"buyer_amount":      0.0,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, strings.ToUpper(key))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingVariable, strings.Join(missing, ", "))
	}

	cfg := &Config{
		RPCEndpoint:           v.GetString("rpc_endpoint"),
		RPCWebsocketEndpoint:  v.GetString("rpc_websocket_endpoint"),
		PrivateKey:            strings.TrimSpace(v.GetString("private_key")),
		TokenName:             v.GetString("token_name"),
		TokenSymbol:           v.GetString("token_symbol"),
		TokenShowName:         v.GetString("token_show_name"),
		TokenCreateOn:         v.GetString("token_create_on"),
		Description:           v.GetString("description"),
		File:                  filepath.Clean(v.GetString("file")),
		VanityMode:            v.GetBool("vanity_mode"),
		VanitySuffix:          v.GetString("vanity_suffix"),
		SwapAmount:            v.GetFloat64("swap_amount"),
		DistributionWalletNum: v.GetInt("distribution_walletnum"),
		JitoFee:               v.GetFloat64("jito_fee"),
		Twitter:               v.GetString("twitter"),
		Telegram:              v.GetString("telegram"),
		Website:               v.GetString("website"),
		BuyerWallet:           strings.TrimSpace(v.GetString("buyer_wallet")),
		BuyerAmount:           v.GetFloat64("buyer_amount"),
		MetadataEndpoint:      strings.TrimRight(v.GetString("metadata_endpoint"), "/"),
		JitoEndpoints:         splitList(v.GetString("jito_endpoints")),
		DataDir:               v.GetString("data_dir"),
		DebugLogging:          v.GetBool("log_debug"),
	}
	if len(cfg.JitoEndpoints) == 0 {
		cfg.JitoEndpoints = append([]string(nil), DefaultJitoEndpoints...)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if err := validateURLWithCache(c.RPCEndpoint, "http"); err != nil {
		return fmt.Errorf("RPC_ENDPOINT: %w", err)
	}
	if err := validateURLWithCache(c.RPCWebsocketEndpoint, "ws"); err != nil {
		return fmt.Errorf("RPC_WEBSOCKET_ENDPOINT: %w", err)
	}
	if err := validateURLWithCache(c.MetadataEndpoint, "http"); err != nil {
		return fmt.Errorf("METADATA_ENDPOINT: %w", err)
	}
	for _, endpoint := range c.JitoEndpoints {
		if err := validateURLWithCache(endpoint, "http"); err != nil {
			return fmt.Errorf("JITO_ENDPOINTS: %w", err)
		}
	}
	if c.SwapAmount <= 0 {
		return errors.New("SWAP_AMOUNT must be positive")
	}
	if c.JitoFee <= 0 {
		return errors.New("JITO_FEE must be positive")
	}
	if c.DistributionWalletNum < 1 || c.DistributionWalletNum > MaxDistributionWallets {
		return fmt.Errorf("DISTRIBUTION_WALLETNUM must be between 1 and %d", MaxDistributionWallets)
	}
	if c.BuyerWallet != "" {
		if c.BuyerAmount <= 0 {
			return errors.New("BUYER_AMOUNT must be positive when BUYER_WALLET is set")
		}
		buyers := c.DistributionWalletNum + 1
		if batches := (buyers + MaxWalletsPerBatch - 1) / MaxWalletsPerBatch; batches+1 > MaxBundleSize {
			return fmt.Errorf("buyer wallet does not fit in a %d transaction bundle", MaxBundleSize)
		}
	}
	if c.VanityMode && c.VanitySuffix == "" {
		return errors.New("VANITY_SUFFIX must not be empty in vanity mode")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, strings.TrimRight(clean, "/"))
		}
	}
	return out
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}
