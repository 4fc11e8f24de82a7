package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix prefixes every environment variable, e.g. HANKO_STORE_PUBLIC_DOMAIN.
const EnvPrefix = "HANKO"

// Config is the resolved server configuration.
type Config struct {
	Addr      string
	LogLevel  string
	LogFormat string

	ShopName          string
	PublicStoreDomain string
	PrimaryDomainURL  string

	StorefrontEndpoint string
	StorefrontToken    string
	StorefrontTimeout  time.Duration

	FooterMenuHandle string
	UseFallbackMenu  bool
	FooterMenuFile   string

	ContentDir string
	AssetsDir  string
}

// NewViper returns a viper instance reading HANKO_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

type flagDef struct {
	key, name, usage string
	def              any
}

var flagDefs = []flagDef{
	{"addr", "addr", "HTTP listen address", ":8080"},
	{"log.level", "log-level", "log level", "info"},
	{"log.format", "log-format", "log format (json|console)", "json"},
	{"store.name", "store-name", "shop name shown in the header", "Hanko Field"},
	{"store.public_domain", "store-public-domain", "public store hostname treated as internal", ""},
	{"store.primary_domain_url", "store-primary-domain-url", "primary domain URL used when the storefront API is not configured", ""},
	{"storefront.endpoint", "storefront-endpoint", "storefront GraphQL endpoint; empty serves static data", ""},
	{"storefront.token", "storefront-token", "storefront access token", ""},
	{"storefront.timeout", "storefront-timeout", "storefront request timeout", 5 * time.Second},
	{"footer.menu_handle", "footer-menu-handle", "handle of the footer menu", "footer"},
	{"footer.use_fallback_menu", "footer-use-fallback-menu", "always render the static fallback footer menu", true},
	{"footer.menu_file", "footer-menu-file", "YAML or JSON menu served by the static storefront", ""},
	{"content.dir", "content-dir", "directory of markdown policy pages", "content"},
	{"assets.dir", "assets-dir", "directory served under /assets/", "public/assets"},
}

// Bind registers the server flags on flags and binds them to v.
func Bind(flags *pflag.FlagSet, v *viper.Viper) {
	for _, d := range flagDefs {
		switch def := d.def.(type) {
		case string:
			flags.String(d.name, def, d.usage)
		case bool:
			flags.Bool(d.name, def, d.usage)
		case time.Duration:
			flags.Duration(d.name, def, d.usage)
		}
		_ = v.BindPFlag(d.key, flags.Lookup(d.name))
	}
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:               v.GetString("addr"),
		LogLevel:           v.GetString("log.level"),
		LogFormat:          v.GetString("log.format"),
		ShopName:           strings.TrimSpace(v.GetString("store.name")),
		PublicStoreDomain:  strings.TrimSpace(v.GetString("store.public_domain")),
		PrimaryDomainURL:   strings.TrimRight(strings.TrimSpace(v.GetString("store.primary_domain_url")), "/"),
		StorefrontEndpoint: strings.TrimSpace(v.GetString("storefront.endpoint")),
		StorefrontToken:    v.GetString("storefront.token"),
		StorefrontTimeout:  v.GetDuration("storefront.timeout"),
		FooterMenuHandle:   strings.TrimSpace(v.GetString("footer.menu_handle")),
		UseFallbackMenu:    v.GetBool("footer.use_fallback_menu"),
		FooterMenuFile:     strings.TrimSpace(v.GetString("footer.menu_file")),
		ContentDir:         strings.TrimSpace(v.GetString("content.dir")),
		AssetsDir:          strings.TrimSpace(v.GetString("assets.dir")),
	}
	// Cloud Run provides PORT when no explicit address is configured.
	if !v.IsSet("addr") {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Addr = ":" + port
		}
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var err error
	if c.PrimaryDomainURL != "" {
		if u, perr := url.Parse(c.PrimaryDomainURL); perr != nil || u.Scheme == "" || u.Host == "" {
			err = multierr.Append(err, fmt.Errorf("config: store.primary_domain_url %q is not an absolute URL", c.PrimaryDomainURL))
		}
	}
	if c.StorefrontEndpoint != "" {
		if u, perr := url.Parse(c.StorefrontEndpoint); perr != nil || u.Scheme == "" || u.Host == "" {
			err = multierr.Append(err, fmt.Errorf("config: storefront.endpoint %q is not an absolute URL", c.StorefrontEndpoint))
		}
	}
	if c.FooterMenuHandle == "" {
		err = multierr.Append(err, errors.New("config: footer.menu_handle must not be empty"))
	}
	if c.StorefrontTimeout < 0 {
		err = multierr.Append(err, errors.New("config: storefront.timeout must not be negative"))
	}
	return err
}
