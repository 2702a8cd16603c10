package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrMissingConfiguration = errors.New("missing configuration values")

type Config struct {
	Tenant          string   `json:"tenant"`
	Auth            Auth     `json:"auth"`
	Subscription    string   `json:"subscription"`
	ResourceGroup   string   `json:"resource-group"`
	App             string   `json:"app"`
	CSV             string   `json:"csv"`
	Source          AppScope `json:"source"`
	Target          AppScope `json:"target"`
	Output          string   `json:"output"`
	Format          string   `json:"format"`
	JSON            bool     `json:"json"`
	WhatIf          bool     `json:"what-if"`
	Force           bool     `json:"force"`
	IgnoreValues    bool     `json:"ignore-values"`
	Include         Include  `json:"include"`
	Filter          Filter   `json:"filter"`
	Debug           bool     `json:"debug"`
	LogFormat       string   `json:"log-format"`
	MetricsTextfile string   `json:"metrics-textfile"`
}

type Auth struct {
	Mode         string `json:"mode"`
	ClientId     string `json:"client-id"`
	ClientSecret string `json:"client-secret"`
}

type AppScope struct {
	Subscription  string `json:"subscription"`
	ResourceGroup string `json:"resource-group"`
	App           string `json:"app"`
}

type Include struct {
	AppSettings       bool `json:"app-settings"`
	ConnectionStrings bool `json:"connection-strings"`
	GeneralConfig     bool `json:"general-config"`
}

type Filter struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Configuration options
const (
	Tenant                   = "tenant"
	AuthMode                 = "auth.mode"
	AuthClientId             = "auth.client-id"
	AuthClientSecret         = "auth.client-secret"
	Subscription             = "subscription"
	ResourceGroup            = "resource-group"
	App                      = "app"
	CSV                      = "csv"
	SourceSubscription       = "source.subscription"
	SourceResourceGroup      = "source.resource-group"
	SourceApp                = "source.app"
	TargetSubscription       = "target.subscription"
	TargetResourceGroup      = "target.resource-group"
	TargetApp                = "target.app"
	Output                   = "output"
	Format                   = "format"
	JSON                     = "json"
	WhatIf                   = "what-if"
	Force                    = "force"
	IgnoreValues             = "ignore-values"
	IncludeAppSettings       = "include.app-settings"
	IncludeConnectionStrings = "include.connection-strings"
	IncludeGeneralConfig     = "include.general-config"
	FilterInclude            = "filter.include"
	FilterExclude            = "filter.exclude"
	Debug                    = "debug"
	LogFormat                = "log-format"
	MetricsTextfile          = "metrics-textfile"
)

func init() {
	// Automatically read configuration options from environment variables.
	// e.g. --auth.client-id will be configurable using APPSVCMIGRATOR_AUTH_CLIENT_ID.
	viper.SetEnvPrefix("APPSVCMIGRATOR")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Read configuration file from working directory and/or /etc.
	// File formats supported include JSON, TOML, YAML, HCL, envfile and Java properties config files
	viper.SetConfigName("appsvcmigrator")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/appsvcmigrator")
}

// GlobalFlags registers the options shared by every command.
func GlobalFlags(fs *flag.FlagSet) {
	fs.String(Tenant, "", "Azure AD tenant ID (or domain) to authenticate against")
	fs.String(AuthMode, "cli", "Authentication mode: 'cli' (reuse 'az login'), 'default' (azidentity default chain) or 'client-secret'")
	fs.String(AuthClientId, "", "Client ID for service principal authentication")
	fs.String(AuthClientSecret, "", "Client secret for service principal authentication")
	fs.Bool(Debug, false, "Debug mode toggle; also enables Azure SDK request logging")
	fs.String(LogFormat, "text", "Log format: 'text' or 'json'")
	fs.String(MetricsTextfile, "", "If set, write run metrics in Prometheus text format to this file when done")
}

func ScopeFlags(fs *flag.FlagSet) {
	fs.String(Subscription, "", "Subscription ID; all subscriptions in the tenant if empty")
	fs.String(ResourceGroup, "", "Resource group to limit the operation to")
	fs.String(App, "", "App name to limit the operation to")
}

func PairFlags(fs *flag.FlagSet) {
	fs.String(SourceSubscription, "", "Subscription ID of the source app")
	fs.String(SourceResourceGroup, "", "Resource group of the source app")
	fs.String(SourceApp, "", "Name of the source app")
	fs.String(TargetSubscription, "", "Subscription ID of the target app; defaults to the source subscription")
	fs.String(TargetResourceGroup, "", "Resource group of the target app")
	fs.String(TargetApp, "", "Name of the target app")
}

func CSVFlag(fs *flag.FlagSet, usage string) {
	fs.String(CSV, "", usage)
}

func OutputFlags(fs *flag.FlagSet) {
	fs.String(Output, "", "Path of the report file; stdout only if empty")
	fs.String(Format, FormatText, "Report format: 'text', 'json' or 'yaml'")
	fs.Bool(JSON, false, "Shorthand for --format=json")
}

func WhatIfFlag(fs *flag.FlagSet) {
	fs.Bool(WhatIf, false, "Show what would change without writing anything")
}

func ForceFlag(fs *flag.FlagSet, usage string) {
	fs.Bool(Force, false, usage)
}

func IgnoreValuesFlag(fs *flag.FlagSet) {
	fs.Bool(IgnoreValues, false, "Compare app settings by name only, ignoring their values")
}

func CopyFlags(fs *flag.FlagSet) {
	fs.Bool(IncludeAppSettings, true, "Copy app settings")
	fs.Bool(IncludeConnectionStrings, true, "Copy connection strings")
	fs.Bool(IncludeGeneralConfig, true, "Copy general configuration (always on, TLS, FTPS, runtime stack etc.)")
	fs.StringSlice(FilterInclude, nil, "Only copy settings whose name matches one of these glob patterns")
	fs.StringSlice(FilterExclude, nil, "Never copy settings whose name matches one of these glob patterns")
}

// Print out all configuration options except secret stuff.
func (c Config) Print(redacted []string) {
	ok := func(key string) bool {
		for _, forbiddenKey := range redacted {
			if forbiddenKey == key {
				return false
			}
		}
		return true
	}

	var keys sort.StringSlice = viper.AllKeys()

	keys.Sort()
	for _, key := range keys {
		if ok(key) {
			log.Debugf("%s: %s", key, viper.GetString(key))
		} else {
			log.Debugf("%s: ***REDACTED***", key)
		}
	}
}

func (c Config) Validate(required []string) error {
	errs := make([]string, 0)

	for _, key := range required {
		if len(viper.GetString(key)) == 0 {
			errs = append(errs, key)
		}
	}
	for _, key := range errs {
		log.Errorf("required key '%s' not configured", key)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfiguration, strings.Join(errs, ", "))
	}
	return nil
}

// ReportFormat resolves --json and --format into one of the Format constants.
func (c Config) ReportFormat() (string, error) {
	if c.JSON {
		return FormatJSON, nil
	}
	switch strings.ToLower(c.Format) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported output format '%s'", c.Format)
}

func decoderHook(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
	dc.ErrorUnused = true
}

// New reads the configuration file (if any), binds the given flags and decodes everything into a Config.
func New(flags *flag.FlagSet) (*Config, error) {
	var err error
	var cfg Config

	err = viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// cobra adds a help flag to every command; it is not part of the configuration.
	flags.VisitAll(func(f *flag.Flag) {
		if f.Name == "help" || err != nil {
			return
		}
		err = viper.BindPFlag(f.Name, f)
	})
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&cfg, decoderHook)
	if err != nil {
		return nil, err
	}

	if len(cfg.Target.Subscription) == 0 {
		cfg.Target.Subscription = cfg.Source.Subscription
	}

	return &cfg, nil
}
