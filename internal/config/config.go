// Package config loads the settings of netsim from defaults, an optional
// config file and NETSIM_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/David-Antunes/netsim/internal"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DefaultFile is read when present and no file is given explicitly.
const DefaultFile = "netsim.env"

type Config struct {
	Interface string `mapstructure:"interface"`
	TC        string `mapstructure:"tc"`

	ClickProcess string        `mapstructure:"click_process"`
	ClickConf    Path          `mapstructure:"click_conf"`
	KillGrace    time.Duration `mapstructure:"kill_grace"`

	ApacheCtl     string `mapstructure:"apache_ctl"`
	ApacheConf    Path   `mapstructure:"apache_conf"`
	ApacheDocRoot Path   `mapstructure:"apache_docroot"`
	ApachePort    int    `mapstructure:"apache_port"`

	GraphDB         string `mapstructure:"graphdb"`
	GraphDBUser     string `mapstructure:"graphdb_user"`
	GraphDBPassword string `mapstructure:"graphdb_password"`

	// Set from the command line only.
	Log     Path   `mapstructure:"log"`
	Events  Path   `mapstructure:"events"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`
	DryRun  bool   `mapstructure:"dry-run"`
	File    string `mapstructure:"config"`
}

// Path is a file path that may start with ~.
type Path string

func SetDefaults(v *viper.Viper) {
	v.SetDefault("interface", internal.DefaultInterface)
	v.SetDefault("tc", "tc")
	v.SetDefault("click_process", "click")
	v.SetDefault("click_conf", internal.ClickConf)
	v.SetDefault("kill_grace", internal.KillGrace)
	v.SetDefault("apache_ctl", "apachectl")
	v.SetDefault("apache_conf", "/etc/apache2/conf-enabled/netsim.conf")
	v.SetDefault("apache_docroot", "/var/www/html")
	v.SetDefault("apache_port", 80)
	v.SetDefault("graphdb", "")
	v.SetDefault("graphdb_user", "")
	v.SetDefault("graphdb_password", "")
}

// Load reads file into v, or DefaultFile when file is empty and it exists,
// and decodes the result. The file is never written back.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("NETSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		expanded, err := homedir.Expand(file)
		if err != nil {
			return Config{}, err
		}
		v.SetConfigFile(expanded)
		if strings.HasSuffix(expanded, ".env") {
			v.SetConfigType("env")
		}
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", expanded, err)
		}
	}

	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		expandHomeHook,
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, c.Validate()
}

func expandHomeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Path("")) {
		return data, nil
	}
	expanded, err := homedir.Expand(data.(string))
	if err != nil {
		return nil, err
	}
	return Path(expanded), nil
}

func (c Config) Validate() error {
	if c.Interface == "" {
		return errors.New("interface must not be empty")
	}
	if c.ApachePort <= 0 || c.ApachePort > 65535 {
		return fmt.Errorf("invalid apache_port %d", c.ApachePort)
	}
	if c.KillGrace < 0 {
		return errors.New("kill_grace can't be negative")
	}
	return nil
}
