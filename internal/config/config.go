package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token      string
		TimeoutSec int `mapstructure:"timeout_sec" validate:"gte=0"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string `validate:"required"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN string `validate:"required"`
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	API struct {
		BaseURL string        `mapstructure:"base_url" validate:"required,url"`
		Token   string        // токен по умолчанию, если в чате свой не задан
		Timeout time.Duration `validate:"gt=0"`
	} `mapstructure:"api"`

	UI struct {
		PageSize              int           `mapstructure:"page_size" validate:"gt=0"`
		SearchDebounce        time.Duration `mapstructure:"search_debounce" validate:"gte=0"`
		DeleteDelay           time.Duration `mapstructure:"delete_delay" validate:"gte=0"`
		RestoreOnFailedDelete bool          `mapstructure:"restore_on_failed_delete"`
		UnitsBulkLimit        int           `mapstructure:"units_bulk_limit" validate:"gt=0"`
	} `mapstructure:"ui"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("telegram.timeout_sec", 30)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("api.base_url", "https://api.storage-desk.local/api")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("ui.page_size", 10)
	v.SetDefault("ui.search_debounce", 500*time.Millisecond)
	v.SetDefault("ui.delete_delay", 250*time.Millisecond)
	v.SetDefault("ui.units_bulk_limit", 1000)
}

// секреты обычно не лежат в yaml; без BindEnv viper не отдаст их в Unmarshal
var envOnly = []string{"telegram.token", "api.token", "postgres.dsn"}

func Load(path string) (Config, error) {
	// .env необязателен: в проде переменные приходят из окружения
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnly {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if err := validator.New().Struct(c); err != nil {
		return c, err
	}
	return c, nil
}
