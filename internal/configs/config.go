package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type RESTconfig struct {
	PORT string
}

type StdoutLogConfig struct {
	Level string
	JSON  bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// SourceConfig - подключение к базе одного источника. Пустой URL - источник не подключен.
type SourceConfig struct {
	DatabaseURL string
}

type ReconcileConfig struct {
	BatchSize           int
	ValidateHouseNumber bool
	ValidateFloor       bool
	ValidateFloors      bool
	ExcludeCrimea       bool
	UpdateFailureFatal  bool
	// статические курсы на случай пустой таблицы currencies
	RatesUSD float64
	RatesEUR float64
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig

	DestinationDatabaseURL string
	Sources                map[string]SourceConfig
	SourceCharset          string
	SourceFetchRPS         int

	Reconcile ReconcileConfig
	RabbitMQ  RabbitMQConfig
	Rest      RESTconfig

	RunJournalPath string
	RunOnStart     []string
}

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "reconciliation-service")

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.JSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.DestinationDatabaseURL = os.Getenv("DESTINATION_DATABASE_URL")
	if cfg.DestinationDatabaseURL == "" {
		return nil, fmt.Errorf("DESTINATION_DATABASE_URL environment variable is required")
	}

	cfg.Sources = make(map[string]SourceConfig)
	for name, key := range map[string]string{
		"avito": "SOURCE_AVITO_DATABASE_URL",
		"cian":  "SOURCE_CIAN_DATABASE_URL",
	} {
		if url := os.Getenv(key); url != "" {
			cfg.Sources[name] = SourceConfig{DatabaseURL: url}
		}
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("at least one of SOURCE_AVITO_DATABASE_URL, SOURCE_CIAN_DATABASE_URL is required")
	}
	cfg.SourceCharset = getEnvAsString("SOURCE_CHARSET", "utf8")
	cfg.SourceFetchRPS = getEnvAsInt("SOURCE_FETCH_RPS", 0)

	cfg.Reconcile = ReconcileConfig{
		BatchSize:           getEnvAsInt("RECONCILE_BATCH_SIZE", 1000),
		ValidateHouseNumber: getEnvAsBool("VALIDATE_HOUSE_NUMBER", true),
		ValidateFloor:       getEnvAsBool("VALIDATE_FLOOR", true),
		ValidateFloors:      getEnvAsBool("VALIDATE_FLOORS", true),
		ExcludeCrimea:       getEnvAsBool("EXCLUDE_CRIMEA", false),
		UpdateFailureFatal:  getEnvAsBool("UPDATE_FAILURE_FATAL", true),
		RatesUSD:            getEnvAsFloat("RATES_USD", 0),
		RatesEUR:            getEnvAsFloat("RATES_EUR", 0),
	}
	if cfg.Reconcile.BatchSize <= 0 {
		return nil, fmt.Errorf("RECONCILE_BATCH_SIZE must be positive, got %d", cfg.Reconcile.BatchSize)
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
	}

	cfg.Rest.PORT = getEnvAsString("PORT", "8090")
	cfg.RunJournalPath = getEnvAsString("RUN_JOURNAL_PATH", "runs.db")
	cfg.RunOnStart = getEnvAsList("RUN_ON_START")
	for _, name := range cfg.RunOnStart {
		if _, ok := cfg.Sources[name]; !ok {
			return nil, fmt.Errorf("RUN_ON_START lists source %q that has no database configured", name)
		}
	}

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %g\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsList: "avito, cian" -> [avito cian]; пустые элементы отбрасываются.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
