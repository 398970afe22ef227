package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"robodelivery/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	BackendKafka = "kafka"
	BackendMQTT  = "mqtt"
	BackendRedis = "redis"

	// Robots step at most once a second: cron.Every rounds anything
	// shorter up to one second.
	minCadence = time.Second
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	StoreDriver string
	LayoutID    string
	LayoutFile  string

	RobotMinBattery  int
	OutboundCadence  time.Duration
	ReturnCadence    time.Duration
	ReadyOrderSweep  string
	ReadyOrderBatch  int
	OrderReadyListen bool

	EventBackends    []string
	KafkaHost        string
	KafkaTopicPrefix string
	MQTTBroker       string
	MQTTClientID     string
	MQTTTopicPrefix  string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisPrefix      string

	LogLevel slog.Level
}

// LoadConfig reads flags from args, then the env file the flags name, then
// the process environment. Variables already set in the environment win
// over the env file; --layout-file and --store win over both.
func LoadConfig(args []string) (Config, error) {
	flags := pflag.NewFlagSet("robodelivery", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "file with environment variables, ignored if missing")
	layoutFile := flags.String("layout-file", "", "YAML floor layout to seed the layout store with")
	store := flags.String("store", "", "store driver: postgres or memory")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", *envFile, err)
	}

	p := envParser{}
	cfg := Config{
		HTTPPort:   p.text("HTTP_PORT", "8080"),
		DBHost:     p.text("DB_HOST", "localhost"),
		DBPort:     p.text("DB_PORT", "5432"),
		DBUser:     p.text("DB_USER", ""),
		DBPassword: p.text("DB_PASSWORD", ""),
		DBName:     p.text("DB_NAME", ""),
		DBSslMode:  p.text("DB_SSLMODE", "disable"),

		StoreDriver: p.text("STORE_DRIVER", StorePostgres),
		LayoutID:    p.text("LAYOUT_ID", "main"),
		LayoutFile:  p.text("LAYOUT_FILE", ""),

		RobotMinBattery:  p.number("ROBOT_MIN_BATTERY", 20),
		OutboundCadence:  p.duration("ROBOT_OUTBOUND_CADENCE", time.Second),
		ReturnCadence:    p.duration("ROBOT_RETURN_CADENCE", time.Second),
		ReadyOrderSweep:  p.text("READY_ORDER_SWEEP", "*/5 * * * * *"),
		ReadyOrderBatch:  p.number("READY_ORDER_BATCH", 50),
		OrderReadyListen: p.flag("ORDER_READY_LISTEN", true),

		EventBackends:    p.list("EVENT_BACKENDS"),
		KafkaHost:        p.text("KAFKA_HOST", ""),
		KafkaTopicPrefix: p.text("KAFKA_TOPIC_PREFIX", "robodelivery"),
		MQTTBroker:       p.text("MQTT_BROKER", ""),
		MQTTClientID:     p.text("MQTT_CLIENT_ID", "robodelivery"),
		MQTTTopicPrefix:  p.text("MQTT_TOPIC_PREFIX", "robodelivery"),
		RedisAddr:        p.text("REDIS_ADDR", ""),
		RedisPassword:    p.text("REDIS_PASSWORD", ""),
		RedisDB:          p.number("REDIS_DB", 0),
		RedisPrefix:      p.text("REDIS_PREFIX", "robodelivery"),

		LogLevel: p.level("LOG_LEVEL", slog.LevelInfo),
	}
	if *layoutFile != "" {
		cfg.LayoutFile = *layoutFile
	}
	if *store != "" {
		cfg.StoreDriver = *store
	}

	if err := errors.Join(append(p.errs, cfg.Validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort == "" {
		problems = append(problems, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	switch c.StoreDriver {
	case StoreMemory:
		if c.LayoutFile == "" {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause(
				"LAYOUT_FILE", errors.New("the memory store starts empty and needs a layout file")))
		}
	case StorePostgres:
		if c.DBUser == "" || c.DBName == "" {
			problems = append(problems, errs.NewValueIsRequiredError("DB_USER and DB_NAME"))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"STORE_DRIVER", fmt.Errorf("unknown store %q", c.StoreDriver)))
	}
	if c.LayoutID == "" && c.LayoutFile == "" {
		problems = append(problems, errs.NewValueIsRequiredError("LAYOUT_ID"))
	}
	if c.RobotMinBattery < 0 || c.RobotMinBattery > 100 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("ROBOT_MIN_BATTERY", c.RobotMinBattery, 0, 100))
	}
	if c.OutboundCadence < minCadence {
		problems = append(problems, errs.NewValueIsOutOfRangeError("ROBOT_OUTBOUND_CADENCE", c.OutboundCadence, minCadence, "any"))
	}
	if c.ReturnCadence < minCadence {
		problems = append(problems, errs.NewValueIsOutOfRangeError("ROBOT_RETURN_CADENCE", c.ReturnCadence, minCadence, "any"))
	}
	if c.ReadyOrderBatch <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("READY_ORDER_BATCH"))
	}
	for _, backend := range c.EventBackends {
		switch backend {
		case BackendKafka:
			if c.KafkaHost == "" {
				problems = append(problems, errs.NewValueIsRequiredError("KAFKA_HOST"))
			}
		case BackendMQTT:
			if c.MQTTBroker == "" {
				problems = append(problems, errs.NewValueIsRequiredError("MQTT_BROKER"))
			}
		case BackendRedis:
			if c.RedisAddr == "" {
				problems = append(problems, errs.NewValueIsRequiredError("REDIS_ADDR"))
			}
		default:
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"EVENT_BACKENDS", fmt.Errorf("unknown backend %q", backend)))
		}
	}
	return errors.Join(problems...)
}

// DSN is the libpq connection string of the fleet database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) HasBackend(name string) bool {
	return slices.Contains(c.EventBackends, name)
}

// KafkaBrokers splits the comma separated KAFKA_HOST.
func (c Config) KafkaBrokers() []string {
	return splitList(c.KafkaHost)
}

// envParser collects every malformed variable instead of stopping at the first.
type envParser struct {
	errs []error
}

func (p *envParser) text(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (p *envParser) number(key string, def int) int {
	v := p.text(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return n
}

func (p *envParser) flag(key string, def bool) bool {
	v := p.text(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return b
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v := p.text(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return d
}

func (p *envParser) level(key string, def slog.Level) slog.Level {
	v := p.text(key, "")
	if v == "" {
		return def
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return level
}

func (p *envParser) list(key string) []string {
	return splitList(p.text(key, ""))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
