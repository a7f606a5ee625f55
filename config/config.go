package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SchedulingConfig holds engine-wide scheduling limits. Per-clinic operating
// hours live in the clinic_settings table, not here.
type SchedulingConfig struct {
	SlotIntervalMinutes int
	MaxGroupSegments    int
	MinDurationMinutes  int
	MaxDurationMinutes  int
	ReminderLeadTime    time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	reminderLead, err := time.ParseDuration(viper.GetString("REMINDER_LEAD_TIME"))
	if err != nil {
		reminderLead = 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			Name:          viper.GetString("DB_NAME"),
			MigrationsDir: viper.GetString("DB_MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Scheduling: SchedulingConfig{
			SlotIntervalMinutes: viper.GetInt("SCHEDULING_SLOT_INTERVAL_MINUTES"),
			MaxGroupSegments:    viper.GetInt("SCHEDULING_MAX_GROUP_SEGMENTS"),
			MinDurationMinutes:  viper.GetInt("SCHEDULING_MIN_DURATION_MINUTES"),
			MaxDurationMinutes:  viper.GetInt("SCHEDULING_MAX_DURATION_MINUTES"),
			ReminderLeadTime:    reminderLead,
		},
	}

	if config.Scheduling.SlotIntervalMinutes <= 0 {
		config.Scheduling.SlotIntervalMinutes = 15
	}
	if config.Scheduling.MaxGroupSegments <= 0 {
		config.Scheduling.MaxGroupSegments = 10
	}
	if config.Scheduling.MinDurationMinutes <= 0 {
		config.Scheduling.MinDurationMinutes = 5
	}
	if config.Scheduling.MaxDurationMinutes <= 0 {
		config.Scheduling.MaxDurationMinutes = 480
	}
	if config.DB.MigrationsDir == "" {
		config.DB.MigrationsDir = "db/migrations"
	}

	return config, nil
}
