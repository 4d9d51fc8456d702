package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/var/run/mysqld/mysqld.sock)
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	// Default commission rate in percent, used to seed the settings table
	// when no commission_rate row exists yet.
	CommissionRate string `env:"COMMISSION_RATE" envDefault:"10"`

	// Cron spec for the auction-closer worker.
	CloserSchedule string `env:"CLOSER_SCHEDULE" envDefault:"@every 30s"`

	// Hosted payment page of the external gateway.
	GatewayBaseURL string `env:"GATEWAY_BASE_URL" envDefault:"https://pay.example.com"`

	// Comma-separated uids allowed on the admin surface (payout review,
	// dispute resolution).
	AdminUIDs string `env:"ADMIN_UIDS" envDefault:""`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"LOG_ENCODING" envDefault:"json"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
