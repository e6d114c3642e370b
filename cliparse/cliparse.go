package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/smartvote/auth"
)

type Config struct {
	Port            int
	DatabaseURL     string
	SeedFile        string
	SessionSalt     string
	SimulateLatency bool
	OTPLength       int
}

const (
	defaultPort      = 3318
	defaultDatabase  = ":memory:"
	defaultOTPLength = 6
)

// ParseFlags reads flags, then the environment (after loading the env file
// if present), then defaults. Flags win over the environment.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("smartvote", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "SQLite data source (default in-memory)")
	fs.StringVar(&cfg.SeedFile, "seed", "", "TOML seed dataset (default built-in demo)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Salt for hashing client IPs in logs (prefer env)")

	fs.BoolVar(&cfg.SimulateLatency, "latency", true, "Simulate backend response times")
	fs.IntVar(&cfg.OTPLength, "otp-length", 0, "One-time code length")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := loadEnvFile(envFile, set["env-file"]); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabase
	}

	if cfg.SeedFile == "" {
		cfg.SeedFile = os.Getenv("SEED_FILE")
	}

	if !set["latency"] {
		if v := os.Getenv("SIMULATE_LATENCY"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid SIMULATE_LATENCY env variable")
			}
			cfg.SimulateLatency = b
		}
	}

	if cfg.OTPLength == 0 {
		if v := os.Getenv("OTP_LENGTH"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid OTP_LENGTH env variable")
			}
			cfg.OTPLength = n
		} else {
			cfg.OTPLength = defaultOTPLength
		}
	}
	if cfg.OTPLength < 4 || cfg.OTPLength > 10 {
		return Config{}, fmt.Errorf("otp length %d out of range 4-10", cfg.OTPLength)
	}

	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		salt, err := auth.GenerateID(16)
		if err != nil {
			return Config{}, fmt.Errorf("generating session salt: %w", err)
		}
		cfg.SessionSalt = salt
	}

	return cfg, nil
}

// loadEnvFile loads path without overriding variables already set. A
// missing default file is not an error; a missing explicit one is.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}
