// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite data source (default: ":memory:")
  - SeedFile: TOML dataset loaded at startup (default: built-in demo)
  - SessionSalt: Salt for hashed client IPs in logs (random when unset)
  - SimulateLatency: Delay login, import and processing calls (default: true)
  - OTPLength: One-time code length, 4 to 10 (default: 6)

# CLI Flags

	-p              Server port
	-d              Database URL
	-seed           Seed dataset
	-session-salt   Session salt
	-latency        Simulate latency
	-otp-length     One-time code length
	-env-file       Dotenv file (default ".env")

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	SEED_FILE        → -seed
	SESSION_SALT     → -session-salt
	SIMULATE_LATENCY → -latency
	OTP_LENGTH       → -otp-length

CLI flags take precedence over environment variables. The env file is
loaded with github.com/joho/godotenv before the fallback and never overrides
variables that are already set. A missing ".env" is ignored; a missing file
passed explicitly with -env-file is an error.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(deps, cfg)
*/
package cliparse
