// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Server Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite (default) or postgres
  - DatabaseURL: connection string (default for sqlite: file:weekpick.db)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - ShareCodeSalt: Secret for share code generation (required)
  - LogLevel: debug, info, warn or error

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-log-level    Log level
	-admin-salt   Admin key salt
	-code-salt    Share code salt

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	LOG_LEVEL       → -log-level
	ADMIN_KEY_SALT  → -admin-salt
	SHARE_CODE_SALT → -code-salt

CLI flags take precedence over environment variables. LoadDotEnv reads a
.env file into the environment first, without overriding variables that are
already set.

# Client Configuration

ParseClientFlags configures cmd/weekpick and returns the leftover arguments
(the subcommand):

	cfg, rest, err := cliparse.ParseClientFlags(os.Args[1:])

Client flags fall back to WEEKPICK_SERVER, WEEKPICK_CODE, WEEKPICK_NAME and
WEEKPICK_STATE.
*/
package cliparse
