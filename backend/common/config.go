package common

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var Version = "v1.0.0"

var (
	Port         = flag.Int("port", 8000, "the listening port")
	PrintVersion = flag.Bool("version", false, "print version and exit")
	PrintHelp    = flag.Bool("help", false, "print help and exit")
)

// Environment-driven settings, loaded once at startup by LoadConfig.
var (
	SQLitePath        = "mcp-linker.db"
	SQLDSN            = ""
	RedisConnString   = ""
	SupabaseJWTSecret = ""
	CORSOrigins       = "*"
)

// LoadConfig reads the optional .env file and resolves all settings.
// Environment variables win over .env values, which godotenv guarantees.
func LoadConfig() {
	_ = godotenv.Load()

	if v := os.Getenv("SQLITE_PATH"); v != "" {
		SQLitePath = v
	}
	SQLDSN = os.Getenv("SQL_DSN")
	RedisConnString = os.Getenv("REDIS_CONN_STRING")
	SupabaseJWTSecret = os.Getenv("SUPABASE_JWT_SECRET")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		CORSOrigins = v
	}
}

func PrintHelpMessage() {
	fmt.Println("MCP-Linker API " + Version)
	fmt.Println("Usage: mcp-linker [--port <port>] [--version] [--help]")
}
