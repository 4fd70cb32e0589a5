package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gpatracker/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
//	-a string     HTTP bind address (e.g. ":5000")
//	-g string     gRPC health bind address
//	-d string     PostgreSQL DSN
//	-s string     session token HMAC secret
//	-t duration   session token validity
//	-r duration   reset token validity
//	-w duration   reset token sweep interval
//	-f string     frontend base URL for email links
//	-m string     SMTP host
//	-l string     log level (debug, info, warn, error)
//
// Only these flags are looked at; -c and -e belong to the JSON and env steps.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-r", "-w", "-f", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run the gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionTokenTTL, "t", config.SessionTokenTTL, "session token validity")
	fs.DurationVar(&config.ResetTokenTTL, "r", config.ResetTokenTTL, "reset token validity")
	fs.DurationVar(&config.SweepInterval, "w", config.SweepInterval, "reset token sweep interval")
	fs.StringVar(&config.FrontendURL, "f", config.FrontendURL, "frontend base URL")
	fs.StringVar(&config.SMTPHost, "m", config.SMTPHost, "SMTP host")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
