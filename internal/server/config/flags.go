package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/flagx"
	"github.com/dmitrijs2005/tasktracker/internal/timex"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":5000")
//	-g string     gRPC health bind address, empty disables
//	-d string     PostgreSQL DSN
//	-m int        max open DB connections
//	-w duration   connection hold warning threshold (e.g., "5s")
//	-s string     JWT HMAC secret key
//	-t duration   token validity (e.g., "7d", "12h")
//	-b int        bcrypt cost
//	-l string     log format: json, text or logrus
//
// Only the flags above are considered; everything else in os.Args is
// filtered out with flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-m", "-w", "-s", "-t", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.DBMaxOpenConns, "m", config.DBMaxOpenConns, "max open database connections")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (json, text, logrus)")

	holdWarning := timex.Duration{Duration: config.ConnHoldWarning}
	fs.Var(&holdWarning, "w", "connection hold warning threshold")
	tokenValidity := timex.Duration{Duration: config.TokenValidityDuration}
	fs.Var(&tokenValidity, "t", "token validity duration")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ConnHoldWarning = holdWarning.Duration
	config.TokenValidityDuration = tokenValidity.Duration
}
