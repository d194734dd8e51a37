// Package main provides the entry point for softphone-server.
//
// softphone-server issues voice access tokens to browser softphones and
// answers Twilio's voice webhook with TwiML that dials the requested number.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/birddigital/twilio-softphone/pkg/config"
)

// Build information, set via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "softphone-server",
		Usage:   "Voice access tokens and TwiML routing for browser softphones",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"SOFTPHONE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Dotenv file loaded before configuration; existing variables win",
				EnvVars: []string{"SOFTPHONE_ENV_FILE"},
				Value:   ".env",
			},
		},
		Before: func(c *cli.Context) error {
			return config.LoadEnvFile(c.String("env-file"))
		},
		Action: serveAction,
		Commands: []*cli.Command{
			serveCommand(),
			tokenCommand(),
			twimlCommand(),
		},
	}
}
