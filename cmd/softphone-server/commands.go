package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/birddigital/twilio-softphone/pkg/config"
	"github.com/birddigital/twilio-softphone/pkg/logging"
	"github.com/birddigital/twilio-softphone/pkg/telephony"
	"github.com/birddigital/twilio-softphone/pkg/twilio"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server (default)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.addr",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	logger.Info("starting softphone-server",
		"version", version,
		"commit", commit,
		"addr", cfg.Server.Addr)

	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	return srv.run(c.Context)
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a voice access token and print it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "identity",
				Usage: "Client identity embedded in the token",
				Value: telephony.DefaultIdentity,
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Verify the token and print its grant",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			creds := cfg.Credentials()
			if err := creds.ValidateConfiguration(); err != nil {
				return err
			}

			identity := c.String("identity")
			if identity == "" {
				identity = telephony.DefaultIdentity
			}
			token, err := twilio.NewAccessTokenIssuer(creds).IssueCredential(identity, twilio.VoiceGrant{
				OutgoingApplicationSID: creds.AppSID,
				IncomingAllow:          true,
			}, cfg.Twilio.TokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)

			if !c.Bool("verify") {
				return nil
			}
			details, err := twilio.InspectToken(token, creds.APIKeySecret)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "identity: %s\n", details.Identity)
			fmt.Fprintf(c.App.Writer, "application: %s\n", details.OutgoingApplicationSID)
			fmt.Fprintf(c.App.Writer, "incoming: %t\n", details.IncomingAllow)
			fmt.Fprintf(c.App.Writer, "expires: %s\n", details.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
}

func twimlCommand() *cli.Command {
	return &cli.Command{
		Name:  "twiml",
		Usage: "Print the TwiML the voice endpoint returns for a destination",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "to",
				Usage: "Destination number; empty prints the greeting",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger := logging.New(c.App.ErrWriter, cfg.Log.Level, cfg.Log.Format)
			callerID, err := resolveCallerID(cfg, logger)
			if err != nil {
				return err
			}

			doc, err := twilio.NewTwiMLBuilder().BuildCallControlDocument(telephony.RouteInstruction(c.String("to"), callerID))
			if err != nil {
				return err
			}
			_, err = io.WriteString(c.App.Writer, doc+"\n")
			return err
		},
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
