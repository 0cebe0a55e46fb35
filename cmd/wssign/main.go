package main

import (
	"context"
	"fmt"
	"os"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/forestrie/go-sigv4ws/awscreds"
	"github.com/forestrie/go-sigv4ws/config"
	"github.com/forestrie/go-sigv4ws/signer"
)

var version = "0.1.0"

type cli struct {
	configPath string
	debug      bool
	overrides  config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:   "wssign",
		Short: "presigned websocket URL tool",
		Long: `Create SigV4 presigned wss:// URLs for MQTT over websockets.

Credentials are taken from --ak/--sk (and --token), from the config file,
or else from the AWS default chain (environment, shared files, --profile).

Config file (YAML, ${VAR} expanded):
	host_name: xxxx-ats.iot.us-east-1.amazonaws.com
	protocol: wss
	credentials:
	  region: us-east-1`,
		Version:      version,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML config file")
	flags.BoolVarP(&c.debug, "debug", "", false, "print signing trace to stderr")
	flags.StringVarP(&c.overrides.HostName, "host", "H", "", "endpoint host name")
	flags.StringVarP(&c.overrides.Path, "path", "", "", "endpoint path (default /mqtt)")
	flags.StringVarP(&c.overrides.Protocol, "protocol", "", "", "wss or wss-custom-auth")
	flags.StringVarP(&c.overrides.Service, "service", "", "", "signing service name")
	flags.StringVarP(&c.overrides.Credentials.Region, "region", "R", "", "signing region")
	flags.StringVarP(&c.overrides.Credentials.Profile, "profile", "p", "", "profile in shared credentials file")
	flags.StringVarP(&c.overrides.Credentials.AccessKeyID, "ak", "", "", "access key")
	flags.StringVarP(&c.overrides.Credentials.SecretAccessKey, "sk", "", "", "secret key")
	flags.StringVarP(&c.overrides.Credentials.SessionToken, "token", "", "", "session token")

	// url command
	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "print a presigned websocket URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, conn, err := c.prepare(cmd)
			if err != nil {
				return err
			}
			u, err := s.CreateURL(cmd.Context(), conn)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	rootCmd.AddCommand(urlCmd)

	// handshake command
	handshakeCmd := &cobra.Command{
		Use:   "handshake",
		Short: "print URL, subprotocols and headers for the websocket upgrade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, conn, err := c.prepare(cmd)
			if err != nil {
				return err
			}
			hs, err := s.Handshake(cmd.Context(), conn)
			if err != nil {
				return err
			}
			return writeHandshake(cmd, hs)
		},
	}
	rootCmd.AddCommand(handshakeCmd)

	return rootCmd
}

func (c *cli) logger(cmd *cobra.Command) glog.Logger {
	if c.debug {
		return glog.NewLogger(
			glog.WithWriter(cmd.ErrOrStderr()),
			glog.WithLevel("debug"),
		)
	}
	return glog.Nop()
}

func (c *cli) prepare(cmd *cobra.Command) (*signer.URLSigner, signer.ConnectionConfig, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.logger(cmd)

	cfg, err := config.LoadFile(c.configPath, c.overrides)
	if err != nil {
		return nil, signer.ConnectionConfig{}, err
	}
	conn := cfg.ConnectionConfig()

	if signer.Protocol(cfg.Protocol) != signer.ProtocolWSSCustomAuth && !cfg.Credentials.HasStaticKeys() {
		refresher, err := awscreds.Load(ctx, awscreds.LoadOptions{
			Profile: cfg.Credentials.Profile,
			Region:  cfg.Credentials.Region,
			Logger:  logger,
		})
		if err != nil {
			return nil, signer.ConnectionConfig{}, fmt.Errorf("failed to load aws config, %w", err)
		}
		conn.Websocket.Refresher = refresher
	}

	return signer.NewURLSigner(signer.WithLogger(logger)), conn, nil
}

type handshakeOutput struct {
	URL          string            `yaml:"url"`
	Subprotocols []string          `yaml:"subprotocols"`
	Headers      map[string]string `yaml:"headers,omitempty"`
}

func writeHandshake(cmd *cobra.Command, hs signer.Handshake) error {
	out := handshakeOutput{
		URL:          hs.URL,
		Subprotocols: hs.Subprotocols,
	}
	if len(hs.Header) > 0 {
		out.Headers = make(map[string]string, len(hs.Header))
		for key := range hs.Header {
			out.Headers[key] = hs.Header.Get(key)
		}
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	return enc.Encode(out)
}
