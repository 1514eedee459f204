package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moviops/conductor/internal/bridge"
	discordadapter "github.com/moviops/conductor/internal/bridge/discord"
	slackadapter "github.com/moviops/conductor/internal/bridge/slack"
	"github.com/moviops/conductor/internal/config"
	"github.com/moviops/conductor/internal/db"
)

func newBridgeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "bridge <slack|discord>",
		Short: "Run the chat-platform bridge daemon",
		Long:  "Connects Conductor to Slack (Socket Mode) or Discord so operators can issue commands from chat.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Conductor config file")
	return cmd
}

func runBridge(cmd *cobra.Command, configPath, platform string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	machine, sweeper, err := buildMachine(ctx, cfg, gormDB)
	if err != nil {
		return err
	}
	go sweeper.Run(ctx)

	adapter, defaultPage, channelID, err := createAdapter(cfg, platform)
	if err != nil {
		return err
	}

	daemon, err := bridge.NewDaemon(bridge.DaemonOpts{
		Adapter:     adapter,
		Machine:     machine,
		DefaultPage: defaultPage,
		ChannelID:   channelID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Conductor bridge connected to %s\n", platform)
	return daemon.Run(ctx)
}

// createAdapter builds a platform adapter from the config. Tokens come
// from the environment variables the config names.
func createAdapter(cfg *config.Config, platform string) (bridge.Adapter, string, string, error) {
	switch platform {
	case "slack":
		appToken := os.Getenv(cfg.Slack.AppTokenEnv)
		botToken := os.Getenv(cfg.Slack.BotTokenEnv)
		if appToken == "" || botToken == "" {
			return nil, "", "", fmt.Errorf("bridge: %s and %s must be set for slack", cfg.Slack.AppTokenEnv, cfg.Slack.BotTokenEnv)
		}
		a, err := slackadapter.New(slackadapter.AdapterOpts{
			AppToken:  appToken,
			BotToken:  botToken,
			ChannelID: cfg.Slack.ChannelID,
		})
		return a, cfg.Slack.DefaultPage, cfg.Slack.ChannelID, err
	case "discord":
		token := os.Getenv(cfg.Discord.TokenEnv)
		if token == "" {
			return nil, "", "", fmt.Errorf("bridge: %s must be set for discord", cfg.Discord.TokenEnv)
		}
		a, err := discordadapter.New(discordadapter.AdapterOpts{
			BotToken:  token,
			ChannelID: cfg.Discord.ChannelID,
		})
		return a, cfg.Discord.DefaultPage, cfg.Discord.ChannelID, err
	default:
		return nil, "", "", fmt.Errorf("bridge: unsupported platform %q (slack or discord)", platform)
	}
}
