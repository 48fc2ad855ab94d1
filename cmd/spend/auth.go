package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spend/internal/bot"
	"github.com/Veraticus/spend/internal/cli"
	"github.com/Veraticus/spend/internal/common"
	"github.com/Veraticus/spend/internal/config"
	"github.com/Veraticus/spend/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
		Long:  `Authenticate with Google Sheets and check the Telegram bot token.`,
	}

	cmd.AddCommand(authSheetsCmd())
	cmd.AddCommand(authTelegramCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command opens a browser consent page, waits for the redirect on a local
port and stores the refresh token in the config file. Service account
deployments do not need it.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("listen", ":8080", "Address of the local callback server")
	cmd.Flags().Bool("force", false, "Ignore the cached token and run the consent flow again")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret", common.ErrMissingConfig)
	}

	listen, _ := cmd.Flags().GetString("listen")
	tokenFile := filepath.Join(config.Dir(), "sheets-token.json")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	oauthConfig := sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		ListenAddr:   listen,
	}

	authenticate := sheets.GetOrCreateToken
	if force, _ := cmd.Flags().GetBool("force"); force {
		authenticate = sheets.AuthenticateOAuth2Interactive
	}

	token, err := authenticate(ctx, oauthConfig)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.client_id", clientID)
	viper.Set("sheets.client_secret", clientSecret)
	viper.Set("sheets.refresh_token", token.RefreshToken)

	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		fmt.Fprintln(out, cli.FormatWarning("Could not save the refresh token; add this to config.yaml:"))
		fmt.Fprintf(out, "sheets:\n  refresh_token: %q\n", token.RefreshToken)
		return nil
	}

	fmt.Fprintln(out, cli.FormatSuccess("Authentication successful"))
	fmt.Fprintln(out, cli.FormatInfo(cli.SheetIcon+" Google Sheets is ready. Try 'spend locate'."))
	return nil
}

func authTelegramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "telegram",
		Short: "Check the Telegram bot token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			botConfig, err := config.LoadBotConfig()
			if err != nil {
				return err
			}

			api, err := bot.Connect(botConfig.Token)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s Token belongs to @%s", cli.RobotIcon, api.Self.UserName)))
			if len(botConfig.AllowedChats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("bot.allowed_chats is empty; every chat may record expenses"))
			}
			return nil
		},
	}
}

// saveConfig writes the current settings back to the config file in use.
func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(config.Dir(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}
