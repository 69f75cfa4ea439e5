package main

import (
	"fmt"
	"os"

	"spring/internal"
	"spring/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "spring",
	Short:         "Random Unsplash photos for new tab widgets",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the photo proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return internal.Serve(cmd.Context(), cfg)
	},
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the verbatim Unsplash relay",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return internal.Relay(cmd.Context(), cfg)
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a photo the way a widget does",
	Long: `Fetch a photo the way a widget does: from the local cache while it is
fresh, otherwise from the proxy at PUBLIC_PROXY_URL.

Examples:
  spring fetch --key collection --value 317099
  spring fetch --key search --value mountains --width 1920 --height 1080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		return internal.Fetch(cmd.Context(), cfg, internal.FetchOptions{
			Key:    key,
			Value:  value,
			Width:  width,
			Height: height,
		}, cmd.OutOrStdout())
	},
}

func init() {
	fetchCmd.Flags().String("key", "collection", "selection kind: collection, search, topic or user")
	fetchCmd.Flags().String("value", "", "collection id or search query")
	fetchCmd.Flags().Int("width", 0, "viewport width for the resized url")
	fetchCmd.Flags().Int("height", 0, "viewport height for the resized url")

	rootCmd.AddCommand(serveCmd, relayCmd, fetchCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
