// Command hermodctl provides CLI tooling around a Hermod deployment.
// It publishes synthetic protocol messages (intents, hotword detections, raw
// payloads) to the broker and can watch live traffic on topic filters.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hermodvoice/hermod/cmd/hermodctl/cmd"
	"github.com/hermodvoice/hermod/internal/ctlcli"
	"github.com/hermodvoice/hermod/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "hermodctl",
	Short: "Tooling for the Hermod voice-app daemon",
	Long:  `hermodctl publishes synthetic Hermes messages and inspects broker traffic for apps handled by hermodd.`,
}

func main() {
	var err error
	ctlcli.CtlCfg, err = ctlcli.LoadCTLConfig()
	if err != nil {
		logging.Log.Errorf("[hermodctl] Failed to load config: %v", err)
		os.Exit(1)
	}

	if err := logging.Init(logging.Config{Level: ctlcli.CtlCfg.LogLevel, ToStderr: true}); err != nil {
		logging.Log.Errorf("[hermodctl] Failed to init logger: %v", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(cmd.IntentCmd)
	rootCmd.AddCommand(cmd.HotwordCmd)
	rootCmd.AddCommand(cmd.PublishCmd)
	rootCmd.AddCommand(cmd.WatchCmd)
}
