package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hermodvoice/hermod/internal/logging"
)

// WatchCmd subscribes to topic filters and prints every delivered message
// until interrupted.
var WatchCmd = &cobra.Command{
	Use:   "watch <filter>...",
	Short: "Watch live broker traffic on topic filters",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		transport, err := connectTransport()
		if err != nil {
			logging.Log.Errorf("[hermodctl] error: %v", err)
			return
		}
		defer transport.Disconnect()

		err = transport.Subscribe(func(topic string, payload []byte) {
			fmt.Printf("%s %s\n", topic, payload)
		}, args...)
		if err != nil {
			logging.Log.Errorf("[hermodctl] error: %v", err)
			return
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
	},
}

func init() {
	WatchCmd.Flags().StringVarP(&brokerName, "broker", "b", "", "Broker target from the config")
}
