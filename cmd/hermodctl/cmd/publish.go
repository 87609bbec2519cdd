package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hermodvoice/hermod/internal/logging"
)

// PublishCmd sends a raw payload to an arbitrary topic.
var PublishCmd = &cobra.Command{
	Use:   "publish <topic> [payload]",
	Short: "Publish a raw payload to a topic",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		topic := args[0]
		var payload []byte
		if len(args) == 2 {
			payload = []byte(args[1])
		}

		transport, err := connectTransport()
		if err != nil {
			logging.Log.Errorf("[hermodctl] error: %v", err)
			return
		}
		defer transport.Disconnect()

		if err := transport.Publish(topic, payload); err != nil {
			logging.Log.Errorf("[hermodctl] error: %v", err)
			return
		}
		logging.Log.Infof("[hermodctl] published %s", topic)
	},
}

func init() {
	PublishCmd.Flags().StringVarP(&brokerName, "broker", "b", "", "Broker target from the config")
}
