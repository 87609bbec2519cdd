package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hermodvoice/hermod/hermes"
	"github.com/hermodvoice/hermod/internal/logging"
)

var hotwordModel string

// HotwordCmd publishes a synthetic wakeword detection.
var HotwordCmd = &cobra.Command{
	Use:   "hotword",
	Short: "Publish a synthetic wakeword detection",
	Run: func(cmd *cobra.Command, args []string) {
		msg := hermes.HotwordDetected{
			ModelID: hotwordModel,
			SiteID:  resolveSiteID(),
		}

		payload, err := json.Marshal(msg)
		if err != nil {
			logging.Log.Errorf("[hermodctl] error: %v", err)
			return
		}

		transport, err := connectTransport()
		if err != nil {
			logging.Log.Errorf("[hermodctl] error: %v", err)
			return
		}
		defer transport.Disconnect()

		topic := fmt.Sprintf("hermes/hotword/%s/detected", hotwordModel)
		if err := transport.Publish(topic, payload); err != nil {
			logging.Log.Errorf("[hermodctl] error: %v", err)
			return
		}
		logging.Log.Infof("[hermodctl] published %s", topic)
	},
}

func init() {
	HotwordCmd.Flags().StringVarP(&hotwordModel, "model", "m", "default", "Wakeword model id")
	HotwordCmd.Flags().StringVarP(&brokerName, "broker", "b", "", "Broker target from the config")
	HotwordCmd.Flags().StringVarP(&siteID, "site", "s", "", "Site id")
}
