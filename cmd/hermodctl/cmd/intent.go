package cmd

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hermodvoice/hermod/hermes"
	"github.com/hermodvoice/hermod/internal/logging"
)

var (
	intentInput string
	sessionID   string
	noSession   bool
	confidence  float64
	slotArgs    []string
)

// IntentCmd publishes a synthetic recognized intent, as the NLU would after a
// successful resolution. Useful for exercising app handlers without speech.
var IntentCmd = &cobra.Command{
	Use:   "intent <name>",
	Short: "Publish a synthetic recognized intent",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		msg := hermes.NluIntent{
			Input:  intentInput,
			Intent: hermes.Intent{IntentName: name, ConfidenceScore: confidence},
			SiteID: resolveSiteID(),
			ID:     uuid.NewString(),
		}
		if msg.Input == "" {
			msg.Input = name
		}
		if !noSession {
			msg.SessionID = sessionID
			if msg.SessionID == "" {
				msg.SessionID = uuid.NewString()
			}
		}

		slots, err := parseSlots(slotArgs)
		if err != nil {
			logging.Log.Errorf("[hermodctl] error: %v", err)
			return
		}
		msg.Slots = slots

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

		topic := hermes.IntentTopic(name)
		if err := transport.Publish(topic, payload); err != nil {
			logging.Log.Errorf("[hermodctl] error: %v", err)
			return
		}
		logging.Log.Infof("[hermodctl] published %s (session %s)", topic, msg.SessionID)
	},
}

// parseSlots turns --slot name=value pairs into Hermes slots. Numeric values
// become Number slots, everything else Custom.
func parseSlots(args []string) ([]hermes.Slot, error) {
	var slots []hermes.Slot
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, errInvalidSlot(arg)
		}

		value := hermes.SlotValue{Kind: "Custom", Value: raw}
		if number, err := strconv.ParseFloat(raw, 64); err == nil {
			value = hermes.SlotValue{Kind: "Number", Value: number}
		}

		slots = append(slots, hermes.Slot{
			Entity:     name,
			SlotName:   name,
			RawValue:   raw,
			Value:      value,
			Confidence: 1,
		})
	}
	return slots, nil
}

type errInvalidSlot string

func (e errInvalidSlot) Error() string {
	return "invalid slot (want name=value): " + string(e)
}

func init() {
	IntentCmd.Flags().StringVarP(&intentInput, "input", "i", "", "Utterance text carried by the intent")
	IntentCmd.Flags().StringVar(&sessionID, "session", "", "Session id (generated when empty)")
	IntentCmd.Flags().BoolVar(&noSession, "no-session", false, "Publish without any session id")
	IntentCmd.Flags().Float64Var(&confidence, "confidence", 1, "NLU confidence score")
	IntentCmd.Flags().StringArrayVar(&slotArgs, "slot", nil, "Slot as name=value (repeatable)")
	IntentCmd.Flags().StringVarP(&brokerName, "broker", "b", "", "Broker target from the config")
	IntentCmd.Flags().StringVarP(&siteID, "site", "s", "", "Site id")
}
