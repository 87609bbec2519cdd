// Package cmd provides the hermodctl subcommands for publishing synthetic
// Hermes messages and watching broker traffic. Every command connects through
// a broker target from the client-side configuration.
package cmd

import (
	"fmt"

	"github.com/google/uuid"

	_ "github.com/hermodvoice/hermod/internal/transport/mqttlink"

	"github.com/hermodvoice/hermod/interfaces"
	"github.com/hermodvoice/hermod/internal/ctlcli"
)

var (
	brokerName string
	siteID     string
)

// connectTransport opens and connects a transport to the selected broker.
// The caller is responsible for Disconnect.
func connectTransport() (interfaces.Transport, error) {
	broker, err := ctlcli.CtlCfg.Broker(brokerName)
	if err != nil {
		return nil, err
	}

	transport, err := interfaces.OpenTransport("mqtt", interfaces.Config{
		Host:     broker.Host,
		Port:     broker.Port,
		Username: broker.Username,
		Password: broker.Password,
		ClientID: fmt.Sprintf("hermodctl-%.8s", uuid.NewString()),
	})
	if err != nil {
		return nil, err
	}

	if err := transport.Connect(); err != nil {
		return nil, err
	}
	return transport, nil
}

// resolveSiteID prefers the --site flag over the configured default.
func resolveSiteID() string {
	if siteID != "" {
		return siteID
	}
	return ctlcli.CtlCfg.SiteID
}
