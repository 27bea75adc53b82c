// Package mqtt provides MQTT client connectivity for Parklot Core.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Parklot publishes its state aggregates (capacity, gate, environment) as
// retained messages so site integrations — signage, building management,
// analytics collectors — can follow the lot without polling the HTTP API.
//
//	Parklot Core → MQTT Broker → Site integrations
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Publish the retained capacity document
//	topic := mqtt.Topics{}.Capacity()
//	client.Publish(topic, []byte(`{"available":3,"total":4}`), 1, true)
package mqtt
