// Package mqtt provides MQTT client connectivity for the fleetgate gateway.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// fleetgate uses MQTT as the bus between the gateway and fleet agents.
// Command requests are published to per-request topics and agents answer
// on the matching reply topic; the broker decouples the gateway from
// agent implementations.
//
//	fleetgate ↔ MQTT Broker ↔ Fleet Agents
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all command replies
//	err = client.Subscribe(mqtt.Topics{}.AllCommandReplies(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish a command request
//	topic := mqtt.Topics{}.CommandRequest("6f1c9a32")
//	client.Publish(topic, []byte(`{"id":"6f1c9a32","cmd":{"fun":"test.ping"}}`), 1, false)
package mqtt
