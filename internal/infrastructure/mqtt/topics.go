package mqtt

import "fmt"

// Topic prefixes for the fleetgate MQTT hierarchy.
//
// Command traffic uses per-request topics so replies correlate by topic
// as well as by payload ID: fleetgate/cmd/req/{id} and
// fleetgate/cmd/resp/{id}.
const (
	// TopicPrefix is the base for all fleetgate topics.
	TopicPrefix = "fleetgate"

	// TopicPrefixCommand is the base for command request/reply topics.
	TopicPrefixCommand = "fleetgate/cmd"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "fleetgate/system"
)

// Topics provides builders for fleetgate MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	reqTopic := topics.CommandRequest("6f1c9a32")
//	// Returns: "fleetgate/cmd/req/6f1c9a32"
type Topics struct{}

// CommandRequest returns the topic a command request is published on.
//
// Example: fleetgate/cmd/req/6f1c9a32
func (Topics) CommandRequest(requestID string) string {
	return fmt.Sprintf("%s/req/%s", TopicPrefixCommand, requestID)
}

// CommandReply returns the topic an agent publishes its reply on.
//
// Example: fleetgate/cmd/resp/6f1c9a32
func (Topics) CommandReply(requestID string) string {
	return fmt.Sprintf("%s/resp/%s", TopicPrefixCommand, requestID)
}

// AllCommandReplies returns a pattern matching every command reply.
// The runner holds one subscription on this pattern and correlates
// replies by their payload ID.
//
// Pattern: fleetgate/cmd/resp/+
func (Topics) AllCommandReplies() string {
	return fmt.Sprintf("%s/resp/+", TopicPrefixCommand)
}

// SystemStatus returns the gateway status topic (online/offline/LWT).
//
// Example: fleetgate/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllTopics returns a pattern matching all fleetgate topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: fleetgate/#
func (Topics) AllTopics() string {
	return "fleetgate/#"
}
