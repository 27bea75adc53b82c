package mqtt

import "fmt"

// Topic prefixes for the Parklot MQTT surface.
//
// All topics live under a single site-agnostic root: parklot/{channel}.
// State channels carry retained JSON documents so late subscribers see the
// current value immediately; the event channel is fire-and-forget.
const (
	// TopicPrefix is the root of all Parklot topics.
	TopicPrefix = "parklot"

	// TopicPrefixSystem is the base for system lifecycle topics.
	TopicPrefixSystem = "parklot/system"
)

// Topics provides builders for Parklot MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	capacityTopic := topics.Capacity()
//	// Returns: "parklot/capacity"
type Topics struct{}

// Capacity returns the retained capacity state topic.
//
// Example: parklot/capacity
func (Topics) Capacity() string {
	return fmt.Sprintf("%s/capacity", TopicPrefix)
}

// Gate returns the retained gate status topic.
//
// Example: parklot/gate
func (Topics) Gate() string {
	return fmt.Sprintf("%s/gate", TopicPrefix)
}

// Environment returns the retained temperature/humidity topic.
//
// Example: parklot/environment
func (Topics) Environment() string {
	return fmt.Sprintf("%s/environment", TopicPrefix)
}

// Event returns the topic for discrete gate events (not retained).
//
// Example: parklot/event/entry
func (Topics) Event(kind string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefix, kind)
}

// SystemStatus returns the system status topic, used for the online
// message on connect and as the Last Will topic.
//
// Example: parklot/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SystemTime returns the time sync status topic.
//
// Example: parklot/system/time
func (Topics) SystemTime() string {
	return fmt.Sprintf("%s/time", TopicPrefixSystem)
}

// AllEvents returns a pattern matching all gate events.
//
// Pattern: parklot/event/+
func (Topics) AllEvents() string {
	return fmt.Sprintf("%s/event/+", TopicPrefix)
}

// AllTopics returns a pattern matching all Parklot topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: parklot/#
func (Topics) AllTopics() string {
	return "parklot/#"
}
