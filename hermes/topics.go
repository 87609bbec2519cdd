package hermes

import "strings"

const (
	intentTopicPrefix  = "hermes/intent/"
	hotwordTopicPrefix = "hermes/hotword/"
	hotwordTopicSuffix = "/detected"
)

// IntentTopic returns the topic a recognized intent with the given name is
// published on.
func IntentTopic(intentName string) string {
	return intentTopicPrefix + intentName
}

// IsIntentTopic reports whether topic carries a recognized intent.
func IsIntentTopic(topic string) bool {
	return strings.HasPrefix(topic, intentTopicPrefix) &&
		len(topic) > len(intentTopicPrefix)
}

// IntentNameFromTopic extracts the intent name from an intent topic.
// It returns "" if the topic has a different shape.
func IntentNameFromTopic(topic string) string {
	if !IsIntentTopic(topic) {
		return ""
	}
	return topic[len(intentTopicPrefix):]
}

// IsHotwordTopic reports whether topic carries a wakeword detection,
// i.e. has the shape hermes/hotword/<wakewordId>/detected.
func IsHotwordTopic(topic string) bool {
	if !strings.HasPrefix(topic, hotwordTopicPrefix) || !strings.HasSuffix(topic, hotwordTopicSuffix) {
		return false
	}
	wakeword := topic[len(hotwordTopicPrefix) : len(topic)-len(hotwordTopicSuffix)]
	return wakeword != "" && !strings.Contains(wakeword, "/")
}

// IsIntentNotRecognizedTopic reports whether topic carries an
// intent-not-recognized event.
func IsIntentNotRecognizedTopic(topic string) bool {
	return topic == TopicIntentNotRecognized
}
