package eventbus

import (
	"fmt"
	"strings"

	"github.com/amirasaad/ledger/pkg/domain/events"
)

// streamNameFor returns the Redis stream carrying one event type,
// e.g. "ledger:events:transaction:completed".
func streamNameFor(prefix string, eventType events.EventType) string {
	return nameFor(prefix, ":", eventType)
}

// dlqStreamNameFor returns the Redis stream holding failed deliveries.
func dlqStreamNameFor(prefix string, eventType events.EventType) string {
	return nameFor(prefix+":dlq", ":", eventType)
}

// topicNameFor returns the Kafka topic carrying one event type,
// e.g. "ledger.events.transaction.completed".
func topicNameFor(prefix string, eventType events.EventType) string {
	return nameFor(prefix, ".", eventType)
}

// dlqTopicNameFor returns the Kafka topic holding failed deliveries.
func dlqTopicNameFor(prefix string, eventType events.EventType) string {
	return nameFor(prefix+".dlq", ".", eventType)
}

func nameFor(prefix, sep string, eventType events.EventType) string {
	parts := strings.Split(strings.ToLower(eventType.String()), ".")
	return fmt.Sprintf("%s%s%s", strings.TrimSpace(prefix), sep, strings.Join(parts, sep))
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
