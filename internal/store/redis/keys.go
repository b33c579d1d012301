package redis

import "fmt"

const (
	// KeyPrefixSub is the prefix for subscription keys
	KeyPrefixSub = "subtrack:sub:"
	// KeyAllSubs is the key for the set of all subscription IDs
	KeyAllSubs = "subtrack:subs:all"
	// KeyPrefixCommentary is the prefix for cached AI spending commentary
	KeyPrefixCommentary = "subtrack:commentary:"
	// KeyPrefixNotified is the prefix for reminder dedupe markers
	KeyPrefixNotified = "subtrack:notified:"
)

// SubKey returns the Redis key for a subscription by ID
func SubKey(id string) string {
	return KeyPrefixSub + id
}

// AllSubsKey returns the key for the set of all subscription IDs
func AllSubsKey() string {
	return KeyAllSubs
}

// CommentaryKey returns the Redis key for a cached spending commentary,
// keyed by month ("2025-03").
func CommentaryKey(month string) string {
	return KeyPrefixCommentary + month
}

// NotifiedKey returns the dedupe marker key for one (subscription, occurrence)
// pair. Occurrence is the billing date formatted as "2006-01-02".
func NotifiedKey(id, occurrence string) string {
	return fmt.Sprintf("%s%s:%s", KeyPrefixNotified, id, occurrence)
}

// ExtractSubID extracts the subscription ID from a Redis key
func ExtractSubID(key string) (string, error) {
	if len(key) <= len(KeyPrefixSub) {
		return "", fmt.Errorf("invalid subscription key: %s", key)
	}
	return key[len(KeyPrefixSub):], nil
}
