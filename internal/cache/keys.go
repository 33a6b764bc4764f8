package cache

import "fmt"

func RateLimitKey(ownerID string) string {
	return fmt.Sprintf("ratelimit:%s", ownerID)
}

func TaskEventChannel() string {
	return "tasks:events"
}
