package events

import "time"

// Security event codes published to the bus for offline monitoring. The
// request path never blocks on these.
const (
	TypeQuotaExceeded     = "QUOTA_EXCEEDED"
	TypeInjectionDetected = "INJECTION_DETECTED"
	TypeAuthRejected      = "AUTH_REJECTED"
)

func NewQuotaExceededEvent(scope, clientIP string) Event {
	return BaseEvent{
		Type: TypeQuotaExceeded,
		Data: map[string]interface{}{
			"scope": scope,
			"ip":    clientIP,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewInjectionDetectedEvent(clientIP, queryPreview string) Event {
	return BaseEvent{
		Type: TypeInjectionDetected,
		Data: map[string]interface{}{
			"ip":            clientIP,
			"query_preview": queryPreview,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewAuthRejectedEvent(clientIP, reason string) Event {
	return BaseEvent{
		Type: TypeAuthRejected,
		Data: map[string]interface{}{
			"ip":     clientIP,
			"reason": reason,
		},
		OccurredAt: time.Now().UTC(),
	}
}
