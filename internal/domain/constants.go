package domain

// Platform is the messaging platform a conversation runs on
type Platform string

const (
	PlatformMessenger Platform = "messenger"
	PlatformInstagram Platform = "instagram"
	PlatformTelegram  Platform = "telegram"
)

// Platforms lists every supported platform
var Platforms = []Platform{
	PlatformMessenger,
	PlatformInstagram,
	PlatformTelegram,
}

// IsKnown returns true for supported platforms
func (p Platform) IsKnown() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}

// Intents
const (
	// IntentBooking is the only intent with special handling
	IntentBooking = "booking"
	// IntentOther is used when the NLU result is unusable
	IntentOther = "other"
)

// Default configuration values
const (
	DefaultRequiredSlots = "name,service,date,time,phone"

	DefaultReply           = "Sorry, I didn't quite get that. Could you rephrase?"
	DefaultRateLimitReply  = "You are sending messages too quickly. Please wait a moment."
	DefaultConfirmTemplate = "Thanks {name}. Your {service} on {date} at {time} is booked. We'll contact you at {phone}."
	NudgeTemplate          = "Could you share your %s?"

	DefaultRateLimitMaxRequests   = 30
	DefaultRateLimitWindowSeconds = 60
)

// MirrorTimestampFormat is the layout of the first column of a mirrored row
const MirrorTimestampFormat = "2006-01-02T15:04:05Z07:00"
