package main

import "github.com/rs/zerolog"

// debugPayload is only written when the logger runs at debug level.
func debugPayload(log zerolog.Logger, event string, payload any) {
	log.Debug().Str("event", event).Interface("payload", payload).Msg("payload")
}
