package util

import (
	"github.com/google/uuid"
)

// RandomRoomName generates a random room name suitable for testing
func RandomRoomName() string {
	return "room-" + uuid.New().String()
}
