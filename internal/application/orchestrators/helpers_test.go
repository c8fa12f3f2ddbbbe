package orchestrators

import (
	"fmt"
	"time"

	"gameclub/internal/domain/club"
)

var fixedTime = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// sequenceID returns a generator yielding id-1, id-2, ...
func sequenceID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func clubFixture(id, name string) club.Club {
	return club.Club{ID: id, Name: name, PasscodeHash: "hash", CreatedAt: fixedTime}
}
