package chrono

import (
	"time"
)

var wib *time.Location

func init() {
	var err error
	wib, err = time.LoadLocation("Asia/Jakarta")
	if err != nil {
		// containers without tzdata still get the right offset, WIB has no DST
		wib = time.FixedZone("WIB", 7*60*60)
	}
}

// WIB returns a [*time.Location] for Asia/Jakarta (Western Indonesian Time).
func WIB() *time.Location {
	return wib
}

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	// Now returns the current time, the timezone of the time will default to Asia/Jakarta.
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now().In(wib)
}
