package chrono

import (
	"sync"
	"time"
)

// FakeTime is a TimeAPI that only moves when told to, for tests.
type FakeTime struct {
	mutex sync.Mutex
	now   time.Time
}

func NewFakeTime(now time.Time) *FakeTime {
	return &FakeTime{now: now}
}

func (f *FakeTime) Now() time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.now
}

func (f *FakeTime) Set(now time.Time) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.now = now
}

func (f *FakeTime) Advance(d time.Duration) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.now = f.now.Add(d)
}
