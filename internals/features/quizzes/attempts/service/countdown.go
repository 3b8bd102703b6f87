package service

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultTick = time.Second

// ExpireFunc dipanggil tepat satu kali ketika sisa waktu attempt habis.
type ExpireFunc func(attemptID uuid.UUID)

type countdownEntry struct {
	remaining time.Duration
	stop      chan struct{}
}

// Countdown: satu ticker per attempt yang masih open.
// Tiap tick mengurangi sisa waktu; di <= 0 ticker berhenti sendiri dan onExpire dipanggil.
type Countdown struct {
	tick     time.Duration
	onExpire ExpireFunc

	mu      sync.Mutex
	entries map[uuid.UUID]*countdownEntry
	wg      sync.WaitGroup
	closed  bool
}

func NewCountdown(tick time.Duration, onExpire ExpireFunc) *Countdown {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Countdown{
		tick:     tick,
		onExpire: onExpire,
		entries:  map[uuid.UUID]*countdownEntry{},
	}
}

// Arm memasang (atau mengganti) ticker untuk attempt. remaining <= 0 → expire langsung.
func (cd *Countdown) Arm(id uuid.UUID, remaining time.Duration) {
	cd.mu.Lock()
	if cd.closed {
		cd.mu.Unlock()
		return
	}
	if old, ok := cd.entries[id]; ok {
		close(old.stop)
	}
	e := &countdownEntry{remaining: remaining, stop: make(chan struct{})}
	cd.entries[id] = e
	cd.wg.Add(1)
	cd.mu.Unlock()

	go cd.run(id, e)
}

func (cd *Countdown) run(id uuid.UUID, e *countdownEntry) {
	defer cd.wg.Done()

	if cd.expired(id, e, 0) {
		cd.fire(id)
		return
	}

	t := time.NewTicker(cd.tick)
	defer t.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-t.C:
			if cd.expired(id, e, cd.tick) {
				cd.fire(id)
				return
			}
		}
	}
}

// expired mengurangi sisa waktu; kalau habis, entry dilepas dari map
// sehingga Cancel berikutnya tidak berpengaruh dan fire hanya terjadi sekali.
func (cd *Countdown) expired(id uuid.UUID, e *countdownEntry, step time.Duration) bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	if cd.entries[id] != e {
		return false
	}
	e.remaining -= step
	if e.remaining > 0 {
		return false
	}
	delete(cd.entries, id)
	return true
}

func (cd *Countdown) fire(id uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[COUNTDOWN] panic saat finalize attempt=%s: %v", id, r)
		}
	}()
	if cd.onExpire != nil {
		cd.onExpire(id)
	}
}

// Cancel menghentikan ticker (submit manual / tampilan ditutup).
func (cd *Countdown) Cancel(id uuid.UUID) bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	e, ok := cd.entries[id]
	if !ok {
		return false
	}
	delete(cd.entries, id)
	close(e.stop)
	return true
}

func (cd *Countdown) Remaining(id uuid.UUID) (time.Duration, bool) {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	e, ok := cd.entries[id]
	if !ok {
		return 0, false
	}
	return e.remaining, true
}

func (cd *Countdown) Active() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return len(cd.entries)
}

// Shutdown: hentikan semua ticker dan tunggu goroutine selesai. Arm setelah ini diabaikan.
func (cd *Countdown) Shutdown() {
	cd.mu.Lock()
	cd.closed = true
	for id, e := range cd.entries {
		close(e.stop)
		delete(cd.entries, id)
	}
	cd.mu.Unlock()
	cd.wg.Wait()
}
