package pump

import (
	"time"

	"github.com/google/btree"
)

// TimerID identifies a registered timer. Zero is never issued and is
// returned when a timer could not be started.
type TimerID uint64

type timer struct {
	id       TimerID
	interval time.Duration
	callback func()
	deadline time.Time
}

// wakeup is one scheduled deadline in the timer schedule.
type wakeup struct {
	deadline time.Time
	id       TimerID
}

func wakeupLess(a, b wakeup) bool {
	if !a.deadline.Equal(b.deadline) {
		return a.deadline.Before(b.deadline)
	}
	return a.id < b.id
}

const scheduleDegree = 8

func newSchedule() *btree.BTreeG[wakeup] {
	return btree.NewG(scheduleDegree, wakeupLess)
}

// StartTimer registers callback to run every intervalMs milliseconds on the
// pump goroutine. It returns 0 and registers nothing when the interval is not
// positive, the callback is nil or the pump is closed.
func (p *Pump) StartTimer(intervalMs int, callback func()) TimerID {
	if intervalMs <= 0 || callback == nil {
		return 0
	}
	interval := time.Duration(intervalMs) * time.Millisecond

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0
	}
	p.nextID++
	t := &timer{
		id:       p.nextID,
		interval: interval,
		callback: callback,
		deadline: p.now().Add(interval),
	}
	p.timers[t.id] = t
	p.schedule.ReplaceOrInsert(wakeup{deadline: t.deadline, id: t.id})
	p.mu.Unlock()

	p.logger.Debug("timer started", "id", t.id, "interval", interval)
	p.driver.Wake()
	return t.id
}

// StopTimer unregisters a timer. Unknown or already stopped ids are ignored.
func (p *Pump) StopTimer(id TimerID) {
	p.mu.Lock()
	t, ok := p.timers[id]
	if ok {
		delete(p.timers, id)
		p.schedule.Delete(wakeup{deadline: t.deadline, id: id})
	}
	p.mu.Unlock()

	if ok {
		p.logger.Debug("timer stopped", "id", id)
	}
}

// ActiveTimers returns the number of registered timers.
func (p *Pump) ActiveTimers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

// nextDeadline returns the earliest scheduled wake-up.
func (p *Pump) nextDeadline() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.schedule.Min()
	return w.deadline, ok
}

// fireDue runs every timer whose deadline is not after now. Wake-ups due
// at the start of the pass are taken out of the schedule first, so a timer
// fires at most once per pass even if its callback is slow.
func (p *Pump) fireDue(now time.Time) {
	var due []wakeup
	p.mu.Lock()
	for {
		w, ok := p.schedule.Min()
		if !ok || w.deadline.After(now) {
			break
		}
		p.schedule.DeleteMin()
		due = append(due, w)
	}
	p.mu.Unlock()

	for _, w := range due {
		p.mu.Lock()
		t, ok := p.timers[w.id]
		p.mu.Unlock()
		if !ok {
			continue
		}

		p.runTimer(t)

		p.mu.Lock()
		if cur, ok := p.timers[t.id]; ok && cur == t {
			next := t.deadline.Add(t.interval)
			if after := p.now(); !next.After(after) {
				next = after.Add(t.interval)
			}
			t.deadline = next
			p.schedule.ReplaceOrInsert(wakeup{deadline: next, id: t.id})
		}
		p.mu.Unlock()
	}
}

func (p *Pump) runTimer(t *timer) {
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("timer panic recovered", "id", t.id, "error", err)
		}
	}()
	t.callback()
}

func (p *Pump) dropTimers() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	clear(p.timers)
	p.schedule.Clear(false)
}
