package service

import (
	"errors"
	"sync"
	"time"

	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"gorm.io/gorm"
)

// CounterKind selects which counter an increment targets.
type CounterKind string

const (
	CounterViews     CounterKind = "views"
	CounterDownloads CounterKind = "downloads"
)

func (k CounterKind) valid() bool {
	return k == CounterViews || k == CounterDownloads
}

// BulkIncrement atomically increments one counter by one for every listed
// server in a single statement.
func BulkIncrement(db *gorm.DB, serverIDs []string, kind CounterKind) error {
	if len(serverIDs) == 0 {
		return nil
	}
	if !kind.valid() {
		return errors.New("count kind must be 'views' or 'downloads'")
	}
	return db.Model(&model.Server{}).
		Where("id IN ?", serverIDs).
		UpdateColumn(string(kind), gorm.Expr(string(kind)+" + ?", 1)).Error
}

type increment struct {
	serverID string
	kind     CounterKind
}

// CounterQueue is a bounded fire-and-forget queue for view/download counter
// increments, drained by a single worker goroutine. Enqueue never blocks the
// calling request; a full queue drops the increment (best-effort,
// at-least-once semantics already tolerate loss). Failures in the worker are
// logged, never surfaced to the triggering request.
type CounterQueue struct {
	db            *gorm.DB
	ch            chan increment
	stopChan      chan struct{}
	wg            sync.WaitGroup
	flushInterval time.Duration
	running       bool
	mu            sync.Mutex
}

func NewCounterQueue(db *gorm.DB, size int, flushInterval time.Duration) *CounterQueue {
	if size <= 0 {
		size = 1024
	}
	if flushInterval <= 0 {
		flushInterval = 200 * time.Millisecond
	}
	return &CounterQueue{
		db:            db,
		ch:            make(chan increment, size),
		stopChan:      make(chan struct{}),
		flushInterval: flushInterval,
	}
}

func (q *CounterQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.running = true
	q.wg.Add(1)
	go q.run()
}

// Stop drains whatever is already queued, then stops the worker.
func (q *CounterQueue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.mu.Unlock()

	close(q.stopChan)
	q.wg.Wait()
}

// Enqueue queues one increment. Returns false when the kind is unknown or
// the queue is full; a full queue is logged and the increment dropped.
func (q *CounterQueue) Enqueue(serverID string, kind CounterKind) bool {
	if q == nil || !kind.valid() || serverID == "" {
		return false
	}
	select {
	case q.ch <- increment{serverID: serverID, kind: kind}:
		return true
	default:
		common.SysError("counter queue full, dropping increment for server " + serverID)
		return false
	}
}

func (q *CounterQueue) run() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.flushInterval)
	defer ticker.Stop()

	pending := make(map[CounterKind]map[string]int)

	flush := func() {
		for kind, counts := range pending {
			// Group ids by increment amount so each statement stays a
			// single atomic bulk update.
			byAmount := make(map[int][]string)
			for id, n := range counts {
				byAmount[n] = append(byAmount[n], id)
			}
			for amount, ids := range byAmount {
				err := q.db.Model(&model.Server{}).
					Where("id IN ?", ids).
					UpdateColumn(string(kind), gorm.Expr(string(kind)+" + ?", amount)).Error
				if err != nil {
					common.SysError("counter flush failed: " + err.Error())
				}
			}
		}
		pending = make(map[CounterKind]map[string]int)
	}

	add := func(inc increment) {
		if pending[inc.kind] == nil {
			pending[inc.kind] = make(map[string]int)
		}
		pending[inc.kind][inc.serverID]++
	}

	for {
		select {
		case inc := <-q.ch:
			add(inc)
		case <-ticker.C:
			flush()
		case <-q.stopChan:
			for {
				select {
				case inc := <-q.ch:
					add(inc)
				default:
					flush()
					return
				}
			}
		}
	}
}

// The process-wide queue, wired up in main and used by the metrics handlers.
var defaultCounterQueue *CounterQueue

func InitCounterQueue(db *gorm.DB) {
	defaultCounterQueue = NewCounterQueue(db, 4096, 200*time.Millisecond)
	defaultCounterQueue.Start()
}

func StopCounterQueue() {
	if defaultCounterQueue != nil {
		defaultCounterQueue.Stop()
	}
}

func Counters() *CounterQueue {
	return defaultCounterQueue
}
