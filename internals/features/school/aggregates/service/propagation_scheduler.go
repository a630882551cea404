// file: internals/features/school/aggregates/service/propagation_scheduler.go
package service

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// AffectedStudents is one propagation unit of work: the students of a single
// class-year whose derived aggregates must be rebuilt.
type AffectedStudents struct {
	StudyClassID   uuid.UUID
	AcademicYearID uuid.UUID
	StudentIDs     []uuid.UUID
}

// PropagationScheduler decouples write paths from aggregate recomputation.
// Writers only enqueue; they never wait for the rollup.
type PropagationScheduler interface {
	SchedulePropagation(batch AffectedStudents)
}

/* ============================================
   Inline scheduler (tests, CLI tooling)
============================================ */

// InlinePropagationScheduler runs the propagation synchronously on the calling
// goroutine.
type InlinePropagationScheduler struct {
	Propagator *Propagator
}

func (s *InlinePropagationScheduler) SchedulePropagation(batch AffectedStudents) {
	if err := s.Propagator.Propagate(batch); err != nil {
		log.Printf("[PROPAGATION] ERROR inline run classID=%s err=%v", batch.StudyClassID, err)
	}
}

/* ============================================
   Queued scheduler (server runtime)
============================================ */

// QueuedPropagationScheduler feeds batches through a buffered channel into a
// single worker goroutine, so concurrent catalog writes serialize their
// aggregate recomputation. A full queue drops the batch with a warning: the
// rollup is recomputed from source data, the next batch for the same class
// repairs any staleness.
type QueuedPropagationScheduler struct {
	propagator *Propagator
	queue      chan AffectedStudents
	stop       chan struct{}
	wg         sync.WaitGroup
}

func NewQueuedPropagationScheduler(propagator *Propagator, size int) *QueuedPropagationScheduler {
	return &QueuedPropagationScheduler{
		propagator: propagator,
		queue:      make(chan AffectedStudents, size),
		stop:       make(chan struct{}),
	}
}

func (s *QueuedPropagationScheduler) SchedulePropagation(batch AffectedStudents) {
	select {
	case s.queue <- batch:
	default:
		log.Printf("[PROPAGATION] WARN queue full, dropping batch classID=%s students=%d",
			batch.StudyClassID, len(batch.StudentIDs))
	}
}

func (s *QueuedPropagationScheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case batch := <-s.queue:
				if err := s.propagator.Propagate(batch); err != nil {
					log.Printf("[PROPAGATION] ERROR classID=%s err=%v", batch.StudyClassID, err)
				}
			case <-s.stop:
				// Drain what is already queued before exiting.
				for {
					select {
					case batch := <-s.queue:
						if err := s.propagator.Propagate(batch); err != nil {
							log.Printf("[PROPAGATION] ERROR drain classID=%s err=%v", batch.StudyClassID, err)
						}
					default:
						return
					}
				}
			}
		}
	}()
	log.Println("[PROPAGATION] worker started")
}

func (s *QueuedPropagationScheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
	log.Println("[PROPAGATION] worker stopped")
}
