package service

import (
	"sync"

	"github.com/google/uuid"

	"emberveil_backend/game"
	"emberveil_backend/repository"
)

type flushJob struct {
	id   string
	data game.CharacterData
}

var _ PersistInterface = (*FlushWorker)(nil)

// FlushWorker serializes character writes: one goroutine drains the queue
// in arrival order, so two snapshots of the same character can never race
// each other into the database.
type FlushWorker struct {
	storage   *repository.Storage
	logger    LoggerInterface
	jobs      chan flushJob
	waitGroup *sync.WaitGroup
}

func NewFlushWorker(storage *repository.Storage, logger LoggerInterface, queueSize int) *FlushWorker {
	w := &FlushWorker{
		storage:   storage,
		logger:    logger,
		jobs:      make(chan flushJob, queueSize),
		waitGroup: &sync.WaitGroup{},
	}

	w.waitGroup.Add(1)
	go w.run()

	return w
}

func (w *FlushWorker) run() {
	defer w.waitGroup.Done()

	for job := range w.jobs {
		if err := w.storage.UpdateCharacter(job.data, nil); err != nil {
			w.logger.Exception("flush " + job.id + " for character " + job.data.Name + ": " + err.Error())
			continue
		}
		w.logger.Debug("flushed " + job.id + " for character " + job.data.Name)
	}
}

// Enqueue hands a snapshot to the worker and returns the job id. Blocks
// when the queue is full rather than dropping the write.
func (w *FlushWorker) Enqueue(data game.CharacterData) string {
	job := flushJob{id: uuid.NewString(), data: data}
	w.jobs <- job
	return job.id
}

// FlushSkill writes a single skill total synchronously, bypassing the
// queue; used when one skill changed and a full snapshot is not worth it.
func (w *FlushWorker) FlushSkill(characterID, skillID, exp int) error {
	return w.storage.FlushSkill(characterID, skillID, exp)
}

// Shutdown drains every queued job before returning.
func (w *FlushWorker) Shutdown() {
	close(w.jobs)
	w.waitGroup.Wait()
}
