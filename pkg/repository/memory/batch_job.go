package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
)

type batchJobRepository struct {
	mu   sync.RWMutex
	jobs map[types.BatchID]*model.BatchJob
}

func newBatchJobRepository() *batchJobRepository {
	return &batchJobRepository{
		jobs: make(map[types.BatchID]*model.BatchJob),
	}
}

func copyBatchJob(j *model.BatchJob) *model.BatchJob {
	copied := *j
	return &copied
}

func (r *batchJobRepository) Create(ctx context.Context, job *model.BatchJob) (*model.BatchJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.ID == "" {
		return nil, goerr.New("batch job ID is required")
	}
	if _, exists := r.jobs[job.ID]; exists {
		return nil, goerr.New("batch job already exists", goerr.V("id", job.ID))
	}

	now := time.Now().UTC()
	created := copyBatchJob(job)
	if created.Status == "" {
		created.Status = types.BatchStatusPending
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.jobs[created.ID] = created
	return copyBatchJob(created), nil
}

func (r *batchJobRepository) Latest(ctx context.Context) (*model.BatchJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *model.BatchJob
	for _, j := range r.jobs {
		if latest == nil || j.CreatedAt.After(latest.CreatedAt) {
			latest = j
		}
	}
	if latest == nil {
		return nil, nil
	}
	return copyBatchJob(latest), nil
}

func (r *batchJobRepository) UpdateStatus(ctx context.Context, id types.BatchID, status types.BatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists := r.jobs[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "batch job not found", goerr.V("id", id))
	}
	if err := status.Validate(); err != nil {
		return err
	}

	job.Status = status
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *batchJobRepository) List(ctx context.Context, limit int) ([]*model.BatchJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listFiltered(func(*model.BatchJob) bool { return true }, limit), nil
}

func (r *batchJobRepository) ListByStatus(ctx context.Context, status types.BatchStatus, limit int) ([]*model.BatchJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listFiltered(func(j *model.BatchJob) bool { return j.Status == status }, limit), nil
}

// listFiltered must be called with the lock held
func (r *batchJobRepository) listFiltered(keep func(*model.BatchJob) bool, limit int) []*model.BatchJob {
	all := make([]*model.BatchJob, 0, len(r.jobs))
	for _, j := range r.jobs {
		if keep(j) {
			all = append(all, copyBatchJob(j))
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}
