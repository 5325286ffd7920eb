package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/soochi-lab/soochi/pkg/domain/interfaces"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/repository/memory"
)

func runBatchJobRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create defaults status to pending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := types.BatchID(fmt.Sprintf("batch-%d", time.Now().UnixNano()))
		created, err := repo.BatchJob().Create(ctx, &model.BatchJob{
			ID:       id,
			Provider: types.ProviderOpenAI,
		})
		gt.NoError(t, err).Required()

		gt.Equal(t, created.ID, id)
		gt.Equal(t, created.Status, types.BatchStatusPending)
		gt.B(t, created.CreatedAt.IsZero()).False()
		gt.B(t, created.UpdatedAt.IsZero()).False()
	})

	t.Run("Create rejects empty ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.BatchJob().Create(ctx, &model.BatchJob{Provider: types.ProviderOpenAI})
		gt.Error(t, err)
	})

	t.Run("Create rejects duplicate ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := types.BatchID(fmt.Sprintf("batch-dup-%d", time.Now().UnixNano()))
		job := &model.BatchJob{ID: id, Provider: types.ProviderOpenAI}

		_, err := repo.BatchJob().Create(ctx, job)
		gt.NoError(t, err).Required()

		_, err = repo.BatchJob().Create(ctx, job)
		gt.Error(t, err)
	})

	t.Run("Latest returns most recent job", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := types.BatchID(fmt.Sprintf("batch-first-%d", time.Now().UnixNano()))
		_, err := repo.BatchJob().Create(ctx, &model.BatchJob{ID: first, Provider: types.ProviderGemini})
		gt.NoError(t, err).Required()

		time.Sleep(10 * time.Millisecond)

		second := types.BatchID(fmt.Sprintf("batch-second-%d", time.Now().UnixNano()))
		_, err = repo.BatchJob().Create(ctx, &model.BatchJob{ID: second, Provider: types.ProviderOpenAI})
		gt.NoError(t, err).Required()

		latest, err := repo.BatchJob().Latest(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, latest).NotNil().Required()
		gt.Equal(t, latest.ID, second)
	})

	t.Run("UpdateStatus transitions and bumps UpdatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := types.BatchID(fmt.Sprintf("batch-upd-%d", time.Now().UnixNano()))
		created, err := repo.BatchJob().Create(ctx, &model.BatchJob{ID: id, Provider: types.ProviderOpenAI})
		gt.NoError(t, err).Required()

		time.Sleep(10 * time.Millisecond)

		gt.NoError(t, repo.BatchJob().UpdateStatus(ctx, id, types.BatchStatusCompleted)).Required()

		jobs, err := repo.BatchJob().List(ctx, 0)
		gt.NoError(t, err).Required()

		var updated *model.BatchJob
		for _, j := range jobs {
			if j.ID == id {
				updated = j
			}
		}
		gt.Value(t, updated).NotNil().Required()
		gt.Equal(t, updated.Status, types.BatchStatusCompleted)
		gt.B(t, updated.UpdatedAt.After(created.UpdatedAt)).True()
	})

	t.Run("UpdateStatus rejects unknown status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := types.BatchID(fmt.Sprintf("batch-bad-%d", time.Now().UnixNano()))
		_, err := repo.BatchJob().Create(ctx, &model.BatchJob{ID: id, Provider: types.ProviderOpenAI})
		gt.NoError(t, err).Required()

		gt.Error(t, repo.BatchJob().UpdateStatus(ctx, id, types.BatchStatus("running")))
	})

	t.Run("UpdateStatus fails for missing job", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.Error(t, repo.BatchJob().UpdateStatus(ctx, "no-such-job", types.BatchStatusFailed))
	})

	t.Run("ListByStatus filters and List respects limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := make(map[types.BatchID]bool)
		for i := 0; i < 3; i++ {
			id := types.BatchID(fmt.Sprintf("batch-list-%d-%d", time.Now().UnixNano(), i))
			_, err := repo.BatchJob().Create(ctx, &model.BatchJob{ID: id, Provider: types.ProviderOpenAI})
			gt.NoError(t, err).Required()
			if i == 0 {
				gt.NoError(t, repo.BatchJob().UpdateStatus(ctx, id, types.BatchStatusCompleted)).Required()
			} else {
				created[id] = false
			}
			time.Sleep(5 * time.Millisecond)
		}

		pending, err := repo.BatchJob().ListByStatus(ctx, types.BatchStatusPending, 0)
		gt.NoError(t, err).Required()
		for _, j := range pending {
			gt.Equal(t, j.Status, types.BatchStatusPending)
			if _, ok := created[j.ID]; ok {
				created[j.ID] = true
			}
		}
		var missing []types.BatchID
		for id, found := range created {
			if !found {
				missing = append(missing, id)
			}
		}
		gt.A(t, missing).Length(0)

		limited, err := repo.BatchJob().List(ctx, 2)
		gt.NoError(t, err).Required()
		gt.A(t, limited).Length(2)
		gt.B(t, limited[0].CreatedAt.Before(limited[1].CreatedAt)).False()
	})
}

func TestMemoryBatchJobRepository(t *testing.T) {
	runBatchJobRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreBatchJobRepository(t *testing.T) {
	runBatchJobRepositoryTest(t, newFirestoreRepository)
}
