package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const batchJobCollection = "batch_jobs"

// batchJobDoc is the Firestore document representation of model.BatchJob
type batchJobDoc struct {
	BatchID   string    `firestore:"batch_id"`
	Provider  string    `firestore:"provider"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toBatchJobDoc(j *model.BatchJob) *batchJobDoc {
	return &batchJobDoc{
		BatchID:   string(j.ID),
		Provider:  string(j.Provider),
		Status:    string(j.Status),
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

func fromBatchJobDoc(d *batchJobDoc) *model.BatchJob {
	return &model.BatchJob{
		ID:        types.BatchID(d.BatchID),
		Provider:  types.Provider(d.Provider),
		Status:    types.BatchStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func docToBatchJob(doc *firestore.DocumentSnapshot) (*model.BatchJob, error) {
	var d batchJobDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromBatchJobDoc(&d), nil
}

type batchJobRepository struct {
	client *firestore.Client
}

func newBatchJobRepository(client *firestore.Client) *batchJobRepository {
	return &batchJobRepository{client: client}
}

func (r *batchJobRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(batchJobCollection)
}

func (r *batchJobRepository) Create(ctx context.Context, job *model.BatchJob) (*model.BatchJob, error) {
	if job.ID == "" {
		return nil, goerr.New("batch job ID is required")
	}

	now := time.Now().UTC()
	created := *job
	if created.Status == "" {
		created.Status = types.BatchStatusPending
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.collection().Doc(string(created.ID))
	if _, err := docRef.Create(ctx, toBatchJobDoc(&created)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.New("batch job already exists", goerr.V("id", created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create batch job", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *batchJobRepository) Latest(ctx context.Context) (*model.BatchJob, error) {
	iter := r.collection().OrderBy("created_at", firestore.Desc).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query latest batch job")
	}

	job, err := docToBatchJob(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal batch job", goerr.V("id", doc.Ref.ID))
	}
	return job, nil
}

func (r *batchJobRepository) UpdateStatus(ctx context.Context, id types.BatchID, st types.BatchStatus) error {
	if err := st.Validate(); err != nil {
		return err
	}

	docRef := r.collection().Doc(string(id))
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "batch job not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to update batch job status", goerr.V("id", id))
	}
	return nil
}

func (r *batchJobRepository) List(ctx context.Context, limit int) ([]*model.BatchJob, error) {
	q := r.collection().OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.queryJobs(ctx, q)
}

func (r *batchJobRepository) ListByStatus(ctx context.Context, st types.BatchStatus, limit int) ([]*model.BatchJob, error) {
	q := r.collection().
		Where("status", "==", string(st)).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.queryJobs(ctx, q)
}

func (r *batchJobRepository) queryJobs(ctx context.Context, q firestore.Query) ([]*model.BatchJob, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var jobs []*model.BatchJob
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate batch jobs")
		}

		job, err := docToBatchJob(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal batch job", goerr.V("id", doc.Ref.ID))
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
