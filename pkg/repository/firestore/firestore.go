package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("not found")

// Firestore is the production repository backed by Cloud Firestore
type Firestore struct {
	client   *firestore.Client
	seenURL  *seenURLRepository
	batchJob *batchJobRepository
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	return &Firestore{
		client:   client,
		seenURL:  newSeenURLRepository(client),
		batchJob: newBatchJobRepository(client),
	}, nil
}

func (f *Firestore) SeenURL() interfaces.SeenURLRepository {
	return f.seenURL
}

func (f *Firestore) BatchJob() interfaces.BatchJobRepository {
	return f.batchJob
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
