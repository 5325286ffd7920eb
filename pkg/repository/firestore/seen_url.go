package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const seenURLCollection = "seen_urls"

// seenURLDoc is the Firestore document representation of model.SeenURL
type seenURLDoc struct {
	URLHash   string    `firestore:"url_hash"`
	URL       string    `firestore:"url"`
	Title     string    `firestore:"title"`
	CreatedAt time.Time `firestore:"created_at"`
}

func toSeenURLDoc(u *model.SeenURL) *seenURLDoc {
	return &seenURLDoc{
		URLHash:   string(u.URLHash),
		URL:       u.URL,
		Title:     u.Title,
		CreatedAt: u.CreatedAt,
	}
}

func fromSeenURLDoc(d *seenURLDoc) *model.SeenURL {
	return &model.SeenURL{
		URLHash:   types.URLHash(d.URLHash),
		URL:       d.URL,
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
	}
}

type seenURLRepository struct {
	client *firestore.Client
}

func newSeenURLRepository(client *firestore.Client) *seenURLRepository {
	return &seenURLRepository{client: client}
}

func (r *seenURLRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(seenURLCollection)
}

func (r *seenURLRepository) ListHashes(ctx context.Context) ([]types.URLHash, error) {
	// Document IDs are the hashes; Select avoids transferring full documents
	iter := r.collection().Select().Documents(ctx)
	defer iter.Stop()

	var hashes []types.URLHash
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate seen URLs")
		}
		hashes = append(hashes, types.URLHash(doc.Ref.ID))
	}
	return hashes, nil
}

func (r *seenURLRepository) PutAll(ctx context.Context, urls []*model.SeenURL) error {
	if len(urls) == 0 {
		return nil
	}

	now := time.Now().UTC()
	bw := r.client.BulkWriter(ctx)
	for _, u := range urls {
		stored := *u
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
		docRef := r.collection().Doc(string(stored.URLHash))
		if _, err := bw.Set(docRef, toSeenURLDoc(&stored)); err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue seen URL write", goerr.V("hash", stored.URLHash))
		}
	}
	bw.End()

	return nil
}

func (r *seenURLRepository) Get(ctx context.Context, hash types.URLHash) (*model.SeenURL, error) {
	doc, err := r.collection().Doc(string(hash)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "seen URL not found", goerr.V("hash", hash))
		}
		return nil, goerr.Wrap(err, "failed to get seen URL", goerr.V("hash", hash))
	}

	var d seenURLDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal seen URL", goerr.V("hash", hash))
	}
	return fromSeenURLDoc(&d), nil
}

func (r *seenURLRepository) Count(ctx context.Context) (int, error) {
	result, err := r.collection().NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count seen URLs")
	}

	value, ok := result["count"]
	if !ok {
		return 0, goerr.New("count aggregation returned no value")
	}
	count, ok := value.(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected aggregation value type")
	}
	return int(count.GetIntegerValue()), nil
}

func (r *seenURLRepository) Prune(ctx context.Context, before time.Time) (int, error) {
	iter := r.collection().Where("created_at", "<", before).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	bw := r.client.BulkWriter(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return deleted, goerr.Wrap(err, "failed to iterate seen URLs for prune")
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return deleted, goerr.Wrap(err, "failed to enqueue seen URL delete", goerr.V("id", doc.Ref.ID))
		}
		deleted++
	}
	bw.End()

	return deleted, nil
}
