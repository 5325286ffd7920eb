package qdrant

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"github.com/soochi-lab/soochi/pkg/domain/interfaces"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// payload keys stored on every idea point
const (
	payloadTitle                 = "title"
	payloadType                  = "type"
	payloadProblemStatement      = "problemStatement"
	payloadSolution              = "solution"
	payloadTargetAudience        = "targetAudience"
	payloadInnovationScore       = "innovationScore"
	payloadPotentialApplications = "potentialApplications"
	payloadPrerequisites         = "prerequisites"
	payloadAdditionalNotes       = "additionalNotes"
	payloadURLHash               = "urlHash"
	payloadCount                 = "count"
)

// Index is a VectorIndex backed by a Qdrant collection over gRPC
type Index struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
}

var _ interfaces.VectorIndex = &Index{}

// New connects to a Qdrant server and returns an Index over the named
// collection. The caller is responsible for calling Close().
func New(addr, collection string) (*Index, error) {
	if collection == "" {
		return nil, goerr.New("qdrant collection name is required")
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to qdrant", goerr.V("addr", addr))
	}

	return &Index{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  collection,
	}, nil
}

func (x *Index) EnsureCollection(ctx context.Context) error {
	resp, err := x.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return goerr.Wrap(err, "failed to list qdrant collections")
	}

	for _, col := range resp.GetCollections() {
		if col.GetName() == x.collection {
			return nil
		}
	}

	_, err = x.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: x.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(model.EmbeddingDimension),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create qdrant collection", goerr.V("collection", x.collection))
	}
	return nil
}

func (x *Index) Search(ctx context.Context, vector []float32, topK int) ([]interfaces.Match, error) {
	resp, err := x.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: x.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search qdrant", goerr.V("collection", x.collection))
	}

	matches := make([]interfaces.Match, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		matches = append(matches, interfaces.Match{
			ID:    point.GetId().GetUuid(),
			Score: point.GetScore(),
			Idea:  payloadToIdea(point.GetPayload()),
			Count: point.GetPayload()[payloadCount].GetIntegerValue(),
		})
	}
	return matches, nil
}

func (x *Index) Upsert(ctx context.Context, idea *model.Idea) error {
	if len(idea.Embedding) == 0 {
		return goerr.New("idea has no embedding", goerr.V("title", idea.Title))
	}

	point := &qdrantclient.PointStruct{
		Id: &qdrantclient.PointId{
			PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: idea.PointID()},
		},
		Vectors: &qdrantclient.Vectors{
			VectorsOptions: &qdrantclient.Vectors_Vector{
				Vector: &qdrantclient.Vector{Data: idea.Embedding},
			},
		},
		Payload: ideaToPayload(idea),
	}

	_, err := x.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: x.collection,
		Points:         []*qdrantclient.PointStruct{point},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to upsert idea point",
			goerr.V("collection", x.collection), goerr.V("title", idea.Title))
	}
	return nil
}

func (x *Index) SetCount(ctx context.Context, id string, count int64) error {
	_, err := x.points.SetPayload(ctx, &qdrantclient.SetPayloadPoints{
		CollectionName: x.collection,
		Payload: map[string]*qdrantclient.Value{
			payloadCount: {Kind: &qdrantclient.Value_IntegerValue{IntegerValue: count}},
		},
		PointsSelector: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Points{
				Points: &qdrantclient.PointsIdsList{
					Ids: []*qdrantclient.PointId{
						{PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: id}},
					},
				},
			},
		},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to set count payload",
			goerr.V("collection", x.collection), goerr.V("id", id))
	}
	return nil
}

func (x *Index) Close() error {
	if x.conn != nil {
		return x.conn.Close()
	}
	return nil
}

func stringValue(s string) *qdrantclient.Value {
	return &qdrantclient.Value{Kind: &qdrantclient.Value_StringValue{StringValue: s}}
}

func ideaToPayload(idea *model.Idea) map[string]*qdrantclient.Value {
	return map[string]*qdrantclient.Value{
		payloadTitle:                 stringValue(idea.Title),
		payloadType:                  stringValue(string(idea.Type)),
		payloadProblemStatement:      stringValue(idea.ProblemStatement),
		payloadSolution:              stringValue(idea.Solution),
		payloadTargetAudience:        stringValue(idea.TargetAudience),
		payloadInnovationScore:       {Kind: &qdrantclient.Value_DoubleValue{DoubleValue: idea.InnovationScore}},
		payloadPotentialApplications: stringValue(idea.PotentialApplications),
		payloadPrerequisites:         stringValue(idea.Prerequisites),
		payloadAdditionalNotes:       stringValue(idea.AdditionalNotes),
		payloadURLHash:               stringValue(string(idea.URLHash)),
		payloadCount:                 {Kind: &qdrantclient.Value_IntegerValue{IntegerValue: 1}},
	}
}

func payloadToIdea(payload map[string]*qdrantclient.Value) model.Idea {
	return model.Idea{
		Title:                 payload[payloadTitle].GetStringValue(),
		Type:                  model.IdeaType(payload[payloadType].GetStringValue()),
		ProblemStatement:      payload[payloadProblemStatement].GetStringValue(),
		Solution:              payload[payloadSolution].GetStringValue(),
		TargetAudience:        payload[payloadTargetAudience].GetStringValue(),
		InnovationScore:       payload[payloadInnovationScore].GetDoubleValue(),
		PotentialApplications: payload[payloadPotentialApplications].GetStringValue(),
		Prerequisites:         payload[payloadPrerequisites].GetStringValue(),
		AdditionalNotes:       payload[payloadAdditionalNotes].GetStringValue(),
		URLHash:               types.URLHash(payload[payloadURLHash].GetStringValue()),
	}
}
