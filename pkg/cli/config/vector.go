package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/interfaces"
	vectormem "github.com/soochi-lab/soochi/pkg/repository/vector/memory"
	"github.com/soochi-lab/soochi/pkg/repository/vector/qdrant"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Vector holds CLI flags for the vector index backend
type Vector struct {
	backend    string
	addr       string
	collection string
}

// Flags returns CLI flags for vector index configuration
func (v *Vector) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vector-backend",
			Usage:       "Vector index backend type (qdrant or memory)",
			Value:       "qdrant",
			Sources:     cli.EnvVars("SOOCHI_VECTOR_BACKEND"),
			Destination: &v.backend,
		},
		&cli.StringFlag{
			Name:        "qdrant-addr",
			Usage:       "Qdrant gRPC address",
			Value:       "localhost:6334",
			Sources:     cli.EnvVars("SOOCHI_QDRANT_ADDR"),
			Destination: &v.addr,
		},
		&cli.StringFlag{
			Name:        "qdrant-collection",
			Usage:       "Qdrant collection holding idea vectors",
			Value:       "soochi-idea-index",
			Sources:     cli.EnvVars("SOOCHI_QDRANT_COLLECTION"),
			Destination: &v.collection,
		},
	}
}

// Configure initializes the vector index and ensures the collection
// exists. The caller is responsible for calling Close().
func (v *Vector) Configure(ctx context.Context) (interfaces.VectorIndex, error) {
	switch v.backend {
	case "qdrant":
		index, err := qdrant.New(v.addr, v.collection)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize qdrant index")
		}
		if err := index.EnsureCollection(ctx); err != nil {
			return nil, err
		}
		logging.Default().Info("Using Qdrant vector index",
			"addr", v.addr,
			"collection", v.collection,
		)
		return index, nil

	case "memory":
		logging.Default().Info("Using in-memory vector index (development mode)")
		return vectormem.New(), nil

	default:
		return nil, goerr.New("invalid vector backend", goerr.V("backend", v.backend))
	}
}
