package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("not found")

// Memory is an in-memory repository for development and tests
type Memory struct {
	seenURL  *seenURLRepository
	batchJob *batchJobRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		seenURL:  newSeenURLRepository(),
		batchJob: newBatchJobRepository(),
	}
}

func (m *Memory) SeenURL() interfaces.SeenURLRepository {
	return m.seenURL
}

func (m *Memory) BatchJob() interfaces.BatchJobRepository {
	return m.batchJob
}

func (m *Memory) Close() error {
	return nil
}
