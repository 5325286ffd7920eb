package types

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/m-mizutani/goerr/v2"
)

// URLHash is the hex SHA-256 digest of a normalized article URL.
// It is the primary key of the seen-URL store and the suffix of
// batch task custom IDs ("task-<hash>").
type URLHash string

// HashURL computes the URLHash for a URL.
func HashURL(url string) URLHash {
	sum := sha256.Sum256([]byte(url))
	return URLHash(hex.EncodeToString(sum[:]))
}

// Validate checks if the URLHash is a well-formed hex digest
func (h URLHash) Validate() error {
	if len(h) != sha256.Size*2 {
		return goerr.New("invalid URL hash length", goerr.V("hash", string(h)), goerr.V("length", len(h)))
	}
	if _, err := hex.DecodeString(string(h)); err != nil {
		return goerr.Wrap(err, "URL hash is not hex", goerr.V("hash", string(h)))
	}
	return nil
}

// BatchID identifies a submitted extraction batch. For OpenAI batch jobs it is
// the ID assigned by the Batch API; synchronous runs use "gemini-<unixtime>".
type BatchID string

// BatchStatus represents the lifecycle state of a batch job
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "pending"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"
)

// Validate checks if the BatchStatus is a known value
func (s BatchStatus) Validate() error {
	switch s {
	case BatchStatusPending, BatchStatusCompleted, BatchStatusFailed:
		return nil
	default:
		return goerr.New("invalid batch status", goerr.V("status", string(s)))
	}
}

// Provider identifies which AI backend produced or will produce a batch
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Validate checks if the Provider is a known value
func (p Provider) Validate() error {
	switch p {
	case ProviderOpenAI, ProviderGemini:
		return nil
	default:
		return goerr.New("invalid provider", goerr.V("provider", string(p)))
	}
}
