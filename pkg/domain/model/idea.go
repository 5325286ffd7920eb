package model

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the embedding vector.
// OpenAI text-embedding-3-small supports down-projection to 1536 dimensions.
const EmbeddingDimension = 1536

// EmbeddingModel is the model used to embed ideas for similarity checks
const EmbeddingModel = "text-embedding-3-small"

// SimilarityThreshold is the cosine score above which two ideas are
// considered the same idea and merged by count instead of stored twice.
const SimilarityThreshold = 0.75

// SimilarityTopK is the number of nearest neighbors fetched per similarity query
const SimilarityTopK = 5

// IdeaType classifies an extracted idea
type IdeaType string

const (
	IdeaTypeSaaS           IdeaType = "SaaS"
	IdeaTypeStartup        IdeaType = "Startup"
	IdeaTypeOpenSource     IdeaType = "Open-Source"
	IdeaTypeGeneralProject IdeaType = "General-Project"
)

// Idea represents a single idea extracted from article content.
// JSON tags follow the extraction response schema the LLM is asked to produce.
type Idea struct {
	Title                 string        `json:"title"`
	Type                  IdeaType      `json:"type"`
	ProblemStatement      string        `json:"problemStatement"`
	Solution              string        `json:"solution"`
	TargetAudience        string        `json:"targetAudience"`
	InnovationScore       float64       `json:"innovationScore"`
	PotentialApplications string        `json:"potentialApplications"`
	Prerequisites         string        `json:"prerequisites"`
	AdditionalNotes       string        `json:"additionalNotes"`
	URLHash               types.URLHash `json:"-"`
	Embedding             []float32     `json:"-"`
}

// ExtractionResponse is the envelope the LLM returns for one article
type ExtractionResponse struct {
	EndReason string `json:"endReason,omitempty"`
	Output    []Idea `json:"output"`
}

// Validate checks the minimum an idea needs before it can be synced
func (x *Idea) Validate() error {
	if x.Title == "" {
		return goerr.New("idea title is required")
	}
	if x.InnovationScore < 0 || x.InnovationScore > 10 {
		return goerr.New("innovation score must be between 0 and 10",
			goerr.V("title", x.Title), goerr.V("score", x.InnovationScore))
	}
	return nil
}

// EmbeddingText returns the text embedded for similarity checks.
// Problem statement and solution together identify an idea; the title alone
// is too volatile across sources.
func (x *Idea) EmbeddingText() string {
	return x.ProblemStatement + "_" + x.Solution
}

// PointID returns the deterministic vector point ID for the idea.
// UUIDv5 of the title keeps re-upserts of the same idea idempotent.
func (x *Idea) PointID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(x.Title)).String()
}
