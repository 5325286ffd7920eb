package openaibatch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/service/ai"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
	"github.com/soochi-lab/soochi/pkg/utils/safe"
)

const (
	customIDPrefix   = "task-"
	batchFileName    = "soochi_batch_tasks.jsonl"
	completionWindow = "24h"
	temperature      = 0.4
)

// Service submits idea extraction work to the OpenAI Batch API and
// collects the results once a batch completes
type Service struct {
	client *openai.Client
	model  string
	prompt string
}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithSystemPrompt overrides the built-in extraction prompt
func WithSystemPrompt(prompt string) Option {
	return func(s *Service) {
		if prompt != "" {
			s.prompt = prompt
		}
	}
}

func New(apiKey, model string, opts ...Option) (*Service, error) {
	if apiKey == "" {
		return nil, goerr.New("OpenAI API key is required")
	}
	if model == "" {
		return nil, goerr.New("OpenAI model is required")
	}

	s := &Service{
		client: openai.NewClient(apiKey),
		model:  model,
		prompt: ai.SystemPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// batchRequest is one JSONL line of a batch input file
type batchRequest struct {
	CustomID string                       `json:"custom_id"`
	Method   string                       `json:"method"`
	URL      string                       `json:"url"`
	Body     openai.ChatCompletionRequest `json:"body"`
}

// batchResult is one JSONL line of a batch output file
type batchResult struct {
	CustomID string `json:"custom_id"`
	Response struct {
		Body struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		} `json:"body"`
	} `json:"response"`
}

// BuildTasks renders extraction requests for each article as JSONL.
// The URL hash is carried in custom_id so results can be joined back to
// their source article.
func (s *Service) BuildTasks(contents map[types.URLHash]string) ([]byte, error) {
	var buf bytes.Buffer
	for hash, content := range contents {
		req := batchRequest{
			CustomID: customIDPrefix + string(hash),
			Method:   "POST",
			URL:      "/v1/chat/completions",
			Body: openai.ChatCompletionRequest{
				Model:       s.model,
				Temperature: temperature,
				ResponseFormat: &openai.ChatCompletionResponseFormat{
					Type: openai.ChatCompletionResponseFormatTypeJSONObject,
				},
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleSystem, Content: s.prompt},
					{Role: openai.ChatMessageRoleUser, Content: "Input: " + content + "\nResponse (JSON):"},
				},
			},
		}

		line, err := json.Marshal(req)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal batch task", goerr.V("hash", hash))
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Submit uploads the JSONL tasks and creates a batch job
func (s *Service) Submit(ctx context.Context, tasks []byte) (types.BatchID, error) {
	if len(tasks) == 0 {
		return "", goerr.New("no batch tasks to submit")
	}

	file, err := s.client.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    batchFileName,
		Bytes:   tasks,
		Purpose: openai.PurposeBatch,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to upload batch file")
	}

	batch, err := s.client.CreateBatch(ctx, openai.CreateBatchRequest{
		InputFileID:      file.ID,
		Endpoint:         openai.BatchEndpointChatCompletions,
		CompletionWindow: completionWindow,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create batch job", goerr.V("fileID", file.ID))
	}

	return types.BatchID(batch.ID), nil
}

// Status maps the remote batch state to a BatchStatus. For a completed
// batch the output file ID is returned alongside.
func (s *Service) Status(ctx context.Context, id types.BatchID) (types.BatchStatus, string, error) {
	batch, err := s.client.RetrieveBatch(ctx, string(id))
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to retrieve batch", goerr.V("id", id))
	}

	switch batch.Status {
	case "completed":
		outputFileID := ""
		if batch.OutputFileID != nil {
			outputFileID = *batch.OutputFileID
		}
		if outputFileID == "" {
			return "", "", goerr.New("completed batch has no output file", goerr.V("id", id))
		}
		return types.BatchStatusCompleted, outputFileID, nil
	case "failed", "expired", "cancelled":
		return types.BatchStatusFailed, "", nil
	default:
		return types.BatchStatusPending, "", nil
	}
}

// FetchResults downloads a batch output file and parses the extracted ideas
func (s *Service) FetchResults(ctx context.Context, outputFileID string) ([]model.Idea, error) {
	content, err := s.client.GetFileContent(ctx, outputFileID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download batch results", goerr.V("fileID", outputFileID))
	}
	defer safe.Close(ctx, content)

	return ParseResults(ctx, content)
}

// ParseResults reads batch output JSONL and returns every idea found.
// Malformed lines are logged and skipped so one bad record does not
// discard the rest of the batch.
func ParseResults(ctx context.Context, r io.Reader) ([]model.Idea, error) {
	logger := logging.From(ctx)

	var ideas []model.Idea
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var result batchResult
		if err := json.Unmarshal([]byte(line), &result); err != nil {
			logger.Warn("skipping malformed batch result line", "error", err)
			continue
		}
		if len(result.Response.Body.Choices) == 0 {
			logger.Warn("batch result has no choices", "customID", result.CustomID)
			continue
		}

		var extraction model.ExtractionResponse
		if err := json.Unmarshal([]byte(result.Response.Body.Choices[0].Message.Content), &extraction); err != nil {
			logger.Warn("skipping unparsable extraction content",
				"customID", result.CustomID, "error", err)
			continue
		}

		hash := types.URLHash(strings.TrimPrefix(result.CustomID, customIDPrefix))
		for _, idea := range extraction.Output {
			idea.URLHash = hash
			ideas = append(ideas, idea)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read batch results")
	}

	return ideas, nil
}
