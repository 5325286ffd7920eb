package usecase

import (
	"github.com/soochi-lab/soochi/pkg/domain/interfaces"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/service/ai"
	"github.com/soochi-lab/soochi/pkg/service/extract"
	"github.com/soochi-lab/soochi/pkg/service/feed"
	"github.com/soochi-lab/soochi/pkg/service/notion"
	"github.com/soochi-lab/soochi/pkg/service/openaibatch"
	"github.com/soochi-lab/soochi/pkg/service/slack"
)

type UseCases struct {
	repo   interfaces.Repository
	vector interfaces.VectorIndex
	ai     ai.Service

	feeds    []model.Feed
	feedSvc  *feed.Service
	extract  *extract.Service
	batchSvc *openaibatch.Service
	notion   notion.Service
	slack    slack.Service
}

type Option func(*UseCases)

// WithFeeds sets the RSS feeds processed by publish and process runs
func WithFeeds(feeds []model.Feed) Option {
	return func(uc *UseCases) {
		uc.feeds = feeds
	}
}

// WithFeedService replaces the feed collection service
func WithFeedService(svc *feed.Service) Option {
	return func(uc *UseCases) {
		uc.feedSvc = svc
	}
}

// WithExtractService replaces the article extraction service
func WithExtractService(svc *extract.Service) Option {
	return func(uc *UseCases) {
		uc.extract = svc
	}
}

// WithBatchService enables OpenAI batch publishing and subscribing
func WithBatchService(svc *openaibatch.Service) Option {
	return func(uc *UseCases) {
		uc.batchSvc = svc
	}
}

// WithNotion enables mirroring ideas into a Notion database
func WithNotion(svc notion.Service) Option {
	return func(uc *UseCases) {
		uc.notion = svc
	}
}

// WithSlack enables Slack announcements for newly discovered ideas
func WithSlack(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.slack = svc
	}
}

func New(repo interfaces.Repository, vector interfaces.VectorIndex, aiSvc ai.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		vector: vector,
		ai:     aiSvc,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.feedSvc == nil {
		uc.feedSvc = feed.New()
	}
	if uc.extract == nil {
		uc.extract = extract.New()
	}

	return uc
}
