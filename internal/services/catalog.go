package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/db"
	"github.com/yungbote/meraki-backend/internal/data/repos"
	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/apierr"
)

type CatalogService interface {
	ListTopics(ctx context.Context) ([]*types.Topic, error)
	ListBowlChallengeTopics(ctx context.Context) ([]*types.Topic, error)
	GetTopic(ctx context.Context, id string) (*types.Topic, error)
	CreateTopic(ctx context.Context, topic *types.Topic) (*types.Topic, error)
	UpdateTopic(ctx context.Context, id string, patch types.TopicPatch) (*types.Topic, error)

	ListContent(ctx context.Context, topicID string) ([]*types.Content, error)
	GetContent(ctx context.Context, id string) (*types.Content, error)
	CreateContent(ctx context.Context, content *types.Content) (*types.Content, error)
	UpdateContent(ctx context.Context, id string, patch types.ContentPatch) (*types.Content, error)

	ListContentGroups(ctx context.Context) ([]types.ContentGroupSummary, error)
	ListContentByGroup(ctx context.Context, group string) ([]*types.Content, error)
	SplitTopicContent(ctx context.Context, topicID string) (types.TopicContentSplit, error)

	ListImages(ctx context.Context) ([]*types.Image, error)
	GetImage(ctx context.Context, id string) (*types.Image, error)
	ListVideos(ctx context.Context) ([]*types.Video, error)
	GetVideo(ctx context.Context, id string) (*types.Video, error)
	ListContentVideos(ctx context.Context, contentID string) ([]*types.Video, error)

	ListQuestions(ctx context.Context, filter types.QuestionFilter) ([]*types.Question, error)
	GetQuestion(ctx context.Context, id string) (*types.Question, error)

	ListMatching(ctx context.Context) ([]*types.Matching, error)
	GetMatching(ctx context.Context, id string) (*types.Matching, error)
	ListMatchingByTopic(ctx context.Context, topicID string) ([]*types.Matching, error)
	CreateMatching(ctx context.Context, m *types.Matching) (*types.Matching, error)
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	topicRepo    repos.TopicRepo
	contentRepo  repos.ContentRepo
	imageRepo    repos.ImageRepo
	videoRepo    repos.VideoRepo
	questionRepo repos.QuestionRepo
	matchingRepo repos.MatchingRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	contentRepo repos.ContentRepo,
	imageRepo repos.ImageRepo,
	videoRepo repos.VideoRepo,
	questionRepo repos.QuestionRepo,
	matchingRepo repos.MatchingRepo,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:           db,
		log:          serviceLog,
		topicRepo:    topicRepo,
		contentRepo:  contentRepo,
		imageRepo:    imageRepo,
		videoRepo:    videoRepo,
		questionRepo: questionRepo,
		matchingRepo: matchingRepo,
	}
}

// read runs a lookup with the connection retry policy.
func read[T any](ctx context.Context, log *logger.Logger, op string, fn func(dbc dbctx.Context) (T, error)) (T, error) {
	var out T
	err := db.Retry(ctx, log, op, func() error {
		var ferr error
		out, ferr = fn(dbctx.New(ctx))
		return ferr
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// get is read for a single row, turning a missing row into a 404 naming what.
func get[T any](ctx context.Context, log *logger.Logger, op, what string, fn func(dbc dbctx.Context) (*T, error)) (*T, error) {
	row, err := read(ctx, log, op, fn)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound(what)
	}
	return row, nil
}

func (s *catalogService) ListTopics(ctx context.Context) ([]*types.Topic, error) {
	return read(ctx, s.log, "list topics", s.topicRepo.List)
}

func (s *catalogService) ListBowlChallengeTopics(ctx context.Context) ([]*types.Topic, error) {
	return read(ctx, s.log, "list bowl challenge topics", s.topicRepo.ListBowlChallenge)
}

func (s *catalogService) GetTopic(ctx context.Context, id string) (*types.Topic, error) {
	return get(ctx, s.log, "get topic", "Topic", func(dbc dbctx.Context) (*types.Topic, error) {
		return s.topicRepo.GetByID(dbc, id)
	})
}

func (s *catalogService) CreateTopic(ctx context.Context, topic *types.Topic) (*types.Topic, error) {
	if topic == nil || strings.TrimSpace(topic.ID) == "" {
		return nil, apierr.BadRequest("topic id is required")
	}
	if strings.TrimSpace(topic.Topic) == "" {
		return nil, apierr.BadRequest("topic name is required")
	}
	topic.ID = strings.TrimSpace(topic.ID)
	if err := s.topicRepo.Create(dbctx.New(ctx), topic); err != nil {
		return nil, db.MapError("create topic", err)
	}
	s.log.Info("Topic created", "topic_id", topic.ID)
	return topic, nil
}

func (s *catalogService) UpdateTopic(ctx context.Context, id string, patch types.TopicPatch) (*types.Topic, error) {
	if patch.Topic != nil && strings.TrimSpace(*patch.Topic) == "" {
		return nil, apierr.BadRequest("topic name cannot be blank")
	}
	if patch.ParentID != nil && strings.TrimSpace(*patch.ParentID) == id {
		return nil, apierr.BadRequest("topic cannot be its own parent")
	}
	t, err := s.topicRepo.Update(dbctx.New(ctx), id, patch.Columns())
	if err != nil {
		return nil, db.MapError("update topic", err)
	}
	if t == nil {
		return nil, apierr.NotFound("Topic")
	}
	return t, nil
}

func (s *catalogService) ListContent(ctx context.Context, topicID string) ([]*types.Content, error) {
	return read(ctx, s.log, "list content", func(dbc dbctx.Context) ([]*types.Content, error) {
		return s.contentRepo.List(dbc, strings.TrimSpace(topicID))
	})
}

func (s *catalogService) GetContent(ctx context.Context, id string) (*types.Content, error) {
	return get(ctx, s.log, "get content", "Content", func(dbc dbctx.Context) (*types.Content, error) {
		return s.contentRepo.GetByID(dbc, id)
	})
}

func (s *catalogService) CreateContent(ctx context.Context, content *types.Content) (*types.Content, error) {
	if content == nil {
		return nil, apierr.BadRequest("content is required")
	}
	if strings.TrimSpace(content.Title) == "" {
		return nil, apierr.BadRequest("content title is required")
	}
	if strings.TrimSpace(content.ID) == "" {
		content.ID = uuid.NewString()
	}
	if err := s.contentRepo.Create(dbctx.New(ctx), content); err != nil {
		return nil, db.MapError("create content", err)
	}
	s.log.Info("Content created", "content_id", content.ID, "topic_id", content.TopicID)
	return content, nil
}

func (s *catalogService) UpdateContent(ctx context.Context, id string, patch types.ContentPatch) (*types.Content, error) {
	c, err := s.contentRepo.Update(dbctx.New(ctx), id, patch)
	if err != nil {
		return nil, db.MapError("update content", err)
	}
	if c == nil {
		return nil, apierr.NotFound("Content")
	}
	return c, nil
}

func (s *catalogService) ListContentGroups(ctx context.Context) ([]types.ContentGroupSummary, error) {
	return read(ctx, s.log, "list content groups", s.contentRepo.ListGroups)
}

func (s *catalogService) ListContentByGroup(ctx context.Context, group string) ([]*types.Content, error) {
	return read(ctx, s.log, "list content by group", func(dbc dbctx.Context) ([]*types.Content, error) {
		return s.contentRepo.ListByGroup(dbc, group)
	})
}

func (s *catalogService) SplitTopicContent(ctx context.Context, topicID string) (types.TopicContentSplit, error) {
	rows, err := s.ListContent(ctx, topicID)
	if err != nil {
		return types.TopicContentSplit{}, err
	}
	return types.SplitByGroup(rows), nil
}

func (s *catalogService) ListImages(ctx context.Context) ([]*types.Image, error) {
	return read(ctx, s.log, "list images", s.imageRepo.List)
}

func (s *catalogService) GetImage(ctx context.Context, id string) (*types.Image, error) {
	return get(ctx, s.log, "get image", "Image", func(dbc dbctx.Context) (*types.Image, error) {
		return s.imageRepo.GetByID(dbc, id)
	})
}

func (s *catalogService) ListVideos(ctx context.Context) ([]*types.Video, error) {
	return read(ctx, s.log, "list videos", s.videoRepo.List)
}

func (s *catalogService) GetVideo(ctx context.Context, id string) (*types.Video, error) {
	return get(ctx, s.log, "get video", "Video", func(dbc dbctx.Context) (*types.Video, error) {
		return s.videoRepo.GetByID(dbc, id)
	})
}

func (s *catalogService) ListContentVideos(ctx context.Context, contentID string) ([]*types.Video, error) {
	return read(ctx, s.log, "list content videos", func(dbc dbctx.Context) ([]*types.Video, error) {
		return s.videoRepo.ListByContentID(dbc, contentID)
	})
}

func (s *catalogService) ListQuestions(ctx context.Context, filter types.QuestionFilter) ([]*types.Question, error) {
	filter.ContentID = strings.TrimSpace(filter.ContentID)
	filter.TopicID = strings.TrimSpace(filter.TopicID)
	return read(ctx, s.log, "list questions", func(dbc dbctx.Context) ([]*types.Question, error) {
		return s.questionRepo.List(dbc, filter)
	})
}

func (s *catalogService) GetQuestion(ctx context.Context, id string) (*types.Question, error) {
	return get(ctx, s.log, "get question", "Question", func(dbc dbctx.Context) (*types.Question, error) {
		return s.questionRepo.GetByID(dbc, id)
	})
}

func (s *catalogService) ListMatching(ctx context.Context) ([]*types.Matching, error) {
	return read(ctx, s.log, "list matching", s.matchingRepo.List)
}

func (s *catalogService) GetMatching(ctx context.Context, id string) (*types.Matching, error) {
	return get(ctx, s.log, "get matching", "Matching", func(dbc dbctx.Context) (*types.Matching, error) {
		return s.matchingRepo.GetByID(dbc, id)
	})
}

func (s *catalogService) ListMatchingByTopic(ctx context.Context, topicID string) ([]*types.Matching, error) {
	return read(ctx, s.log, "list matching by topic", func(dbc dbctx.Context) ([]*types.Matching, error) {
		return s.matchingRepo.ListByTopicID(dbc, topicID)
	})
}

func (s *catalogService) CreateMatching(ctx context.Context, m *types.Matching) (*types.Matching, error) {
	if m == nil || strings.TrimSpace(m.ID) == "" {
		return nil, apierr.BadRequest("matching id is required")
	}
	if len(m.Pairs()) == 0 {
		return nil, apierr.BadRequest("matching needs at least one prompt/choice pair")
	}
	if err := s.matchingRepo.Create(dbctx.New(ctx), m); err != nil {
		return nil, db.MapError("create matching", err)
	}
	return m, nil
}
