package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/repos"
	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/modules/hierarchy"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/apierr"
)

// HierarchyView is the student's browsable tree with its totals.
type HierarchyView struct {
	Tree  []*hierarchy.Node `json:"tree"`
	Stats hierarchy.Stats   `json:"stats"`
}

type HierarchyService interface {
	// Tree builds the hierarchy annotated with studentID's ratings. A
	// non-empty rating keeps only branches leading to that rating.
	Tree(ctx context.Context, studentID string, rating types.Rating) (*HierarchyView, error)
}

type hierarchyService struct {
	db          *gorm.DB
	log         *logger.Logger
	topicRepo   repos.TopicRepo
	contentRepo repos.ContentRepo
	ratingRepo  repos.ContentRatingRepo
	opts        hierarchy.Options
}

func NewHierarchyService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	contentRepo repos.ContentRepo,
	ratingRepo repos.ContentRatingRepo,
	opts hierarchy.Options,
) HierarchyService {
	return &hierarchyService{
		db:          db,
		log:         log.With("service", "HierarchyService"),
		topicRepo:   topicRepo,
		contentRepo: contentRepo,
		ratingRepo:  ratingRepo,
		opts:        opts,
	}
}

func (s *hierarchyService) Tree(ctx context.Context, studentID string, rating types.Rating) (*HierarchyView, error) {
	if strings.EqualFold(strings.TrimSpace(string(rating)), "all") {
		rating = ""
	}
	if rating != "" && !rating.Valid() {
		return nil, apierr.BadRequest(fmt.Sprintf("unknown rating %q", rating))
	}
	studentID = strings.TrimSpace(studentID)

	var (
		topics  []*types.Topic
		content []*types.Content
		rated   []*types.ContentRating
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		topics, err = read(gctx, s.log, "load topics", s.topicRepo.List)
		return err
	})
	g.Go(func() error {
		var err error
		content, err = read(gctx, s.log, "load content", func(dbc dbctx.Context) ([]*types.Content, error) {
			return s.contentRepo.List(dbc, "")
		})
		return err
	})
	if studentID != "" {
		g.Go(func() error {
			var err error
			rated, err = read(gctx, s.log, "load ratings", func(dbc dbctx.Context) ([]*types.ContentRating, error) {
				return s.ratingRepo.ListByStudent(dbc, studentID)
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tree := hierarchy.Build(derefAll(topics), derefAll(content), hierarchy.RatingsFrom(rated), s.opts)
	if rating != "" {
		tree = hierarchy.Filter(tree, rating)
	}
	view := &HierarchyView{Tree: tree, Stats: hierarchy.Count(tree)}
	s.log.Debug("Hierarchy built",
		"student_id", studentID,
		"topics", len(topics),
		"content", len(content),
		"roots", len(tree),
	)
	return view, nil
}

func derefAll[T any](rows []*T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
