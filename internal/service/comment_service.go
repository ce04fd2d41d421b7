package service

import (
	"errors"
	"fmt"

	"conduit/internal/api/dto"
	"conduit/internal/model"
	"conduit/internal/repository"

	"gorm.io/gorm"
)

type CommentService struct {
	articles    *ArticleService
	commentRepo *repository.CommentRepository
	followRepo  *repository.FollowRepository
}

func NewCommentService(articles *ArticleService, commentRepo *repository.CommentRepository, followRepo *repository.FollowRepository) *CommentService {
	return &CommentService{articles: articles, commentRepo: commentRepo, followRepo: followRepo}
}

// Create 发表评论
func (s *CommentService) Create(viewerID int64, slug, body string) (*dto.CommentInfo, error) {
	article, err := s.articles.getBySlug(slug)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{Body: body, ArticleID: article.ID, AuthorID: viewerID}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}
	return s.buildOne(viewerID, created)
}

// List 文章的评论列表，最新的在前
func (s *CommentService) List(viewerID int64, slug string, offset, limit int) (*dto.CommentListResponse, error) {
	article, err := s.articles.getBySlug(slug)
	if err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.ListByArticle(article.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	infos, err := s.buildComments(viewerID, comments)
	if err != nil {
		return nil, err
	}
	return &dto.CommentListResponse{Comments: infos, CommentsCount: total}, nil
}

// Update 修改评论，仅评论作者可操作
func (s *CommentService) Update(viewerID int64, slug string, commentID int64, body string) (*dto.CommentInfo, error) {
	_, comment, err := s.find(slug, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != viewerID {
		return nil, ErrCommentForbidden
	}

	updated, err := s.commentRepo.UpdateBody(comment.ID, body)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return s.buildOne(viewerID, updated)
}

// Delete 删除评论，评论作者或文章作者可操作
func (s *CommentService) Delete(viewerID int64, slug string, commentID int64) error {
	article, comment, err := s.find(slug, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != viewerID && article.AuthorID != viewerID {
		return ErrCommentForbidden
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// find 先确认文章存在，再确认评论属于该文章
func (s *CommentService) find(slug string, commentID int64) (*model.Article, *model.Comment, error) {
	article, err := s.articles.getBySlug(slug)
	if err != nil {
		return nil, nil, err
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCommentNotFound
		}
		return nil, nil, err
	}
	if comment.ArticleID != article.ID {
		return nil, nil, ErrCommentNotFound
	}
	return article, comment, nil
}

func (s *CommentService) buildOne(viewerID int64, comment *model.Comment) (*dto.CommentInfo, error) {
	infos, err := s.buildComments(viewerID, []model.Comment{*comment})
	if err != nil {
		return nil, err
	}
	return &infos[0], nil
}

// buildComments author.following 表示访问者是否关注了评论作者
func (s *CommentService) buildComments(viewerID int64, comments []model.Comment) ([]dto.CommentInfo, error) {
	infos := make([]dto.CommentInfo, 0, len(comments))

	following := map[int64]bool{}
	if viewerID != 0 && len(comments) > 0 {
		authorIDs := make([]int64, 0, len(comments))
		for i := range comments {
			authorIDs = append(authorIDs, comments[i].AuthorID)
		}
		var err error
		if following, err = s.followRepo.BatchCheckFollowing(viewerID, authorIDs); err != nil {
			return nil, err
		}
	}

	for i := range comments {
		c := &comments[i]
		infos = append(infos, dto.CommentInfo{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Body:      c.Body,
			Author:    *toProfile(&c.Author, following[c.AuthorID]),
		})
	}
	return infos, nil
}
