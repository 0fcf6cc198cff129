package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"uninews/internal/models"

	"gorm.io/gorm"
)

// maxReplyDepth bounds the parent-pointer walk when flattening a reply to
// its root. Chains longer than this only exist on corrupted data.
const maxReplyDepth = 64

const (
	commentMinLen = 10
	commentMaxLen = 500
)

// CommentService reconstructs the public two-level thread view out of the
// flattened comment storage and keeps the flattening invariant on writes:
// ParentID always points at a top-level comment, InReplyTo at the comment
// actually being answered.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// ListByArticle returns all top-level comments of an article, newest first,
// each with its replies in chronological order.
func (s *CommentService) ListByArticle(articleID uint) ([]models.CommentThread, error) {
	var roots []models.Comment
	if err := s.db.Preload("Author").
		Where("article_id = ? AND parent_id IS NULL", articleID).
		Order("created_at DESC, id DESC").
		Find(&roots).Error; err != nil {
		return nil, err
	}

	var replies []models.Comment
	if err := s.db.Preload("Author").
		Where("article_id = ? AND parent_id IS NOT NULL", articleID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error; err != nil {
		return nil, err
	}

	// Group replies by their root. The flattening invariant guarantees the
	// parent of every reply is one of the roots.
	grouped := make(map[uint][]models.Comment, len(roots))
	for _, r := range replies {
		grouped[*r.ParentID] = append(grouped[*r.ParentID], r)
	}

	threads := make([]models.CommentThread, len(roots))
	for i, root := range roots {
		threads[i] = models.CommentThread{
			Comment: root,
			Replies: grouped[root.ID],
		}
	}
	return threads, nil
}

// Create adds a comment to a published article. When replyToID is set the
// new comment is linked to the *root* of the target's thread while
// InReplyTo records the target itself, so storage stays two levels deep no
// matter how deep users nest their replies.
func (s *CommentService) Create(authorID, articleID uint, content string, replyToID *uint) (*models.Comment, error) {
	if n := utf8.RuneCountInString(content); n < commentMinLen || n > commentMaxLen {
		return nil, fmt.Errorf("%w: comment must be between %d and %d characters", ErrBadRequest, commentMinLen, commentMaxLen)
	}

	var article models.Article
	if err := s.db.Select("id", "published").First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article not found", ErrNotFound)
		}
		return nil, err
	}
	if !article.Published {
		return nil, fmt.Errorf("%w: article not published", ErrNotFound)
	}

	comment := models.Comment{
		ArticleID: articleID,
		AuthorID:  authorID,
		Content:   content,
	}

	if replyToID != nil {
		var target models.Comment
		if err := s.db.First(&target, *replyToID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: reply target not found", ErrNotFound)
			}
			return nil, err
		}
		if target.ArticleID != articleID {
			return nil, fmt.Errorf("%w: reply target belongs to another article", ErrNotFound)
		}

		rootID, err := s.resolveRoot(&target)
		if err != nil {
			return nil, err
		}
		comment.ParentID = &rootID
		inReplyTo := target.ID
		comment.InReplyTo = &inReplyTo
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// resolveRoot walks the parent chain up to the top-level ancestor. The walk
// is bounded; corrupted chains fail instead of looping.
func (s *CommentService) resolveRoot(target *models.Comment) (uint, error) {
	current := *target
	for depth := 0; current.ParentID != nil; depth++ {
		if depth >= maxReplyDepth {
			return 0, fmt.Errorf("%w: reply chain exceeds maximum depth", ErrDataIntegrity)
		}
		var parent models.Comment
		if err := s.db.First(&parent, *current.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, fmt.Errorf("%w: broken reply chain", ErrNotFound)
			}
			return 0, err
		}
		current = parent
	}
	return current.ID, nil
}

// GetByID returns one comment with its author.
func (s *CommentService) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment not found", ErrNotFound)
		}
		return nil, err
	}
	return &comment, nil
}

// Update replaces the content of a comment. Only the owner or an admin may
// edit.
func (s *CommentService) Update(callerID uint, callerIsAdmin bool, id uint, content string) (*models.Comment, error) {
	if n := utf8.RuneCountInString(content); n < commentMinLen || n > commentMaxLen {
		return nil, fmt.Errorf("%w: comment must be between %d and %d characters", ErrBadRequest, commentMinLen, commentMaxLen)
	}

	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment not found", ErrNotFound)
		}
		return nil, err
	}
	if comment.AuthorID != callerID && !callerIsAdmin {
		return nil, fmt.Errorf("%w: not the comment author", ErrForbidden)
	}

	if err := s.db.Model(&comment).Update("content", content).Error; err != nil {
		return nil, err
	}
	comment.Content = content
	return &comment, nil
}

// Remove deletes a comment. Deleting a top-level comment also deletes its
// replies; leaving them would orphan rows whose parent no longer exists.
func (s *CommentService) Remove(callerID uint, callerIsAdmin bool, id uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment not found", ErrNotFound)
		}
		return err
	}
	if comment.AuthorID != callerID && !callerIsAdmin {
		return fmt.Errorf("%w: not the comment author", ErrForbidden)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if comment.ParentID == nil {
			if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&comment).Error
	})
}
