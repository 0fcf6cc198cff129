package services

import (
	"errors"
	"fmt"

	"uninews/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionTally maps reaction type to count. Types with zero reactions are
// omitted.
type ReactionTally map[models.ReactionType]int64

// ReactionService applies the one-reaction-per-user rule for articles and
// comments. Setting a reaction a second time replaces the previous type in
// a single upsert, so two concurrent requests from the same user can never
// leave two rows behind.
type ReactionService struct {
	db *gorm.DB
}

func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{db: db}
}

// ReactToArticle records or replaces the caller's reaction to a published
// article and returns the updated tally.
func (s *ReactionService) ReactToArticle(userID, articleID uint, tipo string) (ReactionTally, error) {
	if !models.ValidReactionType(tipo) {
		return nil, fmt.Errorf("%w: unknown reaction type %q", ErrBadRequest, tipo)
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

	reaction := models.ArticleReaction{
		UserID:    userID,
		ArticleID: articleID,
		Type:      models.ReactionType(tipo),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "usuario_id"}, {Name: "artigo_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"tipo": tipo}),
	}).Create(&reaction).Error
	if err != nil {
		return nil, err
	}
	return s.ArticleTally(articleID)
}

// UnreactArticle removes the caller's reaction, if any, and returns the
// updated tally plus whether a reaction existed. Removing a reaction that
// does not exist is not an error.
func (s *ReactionService) UnreactArticle(userID, articleID uint) (ReactionTally, bool, error) {
	res := s.db.Where("usuario_id = ? AND artigo_id = ?", userID, articleID).
		Delete(&models.ArticleReaction{})
	if res.Error != nil {
		return nil, false, res.Error
	}
	tally, err := s.ArticleTally(articleID)
	return tally, res.RowsAffected > 0, err
}

// RemoveArticleReactionByID deletes a specific reaction row. Only its owner
// or an admin may remove it.
func (s *ReactionService) RemoveArticleReactionByID(callerID uint, callerIsAdmin bool, reactionID uint) (ReactionTally, error) {
	var reaction models.ArticleReaction
	if err := s.db.First(&reaction, reactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reaction not found", ErrNotFound)
		}
		return nil, err
	}
	if reaction.UserID != callerID && !callerIsAdmin {
		return nil, fmt.Errorf("%w: not the reaction owner", ErrForbidden)
	}
	if err := s.db.Delete(&reaction).Error; err != nil {
		return nil, err
	}
	return s.ArticleTally(reaction.ArticleID)
}

// ArticleTally counts reactions to an article grouped by type.
func (s *ReactionService) ArticleTally(articleID uint) (ReactionTally, error) {
	return s.tally(s.db.Model(&models.ArticleReaction{}).Where("artigo_id = ?", articleID))
}

// ReactToComment records or replaces the caller's reaction to a comment
// and returns the updated tally.
func (s *ReactionService) ReactToComment(userID, commentID uint, tipo string) (ReactionTally, error) {
	if !models.ValidReactionType(tipo) {
		return nil, fmt.Errorf("%w: unknown reaction type %q", ErrBadRequest, tipo)
	}

	var comment models.Comment
	if err := s.db.Select("id").First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment not found", ErrNotFound)
		}
		return nil, err
	}

	reaction := models.CommentReaction{
		UserID:    userID,
		CommentID: commentID,
		Type:      models.ReactionType(tipo),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "usuario_id"}, {Name: "comentario_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"tipo": tipo}),
	}).Create(&reaction).Error
	if err != nil {
		return nil, err
	}
	return s.CommentTally(commentID)
}

// UnreactComment removes the caller's reaction to a comment, if any.
func (s *ReactionService) UnreactComment(userID, commentID uint) (ReactionTally, bool, error) {
	res := s.db.Where("usuario_id = ? AND comentario_id = ?", userID, commentID).
		Delete(&models.CommentReaction{})
	if res.Error != nil {
		return nil, false, res.Error
	}
	tally, err := s.CommentTally(commentID)
	return tally, res.RowsAffected > 0, err
}

// RemoveCommentReactionByID deletes a specific comment reaction row. Only
// its owner or an admin may remove it.
func (s *ReactionService) RemoveCommentReactionByID(callerID uint, callerIsAdmin bool, reactionID uint) (ReactionTally, error) {
	var reaction models.CommentReaction
	if err := s.db.First(&reaction, reactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reaction not found", ErrNotFound)
		}
		return nil, err
	}
	if reaction.UserID != callerID && !callerIsAdmin {
		return nil, fmt.Errorf("%w: not the reaction owner", ErrForbidden)
	}
	if err := s.db.Delete(&reaction).Error; err != nil {
		return nil, err
	}
	return s.CommentTally(reaction.CommentID)
}

// CommentTally counts reactions to a comment grouped by type.
func (s *ReactionService) CommentTally(commentID uint) (ReactionTally, error) {
	return s.tally(s.db.Model(&models.CommentReaction{}).Where("comentario_id = ?", commentID))
}

// UserReaction returns the type the user reacted to an article with, or nil.
func (s *ReactionService) UserReaction(userID, articleID uint) (*models.ReactionType, error) {
	var reaction models.ArticleReaction
	err := s.db.Where("usuario_id = ? AND artigo_id = ?", userID, articleID).First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction.Type, nil
}

func (s *ReactionService) tally(query *gorm.DB) (ReactionTally, error) {
	var rows []struct {
		Tipo  models.ReactionType
		Count int64
	}
	if err := query.Select("tipo, COUNT(*) AS count").Group("tipo").Scan(&rows).Error; err != nil {
		return nil, err
	}
	tally := make(ReactionTally, len(rows))
	for _, r := range rows {
		tally[r.Tipo] = r.Count
	}
	return tally, nil
}
