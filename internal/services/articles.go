package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"uninews/internal/models"
	"uninews/internal/utils"

	"gorm.io/gorm"
)

const defaultPageSize = 10

// ArticleService owns the article lifecycle: listing with filters, slug
// management, ordered content sections and image handoff to the blob store.
type ArticleService struct {
	db    *gorm.DB
	blobs *BlobStore
}

func NewArticleService(db *gorm.DB, blobs *BlobStore) *ArticleService {
	return &ArticleService{db: db, blobs: blobs}
}

// ListParams filters and paginates article listings. Page and Cursor are
// alternative modes; when both are set the cursor wins.
type ListParams struct {
	Page      int
	Cursor    uint
	Take      int
	Busca     string
	AutorID   uint
	Categoria string
	From      *time.Time
	To        *time.Time
	Published *bool
}

// ListResult carries one page plus the token for the next one, if any.
type ListResult struct {
	Items      []models.Article `json:"itens"`
	NextPage   *int             `json:"proxima_pagina,omitempty"`
	NextCursor *uint            `json:"proximo_cursor,omitempty"`
}

// List returns a filtered page of articles, newest first. One extra row is
// fetched beyond the page size; its presence means another page exists.
func (s *ArticleService) List(p ListParams) (*ListResult, error) {
	take := p.Take
	if take <= 0 || take > 100 {
		take = defaultPageSize
	}

	query := s.db.Model(&models.Article{}).Preload("Author").Order("id DESC")

	if p.Busca != "" {
		like := "%" + strings.ToLower(p.Busca) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(summary) LIKE ? OR EXISTS ("+
				"SELECT 1 FROM article_sections WHERE article_sections.article_id = articles.id "+
				"AND article_sections.type = ? AND LOWER(article_sections.text) LIKE ?)",
			like, like, models.SectionTexto, like)
	}
	if p.AutorID != 0 {
		query = query.Where("author_id = ?", p.AutorID)
	}
	if p.Categoria != "" {
		if !models.ValidCategory(p.Categoria) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrBadRequest, p.Categoria)
		}
		query = query.Where("category = ?", p.Categoria)
	}
	if p.From != nil {
		query = query.Where("published_at >= ?", *p.From)
	}
	if p.To != nil {
		query = query.Where("published_at <= ?", *p.To)
	}
	if p.Published != nil {
		query = query.Where("published = ?", *p.Published)
	}

	var items []models.Article
	if p.Cursor != 0 {
		query = query.Where("id < ?", p.Cursor)
	} else if p.Page > 1 {
		query = query.Offset((p.Page - 1) * take)
	}
	if err := query.Limit(take + 1).Find(&items).Error; err != nil {
		return nil, err
	}

	result := &ListResult{Items: items}
	if len(items) > take {
		result.Items = items[:take]
		if p.Cursor != 0 {
			next := result.Items[take-1].ID
			result.NextCursor = &next
		} else {
			page := p.Page
			if page < 1 {
				page = 1
			}
			next := page + 1
			result.NextPage = &next
		}
	}
	return result, nil
}

// GetBySlug returns a published article with its ordered sections, the
// author and rendered HTML per text section.
func (s *ArticleService) GetBySlug(slug string) (*models.Article, error) {
	return s.bySlug(slug, true)
}

// Preview returns an article regardless of publication state. Restricted to
// editor roles at the route level.
func (s *ArticleService) Preview(slug string) (*models.Article, error) {
	return s.bySlug(slug, false)
}

func (s *ArticleService) bySlug(slug string, publishedOnly bool) (*models.Article, error) {
	query := s.db.Preload("Author").Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordem ASC")
	}).Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	var article models.Article
	if err := query.First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article not found", ErrNotFound)
		}
		return nil, err
	}
	for i := range article.Sections {
		if article.Sections[i].Type == models.SectionTexto {
			article.Sections[i].TextHTML = utils.RenderMarkdown(article.Sections[i].Text)
		}
	}
	return &article, nil
}

// GetByID returns an article without its sections.
func (s *ArticleService) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	if err := s.db.Preload("Author").First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article not found", ErrNotFound)
		}
		return nil, err
	}
	return &article, nil
}

// SectionInput is one content block of a create or update request. Imagem
// accepts a plain URL or a base64 data URL; data URLs are uploaded to the
// blob store.
type SectionInput struct {
	Tipo   string `json:"tipo" binding:"required"`
	Texto  string `json:"texto"`
	Imagem string `json:"imagem"`
}

// ArticleInput is the write payload for articles. On update, zero-valued
// optional fields are left untouched and Sessoes, when present, replaces
// all sections.
type ArticleInput struct {
	Titulo    string         `json:"titulo"`
	Slug      string         `json:"slug"`
	Resumo    string         `json:"resumo"`
	Capa      string         `json:"capa"`
	Categoria string         `json:"categoria"`
	Publicado *bool          `json:"publicado"`
	Sessoes   []SectionInput `json:"sessoes"`
}

// Create stores a new article with its sections. The slug comes from the
// custom value or the title; collisions get a millisecond suffix.
func (s *ArticleService) Create(ctx context.Context, authorID uint, in ArticleInput) (*models.Article, error) {
	if strings.TrimSpace(in.Titulo) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrBadRequest)
	}
	if !models.ValidCategory(in.Categoria) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrBadRequest, in.Categoria)
	}

	slug, err := s.uniqueSlug(in.Slug, in.Titulo, 0)
	if err != nil {
		return nil, err
	}
	sections, err := s.buildSections(ctx, in.Sessoes)
	if err != nil {
		return nil, err
	}

	article := models.Article{
		Title:    in.Titulo,
		Slug:     slug,
		Summary:  in.Resumo,
		CoverURL: in.Capa,
		Category: models.Category(in.Categoria),
		AuthorID: authorID,
		Sections: sections,
	}
	if in.Publicado != nil && *in.Publicado {
		now := time.Now()
		article.Published = true
		article.PublishedAt = &now
	}

	if err := s.db.Create(&article).Error; err != nil {
		return nil, err
	}
	return s.Preview(article.Slug)
}

// Update applies a partial change to an article. Providing Sessoes replaces
// every section; first publication stamps PublishedAt.
func (s *ArticleService) Update(ctx context.Context, id uint, in ArticleInput) (*models.Article, error) {
	var article models.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article not found", ErrNotFound)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Titulo != "" {
		updates["title"] = in.Titulo
	}
	if in.Slug != "" && in.Slug != article.Slug {
		slug, err := s.uniqueSlug(in.Slug, "", article.ID)
		if err != nil {
			return nil, err
		}
		updates["slug"] = slug
		article.Slug = slug
	}
	if in.Resumo != "" {
		updates["summary"] = in.Resumo
	}
	if in.Capa != "" {
		updates["cover_url"] = in.Capa
	}
	if in.Categoria != "" {
		if !models.ValidCategory(in.Categoria) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrBadRequest, in.Categoria)
		}
		updates["category"] = in.Categoria
	}
	if in.Publicado != nil {
		updates["published"] = *in.Publicado
		if *in.Publicado && article.PublishedAt == nil {
			updates["published_at"] = time.Now()
		}
	}

	var sections []models.ArticleSection
	if in.Sessoes != nil {
		var err error
		sections, err = s.buildSections(ctx, in.Sessoes)
		if err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&article).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.Sessoes != nil {
			if err := tx.Where("article_id = ?", article.ID).Delete(&models.ArticleSection{}).Error; err != nil {
				return err
			}
			for i := range sections {
				sections[i].ArticleID = article.ID
			}
			if len(sections) > 0 {
				if err := tx.Create(&sections).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Preview(article.Slug)
}

// Delete removes an article together with its sections, comments and
// reactions.
func (s *ArticleService) Delete(id uint) error {
	var article models.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: article not found", ErrNotFound)
		}
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleSection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("artigo_id = ?", id).Delete(&models.ArticleReaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
}

// uniqueSlug derives a slug from the custom value or the title and keeps it
// unique, appending a millisecond timestamp on collision. excludeID lets an
// article keep its own slug on update.
func (s *ArticleService) uniqueSlug(custom, title string, excludeID uint) (string, error) {
	source := custom
	if source == "" {
		source = title
	}
	slug := utils.Slugify(source)
	if slug == "" {
		return "", fmt.Errorf("%w: cannot derive a slug from %q", ErrBadRequest, source)
	}

	var count int64
	query := s.db.Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		slug = fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
	}
	return slug, nil
}

// buildSections validates section inputs in order and uploads any data-URL
// image to the blob store.
func (s *ArticleService) buildSections(ctx context.Context, inputs []SectionInput) ([]models.ArticleSection, error) {
	sections := make([]models.ArticleSection, 0, len(inputs))
	for i, in := range inputs {
		section := models.ArticleSection{Order: i}
		switch models.SectionType(in.Tipo) {
		case models.SectionTexto:
			if strings.TrimSpace(in.Texto) == "" {
				return nil, fmt.Errorf("%w: text section %d is empty", ErrBadRequest, i)
			}
			section.Type = models.SectionTexto
			section.Text = in.Texto
		case models.SectionImagem:
			if in.Imagem == "" {
				return nil, fmt.Errorf("%w: image section %d has no image", ErrBadRequest, i)
			}
			section.Type = models.SectionImagem
			if strings.HasPrefix(in.Imagem, "data:") {
				url, err := s.blobs.UploadBase64(ctx, in.Imagem)
				if err != nil {
					return nil, err
				}
				section.ImageURL = url
			} else {
				section.ImageURL = in.Imagem
			}
		default:
			return nil, fmt.Errorf("%w: unknown section type %q", ErrBadRequest, in.Tipo)
		}
		sections = append(sections, section)
	}
	return sections, nil
}
