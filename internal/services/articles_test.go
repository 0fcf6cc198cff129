package services

import (
	"context"
	"fmt"
	"testing"

	"uninews/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newArticleService(gdb *gorm.DB) *ArticleService {
	return NewArticleService(gdb, NewBlobStoreFromEnv())
}

func TestCreateArticleSlug(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArticleService(gdb)
	author := newUser(t, gdb, models.RoleProfessor)
	ctx := context.Background()

	article, err := svc.Create(ctx, author.ID, ArticleInput{
		Titulo:    "Inscrições Abertas: Semana de Computação",
		Categoria: "EVENTO",
	})
	require.NoError(t, err)
	assert.Equal(t, "inscricoes-abertas-semana-de-computacao", article.Slug)

	// A colliding title gets a timestamp suffix.
	second, err := svc.Create(ctx, author.ID, ArticleInput{
		Titulo:    "Inscrições Abertas: Semana de Computação",
		Categoria: "EVENTO",
	})
	require.NoError(t, err)
	assert.NotEqual(t, article.Slug, second.Slug)
	assert.Contains(t, second.Slug, "inscricoes-abertas-semana-de-computacao-")

	custom, err := svc.Create(ctx, author.ID, ArticleInput{
		Titulo:    "Outro título",
		Slug:      "Slug Personalizado!",
		Categoria: "NOTICIA",
	})
	require.NoError(t, err)
	assert.Equal(t, "slug-personalizado", custom.Slug)

	_, err = svc.Create(ctx, author.ID, ArticleInput{Titulo: "!!!", Categoria: "NOTICIA"})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.Create(ctx, author.ID, ArticleInput{Titulo: "Sem categoria", Categoria: "OUTRA"})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestCreateArticleSections(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArticleService(gdb)
	author := newUser(t, gdb, models.RoleProfessor)
	published := true

	article, err := svc.Create(context.Background(), author.ID, ArticleInput{
		Titulo:    "Artigo com seções",
		Categoria: "NOTICIA",
		Publicado: &published,
		Sessoes: []SectionInput{
			{Tipo: "TEXTO", Texto: "# Primeiro bloco"},
			{Tipo: "IMAGEM", Imagem: "https://example.com/foto.png"},
			{Tipo: "TEXTO", Texto: "Segundo bloco"},
		},
	})
	require.NoError(t, err)
	require.Len(t, article.Sections, 3)
	assert.Equal(t, 0, article.Sections[0].Order)
	assert.Equal(t, models.SectionImagem, article.Sections[1].Type)
	assert.Equal(t, 2, article.Sections[2].Order)
	assert.NotNil(t, article.PublishedAt)

	// Text sections come back rendered.
	assert.Contains(t, article.Sections[0].TextHTML, "<h1")

	_, err = svc.Create(context.Background(), author.ID, ArticleInput{
		Titulo:    "Seção inválida",
		Categoria: "NOTICIA",
		Sessoes:   []SectionInput{{Tipo: "VIDEO"}},
	})
	assert.ErrorIs(t, err, ErrBadRequest)

	// Data-URL images need the blob store configured.
	_, err = svc.Create(context.Background(), author.ID, ArticleInput{
		Titulo:    "Com imagem embutida",
		Categoria: "NOTICIA",
		Sessoes:   []SectionInput{{Tipo: "IMAGEM", Imagem: "data:image/png;base64,AAAA"}},
	})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestGetBySlugPublishedOnly(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArticleService(gdb)
	author := newUser(t, gdb, models.RoleProfessor)

	draft := newArticle(t, gdb, author.ID, false)
	_, err := svc.GetBySlug(draft.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	preview, err := svc.Preview(draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, preview.ID)

	published := newArticle(t, gdb, author.ID, true)
	got, err := svc.GetBySlug(published.Slug)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
}

func TestListPaginationSentinel(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArticleService(gdb)
	author := newUser(t, gdb, models.RoleProfessor)
	for i := 0; i < 7; i++ {
		newArticle(t, gdb, author.ID, true)
	}

	page1, err := svc.List(ListParams{Take: 3, Page: 1})
	require.NoError(t, err)
	assert.Len(t, page1.Items, 3)
	require.NotNil(t, page1.NextPage)
	assert.Equal(t, 2, *page1.NextPage)

	page3, err := svc.List(ListParams{Take: 3, Page: 3})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)
	assert.Nil(t, page3.NextPage)

	// Cursor mode pages through the same set.
	first, err := svc.List(ListParams{Take: 3, Cursor: 0})
	require.NoError(t, err)
	require.NotNil(t, first.NextCursor)

	second, err := svc.List(ListParams{Take: 3, Cursor: *first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 3)
	assert.Less(t, second.Items[0].ID, first.Items[2].ID)
}

func TestListFilters(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArticleService(gdb)
	author := newUser(t, gdb, models.RoleProfessor)
	other := newUser(t, gdb, models.RoleProfessor)
	ctx := context.Background()
	published := true

	_, err := svc.Create(ctx, author.ID, ArticleInput{
		Titulo:    "Edital do programa de monitoria",
		Categoria: "EDITAL",
		Publicado: &published,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, ArticleInput{
		Titulo:    "Resultado da maratona",
		Categoria: "NOTICIA",
		Publicado: &published,
		Sessoes:   []SectionInput{{Tipo: "TEXTO", Texto: "A equipe Quixadá venceu a etapa regional."}},
	})
	require.NoError(t, err)

	// Search is case-insensitive and reaches section text.
	result, err := svc.List(ListParams{Busca: "MONITORIA"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Contains(t, result.Items[0].Title, "monitoria")

	result, err = svc.List(ListParams{Busca: "quixadá venceu"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Contains(t, result.Items[0].Title, "maratona")

	result, err = svc.List(ListParams{Categoria: "EDITAL"})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)

	result, err = svc.List(ListParams{AutorID: other.ID})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)

	_, err = svc.List(ListParams{Categoria: "INVALIDA"})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestUpdateArticle(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArticleService(gdb)
	author := newUser(t, gdb, models.RoleProfessor)
	ctx := context.Background()

	article, err := svc.Create(ctx, author.ID, ArticleInput{
		Titulo:    "Rascunho",
		Categoria: "NOTICIA",
		Sessoes:   []SectionInput{{Tipo: "TEXTO", Texto: "original"}},
	})
	require.NoError(t, err)
	assert.Nil(t, article.PublishedAt)

	publish := true
	updated, err := svc.Update(ctx, article.ID, ArticleInput{
		Titulo:    "Rascunho revisado",
		Publicado: &publish,
		Sessoes: []SectionInput{
			{Tipo: "TEXTO", Texto: "novo conteúdo"},
			{Tipo: "IMAGEM", Imagem: "https://example.com/nova.png"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Rascunho revisado", updated.Title)
	assert.True(t, updated.Published)
	assert.NotNil(t, updated.PublishedAt)
	require.Len(t, updated.Sections, 2)
	assert.Equal(t, "novo conteúdo", updated.Sections[0].Text)

	firstPublish := updated.PublishedAt
	unpublish := false
	updated, err = svc.Update(ctx, article.ID, ArticleInput{Publicado: &unpublish})
	require.NoError(t, err)
	assert.False(t, updated.Published)

	// Re-publishing keeps the original stamp.
	updated, err = svc.Update(ctx, article.ID, ArticleInput{Publicado: &publish})
	require.NoError(t, err)
	assert.Equal(t, firstPublish.Unix(), updated.PublishedAt.Unix())

	_, err = svc.Update(ctx, 9999, ArticleInput{Titulo: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteArticleCascades(t *testing.T) {
	gdb := newTestDB(t)
	articles := newArticleService(gdb)
	comments := NewCommentService(gdb)
	reactions := NewReactionService(gdb)
	author := newUser(t, gdb, models.RoleProfessor)
	article := newArticle(t, gdb, author.ID, true)

	_, err := comments.Create(author.ID, article.ID, validContent, nil)
	require.NoError(t, err)
	_, err = reactions.ReactToArticle(author.ID, article.ID, "CURTIR")
	require.NoError(t, err)

	require.NoError(t, articles.Delete(article.ID))

	for table, model := range map[string]interface{}{
		"comments":  &models.Comment{},
		"reactions": &models.ArticleReaction{},
	} {
		var count int64
		require.NoError(t, gdb.Model(model).Count(&count).Error, table)
		assert.Zero(t, count, fmt.Sprintf("%s not cascaded", table))
	}

	assert.ErrorIs(t, articles.Delete(article.ID), ErrNotFound)
}
