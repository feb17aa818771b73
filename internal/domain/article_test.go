package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/newsroom/internal/domain"
)

func TestArticleState(t *testing.T) {
	tests := []struct {
		name    string
		article domain.Article
		want    domain.ArticleState
	}{
		{name: "fresh draft", article: domain.Article{IsDraft: true}, want: domain.ArticleStateDraft},
		{name: "approved", article: domain.Article{Approved: true}, want: domain.ArticleStateApproved},
		{name: "published", article: domain.Article{Approved: true, Published: true}, want: domain.ArticleStatePublished},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.article.State())
		})
	}
}

func TestArticleOwnership(t *testing.T) {
	journalistID := "j-1"
	publisherID := "p-1"
	article := domain.Article{JournalistID: &journalistID, PublisherID: &publisherID}

	assert.True(t, article.AuthoredBy(&domain.User{ID: "j-1"}))
	assert.False(t, article.AuthoredBy(&domain.User{ID: "j-2"}))
	assert.False(t, article.AuthoredBy(nil))
	assert.True(t, article.BelongsTo("p-1"))
	assert.False(t, article.IsIndependent())

	independent := domain.Article{JournalistID: &journalistID}
	assert.True(t, independent.IsIndependent())
	assert.False(t, independent.BelongsTo("p-1"))

	orphan := domain.Article{}
	assert.False(t, orphan.AuthoredBy(&domain.User{ID: "j-1"}))
}
