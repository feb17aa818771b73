package repository

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool { return &v }

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

func TestBuildArticleListQuery(t *testing.T) {
	const subscribed = "(publisher_id IN (SELECT publisher_id FROM publisher_subscriptions WHERE reader_id=%s)" +
		" OR journalist_id IN (SELECT journalist_id FROM journalist_subscriptions WHERE reader_id=%s))"

	tests := []struct {
		name      string
		filter    ArticleFilter
		wantWhere string
		wantArgs  []any
		wantPage  string
	}{
		{
			name:      "no filter",
			filter:    ArticleFilter{},
			wantWhere: "WHERE 1=1 ORDER BY",
			wantArgs:  []any{},
			wantPage:  "LIMIT 20 OFFSET 0",
		},
		{
			name:      "all published",
			filter:    ArticleFilter{Approved: boolPtr(true), Published: boolPtr(true)},
			wantWhere: "WHERE 1=1 AND approved=$1 AND published=$2 ORDER BY",
			wantArgs:  []any{true, true},
			wantPage:  "LIMIT 20 OFFSET 0",
		},
		{
			name:      "own drafts",
			filter:    ArticleFilter{JournalistID: strPtr("j-1"), Published: boolPtr(false), Limit: 5, Offset: 10},
			wantWhere: "WHERE 1=1 AND journalist_id=$1 AND published=$2 ORDER BY",
			wantArgs:  []any{"j-1", false},
			wantPage:  "LIMIT 5 OFFSET 10",
		},
		{
			name:      "pending queue",
			filter:    ArticleFilter{Approved: boolPtr(false)},
			wantWhere: "WHERE 1=1 AND approved=$1 ORDER BY",
			wantArgs:  []any{false},
			wantPage:  "LIMIT 20 OFFSET 0",
		},
		{
			name:      "by publisher",
			filter:    ArticleFilter{PublisherID: strPtr("p-1"), Approved: boolPtr(true), Published: boolPtr(true), Limit: 500},
			wantWhere: "WHERE 1=1 AND publisher_id=$1 AND approved=$2 AND published=$3 ORDER BY",
			wantArgs:  []any{"p-1", true, true},
			wantPage:  "LIMIT 100 OFFSET 0",
		},
		{
			name:      "subscribed feed",
			filter:    ArticleFilter{SubscriberID: strPtr("r-1"), Approved: boolPtr(true), Published: boolPtr(true)},
			wantWhere: "WHERE 1=1 AND approved=$1 AND published=$2 AND " + strings.ReplaceAll(subscribed, "%s", "$3") + " ORDER BY",
			wantArgs:  []any{true, true, "r-1"},
			wantPage:  "LIMIT 20 OFFSET 0",
		},
		{
			name: "every field",
			filter: ArticleFilter{
				JournalistID: strPtr("j-1"),
				PublisherID:  strPtr("p-1"),
				Approved:     boolPtr(true),
				Published:    boolPtr(false),
				SubscriberID: strPtr("r-1"),
				Offset:       -3,
			},
			wantWhere: "WHERE 1=1 AND journalist_id=$1 AND publisher_id=$2 AND approved=$3 AND published=$4 AND " +
				strings.ReplaceAll(subscribed, "%s", "$5") + " ORDER BY",
			wantArgs: []any{"j-1", "p-1", true, false, "r-1"},
			wantPage: "LIMIT 20 OFFSET 0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args := buildArticleListQuery(tc.filter)

			assert.True(t, strings.HasPrefix(query, "SELECT "+articleColumns+" FROM articles "), query)
			assert.Contains(t, query, tc.wantWhere)
			assert.True(t, strings.HasSuffix(query, "ORDER BY created_at DESC "+tc.wantPage), query)
			assert.Equal(t, tc.wantArgs, args)

			for _, match := range placeholderPattern.FindAllStringSubmatch(query, -1) {
				n, err := strconv.Atoi(match[1])
				assert.NoError(t, err)
				assert.GreaterOrEqual(t, n, 1)
				assert.LessOrEqual(t, n, len(args), "placeholder %s has no argument", match[0])
			}
		})
	}
}
