package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NKaram/inkwell_backend/models"
)

func newListContext(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/posts?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestParseListParamsDefaults(t *testing.T) {
	p := parseListParams(newListContext(t, ""))

	assert.Equal(t, 1, p.page)
	assert.Equal(t, defaultPageSize, p.limit)
	assert.Equal(t, models.StatusPublished, p.status)
	assert.Empty(t, p.category)
	assert.Empty(t, p.author)
	assert.Empty(t, p.tags)
}

func TestParseListParams(t *testing.T) {
	p := parseListParams(newListContext(t, "page=3&limit=25&category=go&status=draft&tags=go,web"))

	assert.Equal(t, 3, p.page)
	assert.Equal(t, 25, p.limit)
	assert.Equal(t, "go", p.category)
	assert.Equal(t, models.StatusDraft, p.status)
	assert.Equal(t, []string{"go", "web"}, p.tags)
}

func TestParseListParamsRejectsBadValues(t *testing.T) {
	p := parseListParams(newListContext(t, "page=0&limit=1000"))

	assert.Equal(t, 1, p.page)
	assert.Equal(t, defaultPageSize, p.limit)

	p = parseListParams(newListContext(t, "page=abc&limit=-5"))

	assert.Equal(t, 1, p.page)
	assert.Equal(t, defaultPageSize, p.limit)
}

func TestSplitTags(t *testing.T) {
	assert.Empty(t, splitTags(""))
	assert.Equal(t, []string{"go"}, splitTags("go"))
	assert.Equal(t, []string{"go", "web", "mongo"}, splitTags("go, web ,mongo"))
	assert.Equal(t, []string{"go"}, splitTags(",go,,"))
}

func TestBuildPostFilter(t *testing.T) {
	filter, err := buildPostFilter(postListParams{status: models.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"status": models.StatusPublished}, filter)

	author := primitive.NewObjectID()
	filter, err = buildPostFilter(postListParams{
		status:   models.StatusPublished,
		category: "tech",
		tags:     []string{"go", "web"},
		author:   author.Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, author, filter["author"])
	assert.Equal(t, bson.M{"$in": []string{"go", "web"}}, filter["tags"])
	assert.Equal(t, bson.M{"$regex": "tech", "$options": "i"}, filter["category"])
}

func TestBuildPostFilterEscapesCategory(t *testing.T) {
	filter, err := buildPostFilter(postListParams{status: models.StatusPublished, category: "c++"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$regex": `c\+\+`, "$options": "i"}, filter["category"])
}

func TestBuildPostFilterInvalidAuthor(t *testing.T) {
	_, err := buildPostFilter(postListParams{status: models.StatusPublished, author: "not-an-id"})
	assert.Error(t, err)
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 0, totalPages(0, 10))
	assert.EqualValues(t, 1, totalPages(1, 10))
	assert.EqualValues(t, 1, totalPages(10, 10))
	assert.EqualValues(t, 2, totalPages(11, 10))
	assert.EqualValues(t, 3, totalPages(12, 5))
	assert.EqualValues(t, 0, totalPages(10, 0))
}

func TestLikeToggleUpdate(t *testing.T) {
	alice := primitive.NewObjectID()

	// An entry was pulled: the requester had liked, toggle means unlike
	update, isLiked := likeToggleUpdate(true, alice)
	assert.False(t, isLiked)
	assert.NotContains(t, update, "$addToSet")
	assert.Contains(t, update, "$set")

	// Nothing pulled: no existing entry, toggle means like
	update, isLiked = likeToggleUpdate(false, alice)
	assert.True(t, isLiked)
	require.Contains(t, update, "$addToSet")
	assert.Equal(t, bson.M{"likes": models.Like{User: alice}}, update["$addToSet"])
}

func TestFindComment(t *testing.T) {
	target := models.Comment{ID: primitive.NewObjectID(), Content: "hello"}
	comments := []models.Comment{
		{ID: primitive.NewObjectID()},
		target,
	}

	got, found := findComment(comments, target.ID)
	assert.True(t, found)
	assert.Equal(t, target, got)

	_, found = findComment(comments, primitive.NewObjectID())
	assert.False(t, found)
}

func TestRemoveCommentPreservesOrder(t *testing.T) {
	a := models.Comment{ID: primitive.NewObjectID(), Content: "a"}
	b := models.Comment{ID: primitive.NewObjectID(), Content: "b"}
	c := models.Comment{ID: primitive.NewObjectID(), Content: "c"}

	out := removeComment([]models.Comment{a, b, c}, b.ID)
	assert.Equal(t, []models.Comment{a, c}, out)

	out = removeComment([]models.Comment{a, b, c}, primitive.NewObjectID())
	assert.Equal(t, []models.Comment{a, b, c}, out)
}

func TestCollectUserIDs(t *testing.T) {
	author := primitive.NewObjectID()
	commenter := primitive.NewObjectID()
	liker := primitive.NewObjectID()

	posts := []models.Post{{
		Author:   author,
		Comments: []models.Comment{{User: commenter}, {User: author}},
		Likes:    []models.Like{{User: liker}},
	}}

	ids := collectUserIDs(posts, false)
	assert.ElementsMatch(t, []primitive.ObjectID{author, commenter}, ids)

	ids = collectUserIDs(posts, true)
	assert.ElementsMatch(t, []primitive.ObjectID{author, commenter, liker}, ids)
}

func TestSummaryForMissingUser(t *testing.T) {
	id := primitive.NewObjectID()
	summary := summaryFor(map[primitive.ObjectID]models.UserSummary{}, id)
	assert.Equal(t, models.UserSummary{ID: id}, summary)
}

func TestBuildPostView(t *testing.T) {
	author := primitive.NewObjectID()
	commenter := primitive.NewObjectID()
	liker := primitive.NewObjectID()

	post := models.Post{
		ID:       primitive.NewObjectID(),
		Title:    "First post",
		Author:   author,
		Status:   models.StatusPublished,
		Likes:    []models.Like{{User: liker}},
		Comments: []models.Comment{{ID: primitive.NewObjectID(), User: commenter, Content: "nice"}},
	}
	users := map[primitive.ObjectID]models.UserSummary{
		author: {ID: author, Username: "alice"},
	}

	view := buildPostView(post, users, false)
	assert.Equal(t, "alice", view.Author.Username)
	assert.Equal(t, 1, view.LikeCount)
	assert.Nil(t, view.Likes)
	assert.NotNil(t, view.Tags)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, commenter, view.Comments[0].User.ID)

	view = buildPostView(post, users, true)
	require.Len(t, view.Likes, 1)
	assert.Equal(t, liker, view.Likes[0].User.ID)
}
