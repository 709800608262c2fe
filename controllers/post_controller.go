// controllers/post_controller.go
package controllers

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NKaram/inkwell_backend/config"
	"github.com/NKaram/inkwell_backend/middleware"
	"github.com/NKaram/inkwell_backend/models"
	"github.com/NKaram/inkwell_backend/utils"
)

const defaultPageSize = 10

// PostController contains the post, like and comment logic
type PostController struct {
	DB *mongo.Client
}

// NewPostController creates a new post controller
func NewPostController(db *mongo.Client) *PostController {
	return &PostController{DB: db}
}

type postListParams struct {
	page     int
	limit    int
	category string
	status   string
	author   string
	tags     []string
}

// parseListParams reads the listing query parameters, falling back to
// defaults on missing or malformed values
func parseListParams(c echo.Context) postListParams {
	p := postListParams{
		page:   1,
		limit:  defaultPageSize,
		status: models.StatusPublished,
	}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v >= 1 {
		p.page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v >= 1 && v <= 100 {
		p.limit = v
	}
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		p.status = s
	}

	p.category = strings.TrimSpace(c.QueryParam("category"))
	p.author = strings.TrimSpace(c.QueryParam("author"))
	p.tags = splitTags(c.QueryParam("tags"))

	return p
}

// splitTags turns a comma-joined tag string into a trimmed sequence,
// dropping empty entries
func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// buildPostFilter translates listing parameters into a Mongo filter.
// Category matches as a case-insensitive substring, tags match when the
// post carries ANY of the listed tags, author matches exactly.
func buildPostFilter(p postListParams) (bson.M, error) {
	filter := bson.M{"status": p.status}

	if p.category != "" {
		filter["category"] = bson.M{"$regex": regexp.QuoteMeta(p.category), "$options": "i"}
	}
	if len(p.tags) > 0 {
		filter["tags"] = bson.M{"$in": p.tags}
	}
	if p.author != "" {
		authorID, err := primitive.ObjectIDFromHex(p.author)
		if err != nil {
			return nil, err
		}
		filter["author"] = authorID
	}

	return filter, nil
}

// totalPages is ceil(total/limit); zero matches means zero pages
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// likeToggleUpdate builds the follow-up update after the $pull attempt:
// if nothing was pulled the requester had no like entry, so one is added
func likeToggleUpdate(pulled bool, userID primitive.ObjectID) (bson.M, bool) {
	update := bson.M{"$set": bson.M{"updatedAt": time.Now()}}
	isLiked := !pulled
	if isLiked {
		update["$addToSet"] = bson.M{"likes": models.Like{User: userID}}
	}
	return update, isLiked
}

// findComment looks a comment up by id within a post
func findComment(comments []models.Comment, id primitive.ObjectID) (models.Comment, bool) {
	for _, comment := range comments {
		if comment.ID == id {
			return comment, true
		}
	}
	return models.Comment{}, false
}

// removeComment drops exactly the comment with the given id, preserving
// the relative order of the rest
func removeComment(comments []models.Comment, id primitive.ObjectID) []models.Comment {
	out := make([]models.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.ID != id {
			out = append(out, comment)
		}
	}
	return out
}

// collectUserIDs gathers the distinct user references of a set of posts
func collectUserIDs(posts []models.Post, includeLikes bool) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0, len(posts))
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for _, post := range posts {
		add(post.Author)
		for _, comment := range post.Comments {
			add(comment.User)
		}
		if includeLikes {
			for _, like := range post.Likes {
				add(like.User)
			}
		}
	}
	return ids
}

// resolveUsers fetches display fields for the given user ids in one query
func (pc *PostController) resolveUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	users := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := config.GetCollection(pc.DB, "users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.UserSummary
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	for _, u := range docs {
		users[u.ID] = u
	}
	return users, nil
}

// summaryFor falls back to a bare id when the user record is gone
func summaryFor(users map[primitive.ObjectID]models.UserSummary, id primitive.ObjectID) models.UserSummary {
	if summary, ok := users[id]; ok {
		return summary
	}
	return models.UserSummary{ID: id}
}

// buildPostView shapes a post for the response, resolving its author and
// subdocument users to display fields
func buildPostView(post models.Post, users map[primitive.ObjectID]models.UserSummary, includeLikes bool) models.PostView {
	view := models.PostView{
		ID:            post.ID,
		Title:         post.Title,
		Content:       post.Content,
		Excerpt:       post.Excerpt,
		Category:      post.Category,
		Status:        post.Status,
		Tags:          post.Tags,
		FeaturedImage: post.FeaturedImage,
		Author:        summaryFor(users, post.Author),
		Views:         post.Views,
		LikeCount:     len(post.Likes),
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}

	if view.Tags == nil {
		view.Tags = []string{}
	}

	view.Comments = make([]models.CommentView, 0, len(post.Comments))
	for _, comment := range post.Comments {
		view.Comments = append(view.Comments, models.CommentView{
			ID:        comment.ID,
			User:      summaryFor(users, comment.User),
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		})
	}

	if includeLikes {
		view.Likes = make([]models.LikeView, 0, len(post.Likes))
		for _, like := range post.Likes {
			view.Likes = append(view.Likes, models.LikeView{User: summaryFor(users, like.User)})
		}
	}

	return view
}

// GetPosts lists posts with filtering and pagination
func (pc *PostController) GetPosts(c echo.Context) error {
	params := parseListParams(c)

	filter, err := buildPostFilter(params)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid author ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postsColl := config.GetCollection(pc.DB, "posts")

	total, err := postsColl.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error counting posts",
		})
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((params.page - 1) * params.limit)).
		SetLimit(int64(params.limit))

	cursor, err := postsColl.Find(ctx, filter, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error fetching posts",
		})
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error parsing posts",
		})
	}

	users, err := pc.resolveUsers(ctx, collectUserIDs(posts, false))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error resolving post authors",
		})
	}

	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, buildPostView(post, users, false))
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Posts retrieved successfully",
		Data: models.PostListData{
			Posts: views,
			Pagination: models.Pagination{
				Current: params.page,
				Pages:   totalPages(total, params.limit),
				Total:   total,
			},
		},
	})
}

// GetPost fetches a single post and increments its view counter
func (pc *PostController) GetPost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid post ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// $inc keeps the view increment atomic under concurrent fetches
	var post models.Post
	err = config.GetCollection(pc.DB, "posts").FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Post not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error fetching post",
		})
	}

	users, err := pc.resolveUsers(ctx, collectUserIDs([]models.Post{post}, true))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error resolving post users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Post retrieved successfully",
		Data:    buildPostView(post, users, true),
	})
}

// CreatePost creates a new post owned by the requester
func (pc *PostController) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ValidationResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  utils.ValidationErrors(err),
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	now := time.Now()
	post := models.Post{
		ID:            primitive.NewObjectID(),
		Title:         utils.SanitizeInput(req.Title),
		Content:       req.Content,
		Excerpt:       utils.SanitizeInput(req.Excerpt),
		Category:      utils.SanitizeInput(req.Category),
		Status:        status,
		Tags:          splitTags(req.Tags),
		FeaturedImage: strings.TrimSpace(req.FeaturedImage),
		Author:        userID,
		Views:         0,
		Likes:         []models.Like{},
		Comments:      []models.Comment{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := config.GetCollection(pc.DB, "posts").InsertOne(ctx, post); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to create post",
		})
	}

	users, err := pc.resolveUsers(ctx, []primitive.ObjectID{userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error resolving post author",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Post created successfully",
		Data:    buildPostView(post, users, false),
	})
}

// UpdatePost partially replaces post fields; only the author or an admin
// may update, and the author reference itself is never reassignable
func (pc *PostController) UpdatePost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid post ID",
		})
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ValidationResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  utils.ValidationErrors(err),
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postsColl := config.GetCollection(pc.DB, "posts")

	var post models.Post
	if err := postsColl.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Post not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error fetching post",
		})
	}

	if !middleware.CanModify(userID, middleware.ExtractUserRole(c), post.Author) {
		return c.JSON(http.StatusForbidden, models.Response{
			Success: false,
			Message: "You are not allowed to modify this post",
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		set["title"] = utils.SanitizeInput(*req.Title)
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}
	if req.Excerpt != nil {
		set["excerpt"] = utils.SanitizeInput(*req.Excerpt)
	}
	if req.Category != nil {
		set["category"] = utils.SanitizeInput(*req.Category)
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.FeaturedImage != nil {
		set["featuredImage"] = strings.TrimSpace(*req.FeaturedImage)
	}
	if req.Tags != nil {
		set["tags"] = splitTags(*req.Tags)
	}

	var updated models.Post
	err = postsColl.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to update post",
		})
	}

	users, err := pc.resolveUsers(ctx, collectUserIDs([]models.Post{updated}, false))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error resolving post author",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Post updated successfully",
		Data:    buildPostView(updated, users, false),
	})
}

// DeletePost removes a post together with its embedded comments and likes
func (pc *PostController) DeletePost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid post ID",
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postsColl := config.GetCollection(pc.DB, "posts")

	var post models.Post
	if err := postsColl.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Post not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error fetching post",
		})
	}

	if !middleware.CanModify(userID, middleware.ExtractUserRole(c), post.Author) {
		return c.JSON(http.StatusForbidden, models.Response{
			Success: false,
			Message: "You are not allowed to delete this post",
		})
	}

	// Comments and likes live inside the document, so this removes the
	// whole aggregate with no partial-delete state.
	if _, err := postsColl.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to delete post",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Post deleted successfully",
	})
}

// ToggleLike flips the requester's like on a post
func (pc *PostController) ToggleLike(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid post ID",
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postsColl := config.GetCollection(pc.DB, "posts")

	// $pull and $addToSet operate on the requester's entry alone, so
	// concurrent toggles by different users never clobber each other.
	pullResult, err := postsColl.UpdateOne(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"likes": bson.M{"user": userID}}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to update likes",
		})
	}
	if pullResult.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "Post not found",
		})
	}

	update, isLiked := likeToggleUpdate(pullResult.ModifiedCount > 0, userID)

	var post models.Post
	err = postsColl.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to update likes",
		})
	}

	message := "Post liked"
	if !isLiked {
		message = "Like removed"
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: message,
		Data: models.LikeToggleData{
			Likes:   len(post.Likes),
			IsLiked: isLiked,
		},
	})
}

// AddComment appends a comment to a post's comment sequence
func (pc *PostController) AddComment(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid post ID",
		})
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ValidationResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  utils.ValidationErrors(err),
		})
	}

	user, err := utils.GetUserFromToken(c, pc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Content:   utils.SanitizeInput(req.Content),
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(pc.DB, "posts").UpdateOne(
		ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to add comment",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "Post not found",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Comment added successfully",
		Data: models.CommentView{
			ID:        comment.ID,
			User:      user.Summary(),
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		},
	})
}

// DeleteComment removes one comment; only the comment's author or an
// admin may delete it
func (pc *PostController) DeleteComment(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid post ID",
		})
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid comment ID",
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postsColl := config.GetCollection(pc.DB, "posts")

	var post models.Post
	if err := postsColl.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "Post not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Error fetching post",
		})
	}

	comment, found := findComment(post.Comments, commentID)
	if !found {
		return c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "Comment not found",
		})
	}

	if !middleware.CanModify(userID, middleware.ExtractUserRole(c), comment.User) {
		return c.JSON(http.StatusForbidden, models.Response{
			Success: false,
			Message: "You are not allowed to delete this comment",
		})
	}

	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := postsColl.UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Failed to delete comment",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Comment deleted successfully",
	})
}
