package post

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/ledger"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/storage"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/subscription"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
)

var validExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".webp": true, ".heic": true,
	".mp4": true, ".mov": true, ".avi": true,
}

// CreatePost POST /api/posts (multipart)
func CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	isPaid := c.PostForm("is_paid") == "true"
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)

	var author user.User
	if err := database.DB.First(&author, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Only creators publish gated content
	if !author.IsCreator {
		isPaid = false
		price = 0
	}
	if isPaid && price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}

	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	file, header, err := c.Request.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No media provided", "details": err.Error()})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !validExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file extension"})
		return
	}

	postID := uuid.New().String()
	filename := fmt.Sprintf("post_%s%s", postID, ext)
	contentType := header.Header.Get("Content-Type")

	url, err := storage.UploadToS3(file, filename, contentType, "posts")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "details": err.Error()})
		return
	}

	newPost := Post{
		ID:          postID,
		CreatedAt:   time.Now(),
		UserID:      userID,
		Title:       title,
		Description: description,
		MediaURL:    url,
		IsPaid:      isPaid,
		Price:       price,
	}
	if err := database.DB.Create(&newPost).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Post creation failed"})
		logs.LogJSON("ERROR", "Post creation failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  c.FullPath(),
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": newPost})
	logs.LogJSON("INFO", "Post created", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": userID,
		"extra":  postID,
	})
}

// canViewMedia decides whether a paid post's media is visible to the
// viewer: the owner, an active subscriber, or a buyer of that post.
func canViewMedia(p Post, viewerID string) (bool, error) {
	if !p.IsPaid || p.UserID == viewerID {
		return true, nil
	}
	if viewerID == "" {
		return false, nil
	}

	isSubscriber, _, err := subscription.IsSubscriberAndPrice(viewerID, p.UserID)
	if err != nil {
		return false, err
	}
	if isSubscriber {
		return true, nil
	}

	return ledger.HasCompletedPurchase(database.DB, viewerID, p.ID)
}

func postView(p Post, unlocked bool) gin.H {
	view := gin.H{
		"id":          p.ID,
		"created_at":  p.CreatedAt,
		"user_id":     p.UserID,
		"title":       p.Title,
		"description": p.Description,
		"is_paid":     p.IsPaid,
		"unlocked":    unlocked,
	}
	if p.IsPaid {
		view["price"] = p.Price
	}
	if unlocked {
		view["media_url"] = p.MediaURL
	}
	return view
}

// GetPost GET /api/posts/:id
func GetPost(c *gin.Context) {
	viewerID := c.GetString("user_id")
	id := c.Param("id")

	var p Post
	if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	unlocked, err := canViewMedia(p, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Access check failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": postView(p, unlocked)})
}

// ListCreatorPosts GET /api/creators/:creator_id/posts
func ListCreatorPosts(c *gin.Context) {
	viewerID := c.GetString("user_id")
	creatorID := c.Param("creator_id")

	var posts []Post
	if err := database.DB.
		Where("user_id = ?", creatorID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list posts"})
		return
	}

	// One subscription check covers the whole listing
	isSubscriber := viewerID == creatorID
	if !isSubscriber && viewerID != "" {
		var err error
		isSubscriber, _, err = subscription.IsSubscriberAndPrice(viewerID, creatorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Access check failed"})
			return
		}
	}

	views := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		unlocked := !p.IsPaid || isSubscriber
		if !unlocked && viewerID != "" {
			bought, err := ledger.HasCompletedPurchase(database.DB, viewerID, p.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Access check failed"})
				return
			}
			unlocked = bought
		}
		views = append(views, postView(p, unlocked))
	}

	c.JSON(http.StatusOK, gin.H{"posts": views})
}

// DeletePost DELETE /api/posts/:id — owner only; admin takedown lives in
// the admin package.
func DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	var p Post
	if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if p.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete another user's post"})
		return
	}

	if err := database.DB.Delete(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Post deletion failed"})
		return
	}

	// Orphaned media is a storage leak, not a request failure
	if key := mediaKey(p.MediaURL); key != "" {
		if err := storage.DeleteFromS3(key); err != nil {
			logs.LogJSON("WARN", "Media cleanup failed", map[string]interface{}{
				"error":  err.Error(),
				"postID": p.ID,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func mediaKey(mediaURL string) string {
	const marker = ".amazonaws.com/"
	idx := strings.Index(mediaURL, marker)
	if idx < 0 {
		return ""
	}
	return mediaURL[idx+len(marker):]
}
