package services

import (
	"errors"
	"fmt"
	"testing"
	"time"
	"yatube/internal/db"
	"yatube/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int

func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:follow_%d?mode=memory&cache=shared", testDBSeq)
	testDBSeq++
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	db.DB = gdb
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

func edgeCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	db.DB.Model(&models.Follow{}).Count(&count)
	return count
}

func TestFollowIdempotent(t *testing.T) {
	setupTestDB(t)
	s := NewFollowService()
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	if err := s.Follow(alice, bob); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if err := s.Follow(alice, bob); err != nil {
		t.Fatalf("Second follow failed: %v", err)
	}

	if got := edgeCount(t); got != 1 {
		t.Errorf("Expected exactly 1 edge, got %d", got)
	}
	if !s.IsFollowing(alice, bob) {
		t.Error("Expected alice to follow bob")
	}
	if s.IsFollowing(bob, alice) {
		t.Error("Follow edges are directed; bob should not follow alice")
	}
}

func TestSelfFollowIgnored(t *testing.T) {
	setupTestDB(t)
	s := NewFollowService()
	alice := createUser(t, "alice")

	if err := s.Follow(alice, alice); err != nil {
		t.Fatalf("Self-follow should be a no-op, got error: %v", err)
	}
	if got := edgeCount(t); got != 0 {
		t.Errorf("Expected no edges after self-follow, got %d", got)
	}
}

func TestUnfollowRestoresCount(t *testing.T) {
	setupTestDB(t)
	s := NewFollowService()
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	before := edgeCount(t)
	if err := s.Follow(alice, bob); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if err := s.Unfollow(alice, bob); err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	if got := edgeCount(t); got != before {
		t.Errorf("Expected edge count back to %d, got %d", before, got)
	}
}

func TestUnfollowMissingEdge(t *testing.T) {
	setupTestDB(t)
	s := NewFollowService()
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	err := s.Unfollow(alice, bob)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestFeedQueryVisibility(t *testing.T) {
	setupTestDB(t)
	s := NewFollowService()
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")

	if err := s.Follow(alice, bob); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	post := models.Post{Text: "from bob", UserID: bob.ID}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}

	var aliceFeed []models.Post
	if err := s.FeedQuery(alice).Find(&aliceFeed).Error; err != nil {
		t.Fatalf("FeedQuery failed: %v", err)
	}
	if len(aliceFeed) != 1 || aliceFeed[0].ID != post.ID {
		t.Errorf("Expected bob's post in alice's feed, got %v", aliceFeed)
	}

	var carolFeed []models.Post
	if err := s.FeedQuery(carol).Find(&carolFeed).Error; err != nil {
		t.Fatalf("FeedQuery failed: %v", err)
	}
	if len(carolFeed) != 0 {
		t.Errorf("Carol follows nobody; expected empty feed, got %d posts", len(carolFeed))
	}
}

func TestFeedQueryNewestFirst(t *testing.T) {
	setupTestDB(t)
	s := NewFollowService()
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	if err := s.Follow(alice, bob); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	var ids []uint
	for i := 0; i < 3; i++ {
		post := models.Post{
			Text:    fmt.Sprintf("post %d", i),
			UserID:  bob.ID,
			PubDate: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.DB.Create(&post).Error; err != nil {
			t.Fatalf("Failed to create post: %v", err)
		}
		ids = append(ids, post.ID)
	}

	var feed []models.Post
	if err := s.FeedQuery(alice).Find(&feed).Error; err != nil {
		t.Fatalf("FeedQuery failed: %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(feed))
	}
	for i, post := range feed {
		want := ids[len(ids)-1-i]
		if post.ID != want {
			t.Errorf("Position %d: expected post %d, got %d", i, want, post.ID)
		}
	}
}
