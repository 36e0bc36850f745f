package utils

import (
	"fmt"
	"testing"
	"yatube/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:paginate_%d?mode=memory&cache=shared", testDBSeq)
	testDBSeq++
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return gdb
}

var testDBSeq int

func seedPosts(t *testing.T, gdb *gorm.DB, n int) {
	t.Helper()
	user := models.User{Username: "poster", Email: "poster@example.com", Password: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	for i := 0; i < n; i++ {
		post := models.Post{Text: fmt.Sprintf("post %d", i), UserID: user.ID}
		if err := gdb.Create(&post).Error; err != nil {
			t.Fatalf("Failed to create post: %v", err)
		}
	}
}

func postQuery(gdb *gorm.DB) *gorm.DB {
	return gdb.Model(&models.Post{}).Order("id DESC")
}

func TestPaginateEmptyCollection(t *testing.T) {
	gdb := newTestDB(t)

	var posts []models.Post
	page, err := Paginate(postQuery(gdb), "", 10, &posts)
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("Expected empty slice, got %d items", len(posts))
	}
	if page.TotalPages != 0 {
		t.Errorf("Expected 0 total pages, got %d", page.TotalPages)
	}
	if page.CurrentPage != 1 {
		t.Errorf("Expected page 1, got %d", page.CurrentPage)
	}
}

func TestPaginatePageSizes(t *testing.T) {
	gdb := newTestDB(t)
	seedPosts(t, gdb, 15)

	var posts []models.Post
	page, err := Paginate(postQuery(gdb), "1", 10, &posts)
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	if len(posts) != 10 {
		t.Errorf("Page 1: expected 10 items, got %d", len(posts))
	}
	if page.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", page.TotalPages)
	}
	if page.HasPrev() || !page.HasNext() {
		t.Errorf("Page 1: expected next only, got prev=%v next=%v", page.HasPrev(), page.HasNext())
	}

	page, err = Paginate(postQuery(gdb), "2", 10, &posts)
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	if len(posts) != 5 {
		t.Errorf("Page 2: expected 5 items, got %d", len(posts))
	}
	if !page.HasPrev() || page.HasNext() {
		t.Errorf("Page 2: expected prev only, got prev=%v next=%v", page.HasPrev(), page.HasNext())
	}

	// Past the end clamps to the last page instead of erroring.
	page, err = Paginate(postQuery(gdb), "3", 10, &posts)
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	if page.CurrentPage != 2 {
		t.Errorf("Expected clamp to page 2, got %d", page.CurrentPage)
	}
	if len(posts) != 5 {
		t.Errorf("Clamped page: expected 5 items, got %d", len(posts))
	}
}

func TestPaginateBadPageParam(t *testing.T) {
	gdb := newTestDB(t)
	seedPosts(t, gdb, 3)

	for _, raw := range []string{"", "abc", "-1", "0", "1.5"} {
		var posts []models.Post
		page, err := Paginate(postQuery(gdb), raw, 10, &posts)
		if err != nil {
			t.Fatalf("Paginate(%q) failed: %v", raw, err)
		}
		if page.CurrentPage != 1 {
			t.Errorf("Paginate(%q): expected page 1, got %d", raw, page.CurrentPage)
		}
		if len(posts) != 3 {
			t.Errorf("Paginate(%q): expected 3 items, got %d", raw, len(posts))
		}
	}
}

func TestPaginateConcatenationReproducesOrder(t *testing.T) {
	gdb := newTestDB(t)
	seedPosts(t, gdb, 23)

	var all []models.Post
	if err := postQuery(gdb).Find(&all).Error; err != nil {
		t.Fatalf("Failed to load all posts: %v", err)
	}

	var collected []models.Post
	for p := 1; ; p++ {
		var posts []models.Post
		page, err := Paginate(postQuery(gdb), fmt.Sprint(p), 10, &posts)
		if err != nil {
			t.Fatalf("Paginate failed: %v", err)
		}
		if len(posts) > 10 {
			t.Fatalf("Page %d exceeds page size: %d items", p, len(posts))
		}
		collected = append(collected, posts...)
		if p >= page.TotalPages {
			break
		}
	}

	if len(collected) != len(all) {
		t.Fatalf("Expected %d items across pages, got %d", len(all), len(collected))
	}
	for i := range all {
		if collected[i].ID != all[i].ID {
			t.Errorf("Position %d: expected post %d, got %d", i, all[i].ID, collected[i].ID)
		}
	}
}
