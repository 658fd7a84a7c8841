package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/artvault/internal/db"
	"github.com/artvault/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) (*API, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{}, &db.Artist{}, &db.ArtistLink{}, &db.Series{},
		&db.Artwork{}, &db.Image{}, &db.Tag{}, &db.Page{},
		&db.SystemSetting{}, &db.ArtworkStatistic{}, &db.ArtworkVisit{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	if err := gdb.Create(&db.User{Username: "tester", Password: "hashed"}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	db.DB = gdb

	return NewAPI(db.DB, "web/static/media", "/static/media"), func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func seedArtist(t *testing.T, name, username string) db.Artist {
	t.Helper()

	artist := db.Artist{Name: name, Username: username}
	if err := db.DB.Create(&artist).Error; err != nil {
		t.Fatalf("failed to seed artist: %v", err)
	}
	return artist
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateArtworkWithMedia(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	artist := seedArtist(t, "星野綴", "hoshino")
	tag := db.Tag{Name: "原创"}
	if err := db.DB.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}

	payload := map[string]any{
		"title":       "夜航",
		"artist_id":   artist.ID,
		"tag_ids":     []uint{tag.ID},
		"source_url":  "https://www.pixiv.net/artworks/123456",
		"source_date": "2024-06-01",
		"images": []map[string]any{
			{"file_name": "p0.png", "path": "hoshino/yakou/p0.png", "width": 1200, "height": 1600, "file_size": 2048, "sort_order": 0},
			{"file_name": "clip.apng", "path": "hoshino/yakou/clip.apng", "width": 800, "height": 800, "file_size": 512, "sort_order": 1},
			{"file_name": "clip.mp4", "path": "hoshino/yakou/clip.mp4", "file_size": 4096, "sort_order": 2},
		},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/admin/api/artworks", payload)

	api.CreateArtwork(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var created db.Artwork
	if err := db.DB.Preload("Tags").Preload("Images").First(&created).Error; err != nil {
		t.Fatalf("failed to load created artwork: %v", err)
	}

	if created.Title != "夜航" {
		t.Fatalf("unexpected title: %s", created.Title)
	}
	if created.SourceSite != "pixiv" || created.SourcePostID != "123456" {
		t.Fatalf("expected source classification, got site=%q post=%q", created.SourceSite, created.SourcePostID)
	}
	if len(created.Tags) != 1 || created.Tags[0].ID != tag.ID {
		t.Fatalf("expected associated tag with ID %d", tag.ID)
	}
	if len(created.Images) != 3 {
		t.Fatalf("expected 3 image records, got %d", len(created.Images))
	}
	// 落库统计逐文件计数,APNG 记为图片
	if created.ImageCount != 2 || created.VideoCount != 1 {
		t.Fatalf("unexpected stored counts: images=%d videos=%d", created.ImageCount, created.VideoCount)
	}
	if created.TotalBytes != 2048+512+4096 {
		t.Fatalf("unexpected total bytes: %d", created.TotalBytes)
	}
}

func TestCreateArtworkRejectsUnknownTags(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	artist := seedArtist(t, "星野綴", "hoshino")

	payload := map[string]any{
		"title":     "夜航",
		"artist_id": artist.ID,
		"tag_ids":   []uint{99},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/admin/api/artworks", payload)

	api.CreateArtwork(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestCreateArtworkRejectsMissingArtist(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	payload := map[string]any{
		"title":     "夜航",
		"artist_id": 404,
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/admin/api/artworks", payload)

	api.CreateArtwork(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestCreateArtworkRejectsBadSourceDate(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	artist := seedArtist(t, "星野綴", "hoshino")

	payload := map[string]any{
		"title":       "夜航",
		"artist_id":   artist.ID,
		"source_date": "June 1st",
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/admin/api/artworks", payload)

	api.CreateArtwork(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGetArtworkMergesSiblingMedia(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	artist := seedArtist(t, "星野綴", "hoshino")

	created, err := api.artworks.Create(service.ArtworkInput{
		Title:    "循环动画",
		ArtistID: artist.ID,
		Images: []service.ImageInput{
			{FileName: "loop.apng", Path: "hoshino/loop/loop.apng", FileSize: 512, SortOrder: 0},
			{FileName: "loop.mp4", Path: "hoshino/loop/loop.mp4", FileSize: 4096, SortOrder: 1},
		},
	})
	if err != nil {
		t.Fatalf("failed to create artwork: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/artworks/"+strconv.Itoa(int(created.ID)), nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(created.ID))}}

	api.GetArtwork(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Artwork struct {
			Media []struct {
				FileName string `json:"file_name"`
				Kind     string `json:"kind"`
				URL      string `json:"url"`
				Raw      *struct {
					FileName string `json:"file_name"`
					URL      string `json:"url"`
				} `json:"raw"`
			} `json:"media"`
			ImageCount int `json:"image_count"`
			VideoCount int `json:"video_count"`
		} `json:"artwork"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Artwork.Media) != 1 {
		t.Fatalf("expected merged media to have 1 visible item, got %d", len(resp.Artwork.Media))
	}
	item := resp.Artwork.Media[0]
	if item.Kind != "video" || item.FileName != "loop.mp4" {
		t.Fatalf("expected visible video item, got %+v", item)
	}
	if item.Raw == nil || item.Raw.FileName != "loop.apng" {
		t.Fatalf("expected raw preview to reference loop.apng, got %+v", item.Raw)
	}
	if item.URL != "/static/media/hoshino/loop/loop.mp4" {
		t.Fatalf("unexpected media url: %s", item.URL)
	}
	if resp.Artwork.ImageCount != 0 || resp.Artwork.VideoCount != 1 {
		t.Fatalf("expected display counts 0/1, got %d/%d", resp.Artwork.ImageCount, resp.Artwork.VideoCount)
	}
}

func TestGetArtworkNotFound(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/artworks/999", nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "999"}}

	api.GetArtwork(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestListArtworksPaginates(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	artist := seedArtist(t, "星野綴", "hoshino")
	for i := 1; i <= 3; i++ {
		date := time.Date(2024, time.March, i, 0, 0, 0, 0, time.UTC)
		if _, err := api.artworks.Create(service.ArtworkInput{
			Title:      "作品 " + strconv.Itoa(i),
			ArtistID:   artist.ID,
			SourceDate: &date,
		}); err != nil {
			t.Fatalf("failed to seed artwork %d: %v", i, err)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/artworks?per_page=2&page=2", nil)

	api.ListArtworks(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Items      []json.RawMessage `json:"items"`
		Total      int64             `json:"total"`
		TotalPages int               `json:"total_pages"`
		Page       int               `json:"page"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item on page 2, got %d", len(resp.Items))
	}
	if resp.Total != 3 || resp.TotalPages != 2 || resp.Page != 2 {
		t.Fatalf("unexpected pagination: total=%d pages=%d page=%d", resp.Total, resp.TotalPages, resp.Page)
	}
}

func TestListArtworksUnknownSortFallsBack(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	artist := seedArtist(t, "星野綴", "hoshino")
	older := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	if _, err := api.artworks.Create(service.ArtworkInput{Title: "旧作", ArtistID: artist.ID, SourceDate: &older}); err != nil {
		t.Fatalf("failed to seed artwork: %v", err)
	}
	if _, err := api.artworks.Create(service.ArtworkInput{Title: "新作", ArtistID: artist.ID, SourceDate: &newer}); err != nil {
		t.Fatalf("failed to seed artwork: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/artworks?sort=definitely-not-a-key", nil)

	api.ListArtworks(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for unknown sort, got %d", w.Code)
	}

	var resp struct {
		Items []struct {
			Title string `json:"title"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].Title != "新作" {
		t.Fatalf("expected fallback ordering by source date desc, got %+v", resp.Items)
	}
}

func TestDeleteArtworkRemovesImages(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	artist := seedArtist(t, "星野綴", "hoshino")
	created, err := api.artworks.Create(service.ArtworkInput{
		Title:    "待删除",
		ArtistID: artist.ID,
		Images: []service.ImageInput{
			{FileName: "p0.png", Path: "hoshino/del/p0.png", FileSize: 100},
		},
	})
	if err != nil {
		t.Fatalf("failed to create artwork: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/admin/api/artworks/"+strconv.Itoa(int(created.ID)), nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(created.ID))}}

	api.DeleteArtwork(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var imageCount int64
	db.DB.Model(&db.Image{}).Where("artwork_id = ?", created.ID).Count(&imageCount)
	if imageCount != 0 {
		t.Fatalf("expected image records removed, found %d", imageCount)
	}

	var liveCount int64
	db.DB.Model(&db.Artwork{}).Where("id = ?", created.ID).Count(&liveCount)
	if liveCount != 0 {
		t.Fatalf("expected artwork soft deleted, still visible")
	}
}
