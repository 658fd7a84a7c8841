package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/artvault/internal/db"
	"github.com/artvault/internal/router"
	"github.com/artvault/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler      http.Handler
	public       httpClient
	admin        httpClient
	baseURL      string
	uploadDir    string
	adminPass    string
	user         db.User
	artist       db.Artist
	tags         []db.Tag
	published    *db.Artwork
	animated     *db.Artwork
	series       *db.Series
	seededLink   db.ArtistLink
	aboutContent string
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

// dumpRender 代替真实模板渲染:输出模板名加 JSON 倾印的数据,
// 端到端断言据此检查页面携带的内容。
type dumpRender struct{}

type dumpRenderInstance struct {
	name string
	data interface{}
}

func (dumpRender) Instance(name string, data interface{}) render.Render {
	return dumpRenderInstance{name: name, data: data}
}

func (r dumpRenderInstance) Render(w http.ResponseWriter) error {
	if _, err := fmt.Fprintf(w, "%s\n", r.name); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(r.data)
}

func (r dumpRenderInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func TestE2E_AllInterfaces(t *testing.T) {
	suite := newE2ESuite(t)
	suite.login(t)

	t.Run("public endpoints", suite.testPublicEndpoints)
	t.Run("admin pages", suite.testAdminPages)
	suite.login(t) // 确保后续 API 测试有有效会话
	t.Run("admin apis", suite.testAdminAPIs)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{},
		&db.Artist{},
		&db.ArtistLink{},
		&db.Series{},
		&db.Artwork{},
		&db.Image{},
		&db.Tag{},
		&db.Page{},
		&db.SystemSetting{},
		&db.ArtworkStatistic{},
		&db.ArtworkVisit{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	db.DB = gdb

	hashed, err := bcrypt.GenerateFromPassword([]byte("e2e-secret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := db.User{Username: "admin", Password: string(hashed)}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	artist := db.Artist{Name: "星野綴", Username: "hoshino", Bio: "画夜景的插画师。"}
	if err := db.DB.Create(&artist).Error; err != nil {
		t.Fatalf("failed to seed artist: %v", err)
	}

	seededLink := db.ArtistLink{
		ArtistID: artist.ID,
		Platform: "pixiv",
		Label:    "Pixiv",
		URL:      "https://www.pixiv.net/users/11111",
		Icon:     "pixiv",
		Visible:  true,
	}
	if err := db.DB.Create(&seededLink).Error; err != nil {
		t.Fatalf("failed to seed artist link: %v", err)
	}

	tags := []db.Tag{{Name: "原创"}, {Name: "风景", SortOrder: 1}}
	if err := db.DB.Create(&tags).Error; err != nil {
		t.Fatalf("failed to seed tags: %v", err)
	}

	artworkSvc := service.NewArtworkService(db.DB)
	published, err := artworkSvc.Create(service.ArtworkInput{
		Title:       "夜航",
		Description: "深夜的环状线。",
		ArtistID:    artist.ID,
		SourceURL:   "https://www.pixiv.net/artworks/100000001",
		SourceDate:  ptrTime(time.Now().UTC()),
		TagIDs:      []uint{tags[0].ID},
		Images: []service.ImageInput{
			{FileName: "p0.png", Path: "hoshino/yakou/p0.png", Width: 1600, Height: 900, FileSize: 2048},
			{FileName: "p1.png", Path: "hoshino/yakou/p1.png", Width: 1600, Height: 900, FileSize: 1980, SortOrder: 1},
		},
	})
	if err != nil {
		t.Fatalf("failed to seed published artwork: %v", err)
	}

	animated, err := artworkSvc.Create(service.ArtworkInput{
		Title:      "星屑循环",
		ArtistID:   artist.ID,
		SourceURL:  "https://www.pixiv.net/artworks/100000002",
		SourceDate: ptrTime(time.Now().UTC().Add(-time.Hour)),
		TagIDs:     []uint{tags[1].ID},
		Images: []service.ImageInput{
			{FileName: "loop.apng", Path: "hoshino/hoshikuzu/loop.apng", Width: 480, Height: 480, FileSize: 820},
			{FileName: "loop.mp4", Path: "hoshino/hoshikuzu/loop.mp4", FileSize: 3400, SortOrder: 1},
		},
	})
	if err != nil {
		t.Fatalf("failed to seed animated artwork: %v", err)
	}

	seriesSvc := service.NewSeriesService(db.DB)
	series, err := seriesSvc.Create(service.SeriesInput{
		Title:       "航路图",
		Description: "夜间航线连作。",
		ArtistID:    artist.ID,
	})
	if err != nil {
		t.Fatalf("failed to seed series: %v", err)
	}
	if err := seriesSvc.AssignArtwork(series.ID, published.ID); err != nil {
		t.Fatalf("failed to assign artwork to series: %v", err)
	}

	pageSvc := service.NewPageService(db.DB)
	aboutContent := "## 关于本站\n这是端到端测试的关于页内容。"
	if _, err := pageSvc.SaveAboutPage(aboutContent); err != nil {
		t.Fatalf("failed to seed about page: %v", err)
	}

	uploadDir := t.TempDir()
	engine := router.SetupRouter("test-session-secret", uploadDir, "/static/media", "")
	engine.HTMLRender = dumpRender{}

	return &e2eSuite{
		handler:      engine,
		public:       newLocalClient(engine, false),
		admin:        newLocalClient(engine, true),
		baseURL:      "https://example.test",
		uploadDir:    uploadDir,
		adminPass:    "e2e-secret",
		user:         user,
		artist:       artist,
		tags:         tags,
		published:    published,
		animated:     animated,
		series:       series,
		seededLink:   seededLink,
		aboutContent: aboutContent,
	}
}

func (s *e2eSuite) login(t *testing.T) {
	t.Helper()
	form := url.Values{
		"username": {s.user.Username},
		"password": {s.adminPass},
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/admin/login", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("failed to create login request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.admin.Do(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed, status %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testPublicEndpoints(t *testing.T) {
	t.Helper()

	checkHTML := func(name, path, expect string, code int) {
		t.Helper()
		resp := s.mustRequest(t, s.public, http.MethodGet, path, nil, nil)
		defer resp.Body.Close()
		if resp.StatusCode != code {
			t.Fatalf("%s: expected status %d, got %d", name, code, resp.StatusCode)
		}
		body := readBody(t, resp)
		if expect != "" && !strings.Contains(body, expect) {
			t.Fatalf("%s: response does not contain %q", name, expect)
		}
	}

	checkHTML("home", "/", "夜航", http.StatusOK)
	checkHTML("artwork detail", "/artworks/"+idStr(s.published.ID), "夜航", http.StatusOK)
	// 配对后的动图以视频原件展示
	checkHTML("animated detail", "/artworks/"+idStr(s.animated.ID), "loop.mp4", http.StatusOK)
	checkHTML("artist index", "/artists", "星野綴", http.StatusOK)
	checkHTML("artist profile", "/artists/hoshino", "星野綴", http.StatusOK)
	checkHTML("series detail", "/series/"+idStr(s.series.ID), "航路图", http.StatusOK)
	checkHTML("tags page", "/tags", "原创", http.StatusOK)
	checkHTML("about page", "/about", "关于本站", http.StatusOK)
	checkHTML("load more", "/artworks/more?page=2", "", http.StatusOK)
	checkHTML("missing artwork", "/artworks/99999", "", http.StatusNotFound)

	resp := s.mustRequest(t, s.public, http.MethodGet, "/healthz", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, `"status":"ok"`) {
		t.Fatalf("healthz: unexpected body %q", body)
	}
}

func (s *e2eSuite) testAdminPages(t *testing.T) {
	t.Helper()
	needs200 := []string{
		"/admin/dashboard",
		"/admin/artworks",
		"/admin/artworks/new",
		"/admin/artworks/" + idStr(s.published.ID) + "/edit",
		"/admin/artists",
		"/admin/about",
		"/admin/settings",
	}

	for _, path := range needs200 {
		resp := s.mustRequest(t, s.admin, http.MethodGet, path, nil, nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s expected 200, got %d", path, resp.StatusCode)
		}
	}

	resp := s.mustRequest(t, s.admin, http.MethodGet, "/admin/logout", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("logout expected 302, got %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testAdminAPIs(t *testing.T) {
	t.Helper()

	resp := s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/artworks", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list artworks expected 200, got %d", resp.StatusCode)
	}
	var listPayload map[string]interface{}
	decodeJSON(t, resp, &listPayload)

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/artworks/"+idStr(s.published.ID), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get artwork expected 200, got %d", resp.StatusCode)
	}

	newArtworkPayload := map[string]interface{}{
		"title":       "E2E 新作品",
		"description": "端到端测试创建的作品。",
		"artist_id":   s.artist.ID,
		"tag_ids":     []uint{s.tags[0].ID},
		"source_url":  "https://www.pixiv.net/artworks/100000099",
		"source_date": "2024-06-01",
		"images": []map[string]interface{}{
			{"file_name": "p0.png", "path": "hoshino/e2e/p0.png", "width": 640, "height": 480, "file_size": 1024},
		},
	}
	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/artworks", newArtworkPayload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create artwork expected 200, got %d, body=%s", resp.StatusCode, readBody(t, resp))
	}
	var created struct {
		Artwork struct {
			ID uint `json:"ID"`
		} `json:"artwork"`
	}
	decodeJSON(t, resp, &created)
	if created.Artwork.ID == 0 {
		t.Fatalf("create artwork returned empty id")
	}

	updatePayload := map[string]interface{}{
		"title":       "E2E 新作品",
		"description": "更新后的描述。",
		"artist_id":   s.artist.ID,
		"tag_ids":     []uint{s.tags[0].ID, s.tags[1].ID},
	}
	updatePath := "/admin/api/artworks/" + idStr(created.Artwork.ID)
	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, updatePath, updatePayload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update artwork expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodDelete, updatePath, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete artwork expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/tags", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list tags expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/tags", map[string]interface{}{"name": "e2e-tag"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create tag expected 200, got %d", resp.StatusCode)
	}
	var tagCreated struct {
		Tag db.Tag `json:"tag"`
	}
	decodeJSON(t, resp, &tagCreated)
	tagID := tagCreated.Tag.ID

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/tags/"+idStr(tagID), map[string]interface{}{"name": "e2e-tag-updated"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update tag expected 200, got %d", resp.StatusCode)
	}

	orderPayload := map[string]interface{}{
		"ids": []uint{tagID, s.tags[0].ID, s.tags[1].ID},
	}
	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/tags/order", orderPayload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reorder tags expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/tags/"+idStr(tagID), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete tag expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/artists", map[string]interface{}{
		"name":     "E2E 画师",
		"username": "e2e-artist",
		"bio":      "端到端测试画师。",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create artist expected 201, got %d", resp.StatusCode)
	}
	var artistCreated struct {
		Artist db.Artist `json:"artist"`
	}
	decodeJSON(t, resp, &artistCreated)
	newArtistID := artistCreated.Artist.ID

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/artists/"+idStr(newArtistID), map[string]interface{}{
		"name":     "E2E 画师更新",
		"username": "e2e-artist",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update artist expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/artists/"+idStr(s.artist.ID)+"/links", map[string]interface{}{
		"platform": "x",
		"label":    "X",
		"url":      "https://x.com/hoshino_tsuzuri",
		"icon":     "x",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create artist link expected 201, got %d", resp.StatusCode)
	}
	var linkCreated struct {
		Link struct {
			ID uint `json:"id"`
		} `json:"link"`
	}
	decodeJSON(t, resp, &linkCreated)
	newLinkID := linkCreated.Link.ID

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/links/"+idStr(newLinkID), map[string]interface{}{
		"platform": "x",
		"label":    "X 更新",
		"url":      "https://x.com/hoshino_tsuzuri",
		"icon":     "x",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update artist link expected 200, got %d", resp.StatusCode)
	}

	linkOrder := map[string]interface{}{
		"ids": []uint{newLinkID, s.seededLink.ID},
	}
	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/artists/"+idStr(s.artist.ID)+"/links/order", linkOrder)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reorder artist links expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/links/"+idStr(newLinkID), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete artist link expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/artists/"+idStr(newArtistID), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete artist expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/series", map[string]interface{}{
		"title":       "E2E 系列",
		"description": "端到端测试系列。",
		"artist_id":   s.artist.ID,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create series expected 201, got %d", resp.StatusCode)
	}
	var seriesCreated struct {
		Series db.Series `json:"series"`
	}
	decodeJSON(t, resp, &seriesCreated)
	newSeriesID := seriesCreated.Series.ID

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/series/"+idStr(newSeriesID), map[string]interface{}{
		"title":     "E2E 系列更新",
		"artist_id": s.artist.ID,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update series expected 200, got %d", resp.StatusCode)
	}

	assignPath := "/admin/api/series/" + idStr(newSeriesID) + "/artworks/" + idStr(s.animated.ID)
	resp = s.mustRequest(t, s.admin, http.MethodPut, assignPath, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign series artwork expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/series/artworks/"+idStr(s.animated.ID), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove series artwork expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/series/"+idStr(newSeriesID), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete series expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/pages/about", map[string]interface{}{"content": "更新后的关于页面"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update about expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/settings", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get system settings expected 200, got %d", resp.StatusCode)
	}

	settingsPayload := map[string]interface{}{
		"siteName":        "E2E 站点",
		"siteLogoUrl":     "https://example.com/logo.png",
		"footerText":      "footer public",
		"galleryPageSize": 12,
	}
	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/settings", settingsPayload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update system settings expected 200, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "E2E 站点") {
		t.Fatalf("system settings response missing site name: %s", body)
	}

	resp = s.uploadTestImage(t)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload media expected 200, got %d, body=%s", resp.StatusCode, readBody(t, resp))
	}
	var uploadResp struct {
		Success int `json:"success"`
		Data    struct {
			URL  string `json:"url"`
			Kind string `json:"kind"`
		} `json:"data"`
	}
	decodeJSON(t, resp, &uploadResp)
	if uploadResp.Success != 1 || uploadResp.Data.URL == "" {
		t.Fatalf("unexpected upload response: %+v", uploadResp)
	}
	if uploadResp.Data.Kind != "image" {
		t.Fatalf("expected uploaded kind image, got %q", uploadResp.Data.Kind)
	}
}

func (s *e2eSuite) uploadTestImage(t *testing.T) *http.Response {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, "file", "test.png"))
	partHeader.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(buf.Bytes()); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	headers := map[string]string{
		"Content-Type": writer.FormDataContentType(),
	}
	return s.mustRequest(t, s.admin, http.MethodPost, "/admin/api/upload", body, headers)
}

func (s *e2eSuite) mustRequest(t *testing.T, client httpClient, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (s *e2eSuite) mustRequestJSON(t *testing.T, client httpClient, method, path string, payload map[string]interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	return s.mustRequest(t, client, method, path, bytes.NewReader(data), headers)
}

func decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	body := readBody(t, resp)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(data)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

func idStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
