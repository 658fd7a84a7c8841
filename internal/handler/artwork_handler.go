package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artvault/internal/service"
	"github.com/gin-gonic/gin"
)

type artworkImagePayload struct {
	FileName  string `json:"file_name"`
	Path      string `json:"path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FileSize  int64  `json:"file_size"`
	SortOrder int    `json:"sort_order"`
}

type artworkPayload struct {
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	ArtistID     uint                  `json:"artist_id"`
	SeriesID     *uint                 `json:"series_id"`
	SourceSite   string                `json:"source_site"`
	SourceURL    string                `json:"source_url"`
	SourcePostID string                `json:"source_post_id"`
	SourceDate   string                `json:"source_date"`
	TagIDs       []uint                `json:"tag_ids"`
	Images       []artworkImagePayload `json:"images"`
}

// toInput 将请求体转换为服务层输入。Images 字段缺省时保留现有媒体,
// 传空数组则清空。
func (p artworkPayload) toInput() (service.ArtworkInput, error) {
	input := service.ArtworkInput{
		Title:        p.Title,
		Description:  p.Description,
		ArtistID:     p.ArtistID,
		SeriesID:     p.SeriesID,
		SourceSite:   p.SourceSite,
		SourceURL:    p.SourceURL,
		SourcePostID: p.SourcePostID,
		TagIDs:       p.TagIDs,
	}

	if raw := strings.TrimSpace(p.SourceDate); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return service.ArtworkInput{}, err
		}
		input.SourceDate = &parsed
	}

	if p.Images != nil {
		images := make([]service.ImageInput, 0, len(p.Images))
		for _, img := range p.Images {
			images = append(images, service.ImageInput{
				FileName:  img.FileName,
				Path:      img.Path,
				Width:     img.Width,
				Height:    img.Height,
				FileSize:  img.FileSize,
				SortOrder: img.SortOrder,
			})
		}
		input.Images = images
	}

	return input, nil
}

func parseArtworkFilter(c *gin.Context, fallbackPerPage int) service.ArtworkFilter {
	return service.ArtworkFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		ArtistID:  parseUintQuery(c, "artist"),
		SeriesID:  parseUintQuery(c, "series"),
		TagNames:  parseQueryStrings(c.QueryArray("tags")),
		MediaType: strings.TrimSpace(c.Query("media")),
		SortBy:    strings.TrimSpace(c.Query("sort")),
		Page:      parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:   parsePositiveInt(c.DefaultQuery("per_page", "0"), fallbackPerPage),
	}
}

// buildArtworkQueryParams 把当前筛选拼成翻页链接尾串。
func buildArtworkQueryParams(filter service.ArtworkFilter) string {
	values := url.Values{}
	if filter.Search != "" {
		values.Set("search", filter.Search)
	}
	if filter.ArtistID != 0 {
		values.Set("artist", uintString(filter.ArtistID))
	}
	if filter.SeriesID != 0 {
		values.Set("series", uintString(filter.SeriesID))
	}
	for _, tag := range filter.TagNames {
		values.Add("tags", tag)
	}
	if filter.MediaType != "" {
		values.Set("media", filter.MediaType)
	}
	if filter.SortBy != "" {
		values.Set("sort", filter.SortBy)
	}
	encoded := values.Encode()
	if encoded == "" {
		return ""
	}
	return "&" + encoded
}

// ListArtworks 返回作品列表 JSON,支持搜索、画师、系列、标签、媒体类型
// 过滤以及排序分页。
func (a *API) ListArtworks(c *gin.Context) {
	view := a.siteSettings(c)
	filter := parseArtworkFilter(c, view.PageSize)

	result, err := a.artworks.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取作品列表失败")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetArtwork 返回单个作品的详情 JSON。
func (a *API) GetArtwork(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	detail, err := a.artworks.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrArtworkNotFound):
			respondError(c, http.StatusNotFound, "作品不存在")
		default:
			respondError(c, http.StatusInternalServerError, "获取作品失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"artwork": detail})
}

// CreateArtwork 创建作品并关联标签与媒体文件。
func (a *API) CreateArtwork(c *gin.Context) {
	var payload artworkPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	input, err := payload.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "来源日期格式应为 YYYY-MM-DD")
		return
	}

	artwork, err := a.artworks.Create(input)
	if err != nil {
		handleArtworkWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "作品已创建", "artwork": artwork})
}

// UpdateArtwork 更新作品。
func (a *API) UpdateArtwork(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	var payload artworkPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	input, err := payload.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "来源日期格式应为 YYYY-MM-DD")
		return
	}

	artwork, err := a.artworks.Update(id, input)
	if err != nil {
		handleArtworkWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "作品已更新", "artwork": artwork})
}

// DeleteArtwork 删除作品及其媒体记录。
func (a *API) DeleteArtwork(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	if err := a.artworks.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrArtworkNotFound):
			respondError(c, http.StatusNotFound, "作品不存在")
		default:
			respondError(c, http.StatusInternalServerError, "删除作品失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "作品已删除"})
}

func handleArtworkWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArtworkNotFound):
		respondError(c, http.StatusNotFound, "作品不存在")
	case errors.Is(err, service.ErrArtworkTitleRequired):
		respondError(c, http.StatusBadRequest, "请填写作品标题")
	case errors.Is(err, service.ErrArtistNotFound):
		respondError(c, http.StatusBadRequest, "画师不存在")
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusBadRequest, "包含不存在的标签")
	default:
		respondError(c, http.StatusInternalServerError, "保存作品失败")
	}
}

// ShowArtworkManagement 渲染后台作品管理列表。
func (a *API) ShowArtworkManagement(c *gin.Context) {
	filter := parseArtworkFilter(c, 20)

	result, err := a.artworks.List(filter)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "artwork_list.html", gin.H{
			"title": "作品管理",
			"error": "获取作品列表失败",
		})
		return
	}

	artists, err := a.artists.List()
	if err != nil {
		artists = nil
	}
	tags, err := a.tags.List()
	if err != nil {
		tags = nil
	}

	a.renderHTML(c, http.StatusOK, "artwork_list.html", gin.H{
		"title":       "作品管理",
		"items":       result.Items,
		"total":       result.Total,
		"page":        result.Page,
		"totalPages":  result.TotalPages,
		"search":      filter.Search,
		"artistId":    filter.ArtistID,
		"seriesId":    filter.SeriesID,
		"tags":        filter.TagNames,
		"media":       filter.MediaType,
		"sort":        filter.SortBy,
		"artists":     artists,
		"allTags":     tags,
		"queryParams": buildArtworkQueryParams(filter),
	})
}

// ShowArtworkEdit 渲染作品编辑页面,无 id 时为新建。
func (a *API) ShowArtworkEdit(c *gin.Context) {
	data := gin.H{"title": "录入作品"}

	artists, err := a.artists.List()
	if err == nil {
		data["artists"] = artists
	}
	tags, err := a.tags.List()
	if err == nil {
		data["allTags"] = tags
	}

	if raw := c.Param("id"); raw != "" {
		id, err := parseUintParam(c, "id")
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		detail, err := a.artworks.Get(id)
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		data["title"] = "编辑作品"
		data["artwork"] = detail

		series, err := a.series.List(detail.Artist.ID)
		if err == nil {
			data["seriesOptions"] = series
		}
	}

	a.renderHTML(c, http.StatusOK, "artwork_edit.html", data)
}
