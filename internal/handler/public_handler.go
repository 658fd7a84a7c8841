package handler

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/artvault/internal/service"
	"github.com/artvault/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const (
	visitorCookieName   = "av_visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

// ShowHome renders the public gallery grid with filters and pagination.
func (a *API) ShowHome(c *gin.Context) {
	viewModel := a.siteSettings(c)
	filter := parseArtworkFilter(c, viewModel.PageSize)

	result, err := a.artworks.List(filter)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "home.html", gin.H{
			"title": "画廊",
			"error": "获取作品失败",
			"year":  time.Now().Year(),
		})
		return
	}

	tagOptions, err := a.tags.Usage()
	if err != nil {
		tagOptions = nil
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":       "画廊",
		"search":      filter.Search,
		"tags":        filter.TagNames,
		"media":       filter.MediaType,
		"sort":        filter.SortBy,
		"tagOptions":  tagOptions,
		"artworks":    result.Items,
		"total":       result.Total,
		"page":        result.Page,
		"totalPages":  result.TotalPages,
		"hasMore":     result.Page < result.TotalPages,
		"queryParams": buildArtworkQueryParams(filter),
		"year":        time.Now().Year(),
	})
}

// LoadMoreArtworks returns gallery cards for infinite scroll via HTMX.
func (a *API) LoadMoreArtworks(c *gin.Context) {
	viewModel := a.siteSettings(c)
	filter := parseArtworkFilter(c, viewModel.PageSize)
	if filter.Page < 2 {
		c.String(http.StatusBadRequest, "")
		return
	}

	result, err := a.artworks.List(filter)
	if err != nil {
		c.String(http.StatusInternalServerError, "")
		return
	}

	a.renderHTML(c, http.StatusOK, "artwork_cards.html", gin.H{
		"artworks":    result.Items,
		"hasMore":     result.Page < result.TotalPages,
		"nextPage":    result.Page + 1,
		"queryParams": buildArtworkQueryParams(filter),
	})
}

// ShowArtworkDetail renders a single artwork and records the visit.
func (a *API) ShowArtworkDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	artwork, err := a.artworks.Get(id)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	visitorID := a.ensureVisitorID(c)

	var (
		pageViews      uint64
		uniqueVisitors uint64
	)

	if a.analytics != nil {
		if stats, recordErr := a.analytics.RecordArtworkView(artwork.ID, visitorID, time.Now().UTC()); recordErr == nil {
			pageViews = stats.PageViews
			uniqueVisitors = stats.UniqueVisitors
		} else {
			c.Error(recordErr) // 不中断渲染，但记录错误
		}
	}

	description := template.HTML("")
	if strings.TrimSpace(artwork.Description) != "" {
		if rendered, mdErr := renderMarkdown(artwork.Description); mdErr == nil {
			description = rendered
		}
	}

	a.renderHTML(c, http.StatusOK, "artwork_detail.html", gin.H{
		"title":          artwork.Title,
		"artwork":        artwork,
		"description":    description,
		"pageViews":      pageViews,
		"uniqueVisitors": uniqueVisitors,
		"year":           time.Now().Year(),
	})
}

// ShowArtistIndex lists all artists with artwork counts.
func (a *API) ShowArtistIndex(c *gin.Context) {
	artists, err := a.artists.List()
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "artist_list.html", gin.H{
			"title": "画师",
			"error": "获取画师列表失败",
			"year":  time.Now().Year(),
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "artist_list.html", gin.H{
		"title":   "画师",
		"artists": artists,
		"year":    time.Now().Year(),
	})
}

// ShowArtistProfile renders an artist page with bio, links and artworks.
func (a *API) ShowArtistProfile(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	artist, err := a.artists.GetByUsername(username)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	links, err := a.artists.ListLinks(artist.ID, false)
	if err != nil {
		links = nil
	}

	seriesList, err := a.series.List(artist.ID)
	if err != nil {
		seriesList = nil
	}

	viewModel := a.siteSettings(c)
	filter := parseArtworkFilter(c, viewModel.PageSize)
	filter.ArtistID = artist.ID

	result, err := a.artworks.List(filter)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "artist_profile.html", gin.H{
			"title":  artist.Name,
			"artist": artist,
			"error":  "获取作品失败",
			"year":   time.Now().Year(),
		})
		return
	}

	bio := template.HTML("")
	if strings.TrimSpace(artist.Bio) != "" {
		if rendered, mdErr := renderMarkdown(artist.Bio); mdErr == nil {
			bio = rendered
		}
	}

	a.renderHTML(c, http.StatusOK, "artist_profile.html", gin.H{
		"title":            artist.Name,
		"artist":           artist,
		"bio":              bio,
		"links":            links,
		"seriesList":       seriesList,
		"platformIconSVGs": view.PlatformIconSVGMap(),
		"artworks":         result.Items,
		"total":            result.Total,
		"page":             result.Page,
		"totalPages":       result.TotalPages,
		"hasMore":          result.Page < result.TotalPages,
		"sort":             filter.SortBy,
		"year":             time.Now().Year(),
	})
}

// ShowSeriesDetail renders a series with its artworks in source-date order.
func (a *API) ShowSeriesDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	series, err := a.series.Get(id)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	result, err := a.artworks.List(service.ArtworkFilter{
		SeriesID: series.ID,
		SortBy:   "date_asc",
		PerPage:  100,
	})
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "series_detail.html", gin.H{
			"title":  series.Title,
			"series": series,
			"error":  "获取作品失败",
			"year":   time.Now().Year(),
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "series_detail.html", gin.H{
		"title":    series.Title,
		"series":   series,
		"artworks": result.Items,
		"year":     time.Now().Year(),
	})
}

// ShowTagArchive lists tags with usage counts over live artworks.
func (a *API) ShowTagArchive(c *gin.Context) {
	usages, err := a.tags.Usage()
	if err != nil {
		usages = nil
	}

	a.renderHTML(c, http.StatusOK, "tag_list.html", gin.H{
		"title": "标签",
		"tags":  usages,
		"year":  time.Now().Year(),
	})
}

func (a *API) ensureVisitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	visitorID := uuid.NewString()
	secure := c.Request.TLS != nil

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   visitorCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})

	return visitorID
}

// ShowAbout renders the dynamic about page.
func (a *API) ShowAbout(c *gin.Context) {
	now := time.Now().In(time.Local)

	page, err := a.pages.GetBySlug("about")
	if err != nil {
		a.renderHTML(c, http.StatusOK, "about.html", gin.H{
			"title": "关于",
			"page": gin.H{
				"Title":   "关于本站",
				"Summary": "个人收藏的插画与动图，记录喜欢的画师与作品。",
			},
			"content": template.HTML("<p class=\"text-sm text-slate-600\">暂无简介，稍后再来看看。</p>"),
			"year":    now.Year(),
		})
		return
	}

	htmlContent, err := renderMarkdown(page.Content)
	if err != nil {
		htmlContent = template.HTML("<p class=\"text-sm text-slate-600\">内容暂时无法展示。</p>")
	}

	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title":   page.Title,
		"page":    page,
		"content": htmlContent,
		"year":    now.Year(),
	})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
