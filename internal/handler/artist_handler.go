package handler

import (
	"errors"
	"net/http"

	"github.com/artvault/internal/db"
	"github.com/artvault/internal/service"
	"github.com/artvault/internal/view"
	"github.com/gin-gonic/gin"
)

type artistPayload struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func (p artistPayload) toInput() service.ArtistInput {
	return service.ArtistInput{
		Name:      p.Name,
		Username:  p.Username,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
	}
}

type artistLinkPayload struct {
	Platform string `json:"platform"`
	Label    string `json:"label"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	Sort     *int   `json:"sort"`
	Visible  *bool  `json:"visible"`
}

func (p artistLinkPayload) toInput() service.ArtistLinkInput {
	return service.ArtistLinkInput{
		Platform: p.Platform,
		Label:    p.Label,
		URL:      p.URL,
		Icon:     p.Icon,
		Sort:     p.Sort,
		Visible:  p.Visible,
	}
}

type artistLinkReorderPayload struct {
	IDs []uint `json:"ids"`
}

// ShowArtistManagement 渲染画师管理页面。
func (a *API) ShowArtistManagement(c *gin.Context) {
	artists, err := a.artists.List()
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "artist_manage.html", gin.H{
			"title": "画师管理",
			"error": "加载画师列表失败",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "artist_manage.html", gin.H{
		"title":               "画师管理",
		"artists":             artists,
		"platformIconOptions": view.PlatformIconOptions(),
		"platformIconSVGs":    view.PlatformIconSVGMap(),
	})
}

// ListArtists 返回画师列表(含作品数量)。
func (a *API) ListArtists(c *gin.Context) {
	artists, err := a.artists.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取画师列表失败")
		return
	}

	items := make([]gin.H, 0, len(artists))
	for _, artist := range artists {
		items = append(items, gin.H{
			"id":            artist.ID,
			"name":          artist.Name,
			"username":      artist.Username,
			"avatar_url":    artist.AvatarURL,
			"artwork_count": artist.ArtworkCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"artists": items})
}

// GetArtist 返回单个画师及其外部链接。
func (a *API) GetArtist(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画师ID")
		return
	}

	artist, err := a.artists.Get(id)
	if err != nil {
		handleArtistError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"artist": artist})
}

// CreateArtist 创建画师。
func (a *API) CreateArtist(c *gin.Context) {
	var payload artistPayload
	if !bindJSON(c, &payload, "请填写完整的画师信息") {
		return
	}

	artist, err := a.artists.Create(payload.toInput())
	if err != nil {
		handleArtistError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "画师已创建", "artist": artist})
}

// UpdateArtist 更新画师资料。
func (a *API) UpdateArtist(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画师ID")
		return
	}

	var payload artistPayload
	if !bindJSON(c, &payload, "请填写完整的画师信息") {
		return
	}

	artist, err := a.artists.Update(id, payload.toInput())
	if err != nil {
		handleArtistError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "画师资料已更新", "artist": artist})
}

// DeleteArtist 删除画师,名下仍有作品时拒绝。
func (a *API) DeleteArtist(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画师ID")
		return
	}

	if err := a.artists.Delete(id); err != nil {
		handleArtistError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "画师已删除"})
}

// ListArtistLinks 返回画师的外部链接,后台管理包含隐藏项。
func (a *API) ListArtistLinks(c *gin.Context) {
	artistID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画师ID")
		return
	}

	links, err := a.artists.ListLinks(artistID, true)
	if err != nil {
		handleArtistError(c, err)
		return
	}

	items := make([]gin.H, 0, len(links))
	for _, link := range links {
		items = append(items, artistLinkJSON(link))
	}

	c.JSON(http.StatusOK, gin.H{"links": items})
}

// CreateArtistLink 为画师新增外部链接。
func (a *API) CreateArtistLink(c *gin.Context) {
	artistID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画师ID")
		return
	}

	var payload artistLinkPayload
	if !bindJSON(c, &payload, "请填写完整的链接信息") {
		return
	}

	link, err := a.artists.CreateLink(artistID, payload.toInput())
	if err != nil {
		handleArtistLinkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "已新增链接", "link": artistLinkJSON(*link)})
}

// UpdateArtistLink 更新外部链接。
func (a *API) UpdateArtistLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	var payload artistLinkPayload
	if !bindJSON(c, &payload, "请填写完整的链接信息") {
		return
	}

	link, err := a.artists.UpdateLink(id, payload.toInput())
	if err != nil {
		handleArtistLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "链接已更新", "link": artistLinkJSON(*link)})
}

// DeleteArtistLink 删除外部链接。
func (a *API) DeleteArtistLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	if err := a.artists.DeleteLink(id); err != nil {
		handleArtistLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "链接已删除"})
}

// ReorderArtistLinks 更新画师链接的排序。
func (a *API) ReorderArtistLinks(c *gin.Context) {
	artistID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画师ID")
		return
	}

	var payload artistLinkReorderPayload
	if !bindJSON(c, &payload, "排序数据格式不正确") {
		return
	}

	if err := a.artists.ReorderLinks(artistID, payload.IDs); err != nil {
		handleArtistLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "排序已更新"})
}

func artistLinkJSON(link db.ArtistLink) gin.H {
	return gin.H{
		"id":       link.ID,
		"platform": link.Platform,
		"label":    link.Label,
		"url":      link.URL,
		"icon":     link.Icon,
		"sort":     link.Sort,
		"visible":  link.Visible,
	}
}

func handleArtistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArtistNotFound):
		respondError(c, http.StatusNotFound, "画师不存在")
	case errors.Is(err, service.ErrArtistUsernameTaken):
		respondError(c, http.StatusBadRequest, "画师用户名已被占用")
	case errors.Is(err, service.ErrArtistHasArtworks):
		respondError(c, http.StatusBadRequest, "画师名下仍有作品，无法删除")
	case errors.Is(err, service.ErrArtistInvalidInput):
		respondError(c, http.StatusBadRequest, "请检查画师必填项")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}

func handleArtistLinkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArtistNotFound):
		respondError(c, http.StatusNotFound, "画师不存在")
	case errors.Is(err, service.ErrArtistLinkNotFound):
		respondError(c, http.StatusNotFound, "链接不存在")
	case errors.Is(err, service.ErrArtistLinkInvalidInput):
		respondError(c, http.StatusBadRequest, "请检查链接必填项")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
