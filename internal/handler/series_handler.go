package handler

import (
	"errors"
	"net/http"

	"github.com/artvault/internal/service"
	"github.com/gin-gonic/gin"
)

type seriesPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ArtistID    uint   `json:"artist_id"`
}

func (p seriesPayload) toInput() service.SeriesInput {
	return service.SeriesInput{
		Title:       p.Title,
		Description: p.Description,
		ArtistID:    p.ArtistID,
	}
}

// ListSeries 返回系列列表,可按画师过滤。
func (a *API) ListSeries(c *gin.Context) {
	artistID := parseUintQuery(c, "artist")

	series, err := a.series.List(artistID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取系列列表失败")
		return
	}

	items := make([]gin.H, 0, len(series))
	for _, s := range series {
		items = append(items, gin.H{
			"id":            s.ID,
			"title":         s.Title,
			"description":   s.Description,
			"artist_id":     s.ArtistID,
			"artwork_count": s.ArtworkCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"series": items})
}

// GetSeries 返回系列详情及按来源日期排序的作品。
func (a *API) GetSeries(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的系列ID")
		return
	}

	series, err := a.series.Get(id)
	if err != nil {
		handleSeriesError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": series})
}

// CreateSeries 创建系列。
func (a *API) CreateSeries(c *gin.Context) {
	var payload seriesPayload
	if !bindJSON(c, &payload, "请填写完整的系列信息") {
		return
	}

	series, err := a.series.Create(payload.toInput())
	if err != nil {
		handleSeriesError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "系列已创建", "series": series})
}

// UpdateSeries 更新系列。
func (a *API) UpdateSeries(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的系列ID")
		return
	}

	var payload seriesPayload
	if !bindJSON(c, &payload, "请填写完整的系列信息") {
		return
	}

	series, err := a.series.Update(id, payload.toInput())
	if err != nil {
		handleSeriesError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "系列已更新", "series": series})
}

// DeleteSeries 删除系列,其中的作品脱离系列但保留。
func (a *API) DeleteSeries(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的系列ID")
		return
	}

	if err := a.series.Delete(id); err != nil {
		handleSeriesError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "系列已删除"})
}

// AssignSeriesArtwork 将作品加入系列,要求归属同一画师。
func (a *API) AssignSeriesArtwork(c *gin.Context) {
	seriesID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的系列ID")
		return
	}
	artworkID, err := parseUintParam(c, "artworkId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	if err := a.series.AssignArtwork(seriesID, artworkID); err != nil {
		handleSeriesError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "作品已加入系列"})
}

// RemoveSeriesArtwork 将作品移出所在系列。
func (a *API) RemoveSeriesArtwork(c *gin.Context) {
	artworkID, err := parseUintParam(c, "artworkId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	if err := a.series.RemoveArtwork(artworkID); err != nil {
		handleSeriesError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "作品已移出系列"})
}

func handleSeriesError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSeriesNotFound):
		respondError(c, http.StatusNotFound, "系列不存在")
	case errors.Is(err, service.ErrArtworkNotFound):
		respondError(c, http.StatusNotFound, "作品不存在")
	case errors.Is(err, service.ErrArtistNotFound):
		respondError(c, http.StatusBadRequest, "画师不存在")
	case errors.Is(err, service.ErrSeriesTitleRequired):
		respondError(c, http.StatusBadRequest, "请填写系列标题")
	case errors.Is(err, service.ErrSeriesArtistMixed):
		respondError(c, http.StatusBadRequest, "作品与系列不属于同一画师")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
