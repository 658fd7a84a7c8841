package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artvault/internal/mediafile"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const thumbnailBound = 480

// UploadMedia 处理媒体文件上传:图片解码宽高并生成缩略图,视频原样落盘。
func (a *API) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传的文件", "success": 0})
		return
	}

	if !mediafile.IsImage(file.Filename) && !mediafile.IsVideo(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的文件类型", "success": 0})
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传目录失败", "success": 0})
		return
	}

	// 生成唯一文件名,保留原扩展名以便后续按扩展名归类
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败", "success": 0})
		return
	}

	kind := mediafile.KindOf(file.Filename)

	var width, height int
	var thumbURL string
	if kind == mediafile.KindImage {
		width, height = decodeImageBounds(filePath)
		thumbURL = a.writeThumbnail(filePath, newFilename)
	}

	fileURL := joinURL(a.uploadURL, newFilename)
	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"message": "上传成功",
		"data": gin.H{
			"filePath": fileURL,
			"url":      fileURL,
			"fileName": file.Filename,
			"path":     newFilename,
			"width":    width,
			"height":   height,
			"size":     file.Size,
			"kind":     string(kind),
			"thumbUrl": thumbURL,
		},
	})
}

// decodeImageBounds 读取图片宽高,解不开的格式(如 avif)返回 0。
func decodeImageBounds(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// writeThumbnail 为静态图生成等比缩略图,失败时返回空串不影响上传。
func (a *API) writeThumbnail(srcPath, name string) string {
	if a.thumbDir == "" {
		return ""
	}

	src, err := imaging.Open(srcPath)
	if err != nil {
		return ""
	}

	if err := os.MkdirAll(a.thumbDir, 0755); err != nil {
		return ""
	}

	thumb := imaging.Fit(src, thumbnailBound, thumbnailBound, imaging.Lanczos)
	thumbName := strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	if err := imaging.Save(thumb, filepath.Join(a.thumbDir, thumbName), imaging.JPEGQuality(85)); err != nil {
		return ""
	}

	return joinURL(a.thumbURL, thumbName)
}

func joinURL(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/" + name
}
