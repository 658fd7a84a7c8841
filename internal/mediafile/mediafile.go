package mediafile

import (
	"path/filepath"
	"strings"
)

// Kind 表示媒体文件的展示类别。
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".apng": {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".avif": {},
	".bmp":  {},
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
	".mov":  {},
	".mkv":  {},
	".m4v":  {},
}

// KindOf 根据扩展名判断媒体类别，未知扩展名按图片处理。
func KindOf(name string) Kind {
	if IsVideo(name) {
		return KindVideo
	}
	return KindImage
}

// IsImage reports whether the filename carries a known still-image extension.
func IsImage(name string) bool {
	_, ok := imageExtensions[normalizedExt(name)]
	return ok
}

// IsVideo reports whether the filename carries a known video extension.
func IsVideo(name string) bool {
	_, ok := videoExtensions[normalizedExt(name)]
	return ok
}

// IsAnimatedPNG reports whether the filename is an animated PNG. Downloaded
// previews keep the .apng extension as saved, so the check is extension only.
func IsAnimatedPNG(name string) bool {
	return normalizedExt(name) == ".apng"
}

// Stem 返回去掉最后一个扩展名后的文件名，保留磁盘上的原始大小写。
// 同名的 APNG 预览与视频原件通过 Stem 相等来配对。
func Stem(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

func normalizedExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
