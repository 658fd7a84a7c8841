package service

import (
	"slices"
	"strings"

	"github.com/artvault/internal/db"
	"github.com/artvault/internal/mediafile"
)

// MediaItem is the display shape of a single media file. A video that has an
// animated PNG preview sibling carries the preview in Raw after merging.
type MediaItem struct {
	ID        uint           `json:"id"`
	FileName  string         `json:"file_name"`
	Path      string         `json:"path"`
	URL       string         `json:"url"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	FileSize  int64          `json:"file_size"`
	SortOrder int            `json:"sort_order"`
	Kind      mediafile.Kind `json:"kind"`
	Raw       *MediaItem     `json:"raw,omitempty"`
}

// MediaSummary 为合并后重算的展示统计。
type MediaSummary struct {
	ImageCount int   `json:"image_count"`
	VideoCount int   `json:"video_count"`
	TotalBytes int64 `json:"total_bytes"`
}

// buildMediaItems 将 images 行转换为展示条目，按扩展名推断类别并拼接访问 URL。
func buildMediaItems(images []db.Image, mediaURL string) []MediaItem {
	items := make([]MediaItem, 0, len(images))
	for _, img := range images {
		items = append(items, MediaItem{
			ID:        img.ID,
			FileName:  img.FileName,
			Path:      img.Path,
			URL:       joinURLPath(mediaURL, img.Path),
			Width:     img.Width,
			Height:    img.Height,
			FileSize:  img.FileSize,
			SortOrder: img.SortOrder,
			Kind:      mediafile.KindOf(img.FileName),
		})
	}
	return items
}

// MergeSiblingMedia collapses animated-PNG preview + video original pairs
// into a single visible video item. Pairing is by exact filename stem, case
// as stored on disk; an animated PNG without a video sibling stays visible,
// and a second preview competing for the same stem also stays visible.
// The input slice is not modified.
func MergeSiblingMedia(items []MediaItem) []MediaItem {
	if len(items) < 2 {
		return items
	}

	merged := slices.Clone(items)

	videoByStem := make(map[string]int)
	for i, item := range merged {
		if item.Kind != mediafile.KindVideo {
			continue
		}
		stem := mediafile.Stem(item.FileName)
		if _, exists := videoByStem[stem]; !exists {
			videoByStem[stem] = i
		}
	}
	if len(videoByStem) == 0 {
		return merged
	}

	consumed := make(map[int]struct{})
	for i, item := range merged {
		if item.Kind != mediafile.KindImage || !mediafile.IsAnimatedPNG(item.FileName) {
			continue
		}
		videoIdx, ok := videoByStem[mediafile.Stem(item.FileName)]
		if !ok || merged[videoIdx].Raw != nil {
			continue
		}
		raw := item
		merged[videoIdx].Raw = &raw
		consumed[i] = struct{}{}
	}
	if len(consumed) == 0 {
		return merged
	}

	visible := make([]MediaItem, 0, len(merged)-len(consumed))
	for i, item := range merged {
		if _, hidden := consumed[i]; hidden {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}

// SummarizeMedia 统计可见条目的图片数、视频数与字节总量。
// 被合并隐藏的 APNG 原件不计入 TotalBytes。
func SummarizeMedia(items []MediaItem) MediaSummary {
	var summary MediaSummary
	for _, item := range items {
		switch item.Kind {
		case mediafile.KindVideo:
			summary.VideoCount++
		default:
			summary.ImageCount++
		}
		summary.TotalBytes += item.FileSize
	}
	return summary
}

func joinURLPath(base, rel string) string {
	base = strings.TrimRight(base, "/")
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return base
	}
	return base + "/" + rel
}
