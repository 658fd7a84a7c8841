package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/artvault/internal/config"
	"github.com/artvault/internal/db"
	"github.com/artvault/internal/mediafile"
	"github.com/artvault/internal/service"
	"github.com/gofrs/flock"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

// 从磁盘批量导入媒体库，目录结构约定为
// <媒体根目录>/<画师用户名>/<作品目录>/<媒体文件...>，
// 画师目录下的 avatar.* 记录为头像。重复执行为增量补录。
func main() {
	var mediaRoot string
	var artistFilter string
	flag.StringVar(&mediaRoot, "media", "", "媒体库根目录，默认取 MEDIA_DIR")
	flag.StringVar(&artistFilter, "artist", "", "只导入指定画师目录")
	flag.Parse()

	cfg := config.Load()
	if mediaRoot == "" {
		mediaRoot = cfg.MediaDir
	}

	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseSource()); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	// 文件锁防止两个导入进程交错写库
	lock := flock.New(filepath.Join(mediaRoot, ".importmedia.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "acquire import lock: %v\n", err)
		os.Exit(1)
	}
	if !locked {
		fmt.Fprintln(os.Stderr, "another import is already running")
		os.Exit(1)
	}
	defer lock.Unlock()

	stats, err := importLibrary(mediaRoot, artistFilter, cfg.MediaURLPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import library: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("done: %d artists, %d artworks, %d media files imported\n",
		stats.Artists, stats.Artworks, stats.Files)
}

// importStats 统计本次导入新建的行数。
type importStats struct {
	Artists  int
	Artworks int
	Files    int
}

func importLibrary(root, artistFilter, mediaURLPath string) (importStats, error) {
	var stats importStats

	entries, err := os.ReadDir(root)
	if err != nil {
		return stats, fmt.Errorf("read media root: %w", err)
	}

	artworkSvc := service.NewArtworkService(db.DB)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if artistFilter != "" && entry.Name() != artistFilter {
			continue
		}
		if err := importArtist(artworkSvc, root, entry.Name(), mediaURLPath, &stats); err != nil {
			return stats, fmt.Errorf("import artist %s: %w", entry.Name(), err)
		}
	}

	return stats, nil
}

// importArtist 按目录名补录画师，再逐个作品目录导入。
func importArtist(artworkSvc *service.ArtworkService, root, username, mediaURLPath string, stats *importStats) error {
	var artist db.Artist
	err := db.DB.Where("username = ?", username).First(&artist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		artist = db.Artist{Name: username, Username: username}
		if err := db.DB.Create(&artist).Error; err != nil {
			return fmt.Errorf("create artist: %w", err)
		}
		stats.Artists++
	} else if err != nil {
		return err
	}

	artistDir := filepath.Join(root, username)
	entries, err := os.ReadDir(artistDir)
	if err != nil {
		return fmt.Errorf("read artist dir: %w", err)
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.IsDir() {
			if err := importArtwork(artworkSvc, &artist, root, entry.Name(), stats); err != nil {
				return err
			}
			continue
		}
		// 画师目录下的 avatar.* 作为头像补录
		if artist.AvatarURL == "" && isAvatarFile(entry.Name()) {
			artist.AvatarURL = path.Join(mediaURLPath, username, entry.Name())
			if err := db.DB.Model(&artist).Update("avatar_url", artist.AvatarURL).Error; err != nil {
				return fmt.Errorf("update avatar: %w", err)
			}
		}
	}

	return nil
}

// importArtwork 按目录名补录作品并逐文件落库，最后重算统计。
func importArtwork(artworkSvc *service.ArtworkService, artist *db.Artist, root, title string, stats *importStats) error {
	artworkDir := filepath.Join(root, artist.Username, title)
	entries, err := os.ReadDir(artworkDir)
	if err != nil {
		return fmt.Errorf("read artwork dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	var earliest time.Time
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !mediafile.IsImage(entry.Name()) && !mediafile.IsVideo(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
		if info, err := entry.Info(); err == nil {
			if earliest.IsZero() || info.ModTime().Before(earliest) {
				earliest = info.ModTime()
			}
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	var artwork db.Artwork
	err = db.DB.Where("artist_id = ? AND title = ?", artist.ID, title).First(&artwork).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		artwork = db.Artwork{Title: title, ArtistID: artist.ID}
		if !earliest.IsZero() {
			// 没有来源信息时退回文件修改时间，保持列表排序可用
			artwork.SourceDate = &earliest
		}
		if err := db.DB.Create(&artwork).Error; err != nil {
			return fmt.Errorf("create artwork: %w", err)
		}
		stats.Artworks++
	} else if err != nil {
		return err
	}

	for idx, name := range names {
		if err := upsertImage(&artwork, root, artist.Username, title, name, idx, stats); err != nil {
			return err
		}
	}

	return artworkSvc.RefreshCounts(artwork.ID)
}

// upsertImage 落库单个媒体文件，已存在时仅刷新大小、宽高与排序。
func upsertImage(artwork *db.Artwork, root, username, title, name string, sortOrder int, stats *importStats) error {
	fullPath := filepath.Join(root, username, title, name)
	relPath := path.Join(username, title, name)

	info, err := os.Stat(fullPath)
	if err != nil {
		return fmt.Errorf("stat media file: %w", err)
	}

	width, height := 0, 0
	if mediafile.KindOf(name) == mediafile.KindImage {
		width, height = decodeBounds(fullPath)
	}

	var img db.Image
	err = db.DB.Where("artwork_id = ? AND path = ?", artwork.ID, relPath).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		img = db.Image{
			ArtworkID: artwork.ID,
			FileName:  name,
			Path:      relPath,
			Width:     width,
			Height:    height,
			FileSize:  info.Size(),
			SortOrder: sortOrder,
		}
		if err := db.DB.Create(&img).Error; err != nil {
			return fmt.Errorf("create image: %w", err)
		}
		stats.Files++
		return nil
	} else if err != nil {
		return err
	}

	return db.DB.Model(&img).Updates(map[string]interface{}{
		"width":      width,
		"height":     height,
		"file_size":  info.Size(),
		"sort_order": sortOrder,
	}).Error
}

// decodeBounds 读取图片宽高，解不开的格式返回 0。
func decodeBounds(path string) (int, int) {
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

func isAvatarFile(name string) bool {
	base := strings.ToLower(mediafile.Stem(name))
	return base == "avatar" && mediafile.IsImage(name)
}
