package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/artvault/internal/db"
	"github.com/artvault/internal/mediafile"
	"gorm.io/gorm"
)

var (
	ErrArtworkNotFound      = errors.New("artwork not found")
	ErrArtworkTitleRequired = errors.New("artwork title is required")
)

// 媒体类型筛选取值;其余输入视为不过滤。
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

const defaultArtworkPerPage = 24

const maxPerPage = 100

// artworkFromClause 为列表查询共用的表连接,COUNT 与 SELECT 必须一致。
const artworkFromClause = ` FROM artworks JOIN artists ON artists.id = artworks.artist_id`

const artworkSelectColumns = `artworks.id, artworks.title, artworks.description, artworks.artist_id,
artworks.series_id, artworks.source_site, artworks.source_url, artworks.source_post_id,
artworks.source_date, artworks.image_count, artworks.video_count, artworks.total_bytes,
artworks.created_at, artworks.updated_at,
artists.name AS artist_name, artists.username AS artist_username, artists.avatar_url AS artist_avatar_url`

// artworkSortClauses 是 SortBy 的白名单;排序子句只允许取自这里,
// 绝不拼接用户输入。
var artworkSortClauses = map[string]string{
	"date_desc":   "artworks.source_date desc, artworks.id desc",
	"date_asc":    "artworks.source_date asc, artworks.id asc",
	"title_asc":   "artworks.title asc, artworks.id asc",
	"title_desc":  "artworks.title desc, artworks.id desc",
	"artist_asc":  "artists.name asc, artworks.id asc",
	"artist_desc": "artists.name desc, artworks.id desc",
	"images_asc":  "artworks.image_count asc, artworks.id asc",
	"images_desc": "artworks.image_count desc, artworks.id desc",
}

const defaultArtworkSort = "date_desc"

// ArtworkService wraps artwork related database operations.
type ArtworkService struct {
	db       *gorm.DB
	mediaURL string
}

// ArtworkFilter describes filters for listing artworks.
type ArtworkFilter struct {
	Search    string
	ArtistID  uint
	SeriesID  uint
	TagNames  []string
	MediaType string
	SortBy    string
	Page      int
	PerPage   int
}

// ArtistRef 是卡片上携带的画师摘要。
type ArtistRef struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// ArtworkCard is the list-page shape of an artwork: artist summary, tag
// names and merged media with display counts recomputed after merging.
type ArtworkCard struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	Artist      ArtistRef   `json:"artist"`
	SeriesID    *uint       `json:"series_id,omitempty"`
	SourceSite  string      `json:"source_site"`
	SourceLabel string      `json:"source_label"`
	SourceURL   string      `json:"source_url"`
	SourceDate  *time.Time  `json:"source_date,omitempty"`
	Tags        []string    `json:"tags"`
	Media       []MediaItem `json:"media"`
	ImageCount  int         `json:"image_count"`
	VideoCount  int         `json:"video_count"`
	TotalBytes  int64       `json:"total_bytes"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ArtworkNavRef 指向系列内的相邻作品。
type ArtworkNavRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// SeriesRef 是详情页携带的系列摘要。
type SeriesRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// ArtworkDetail extends the card with description and series navigation.
type ArtworkDetail struct {
	ArtworkCard
	Description  string         `json:"description"`
	SourcePostID string         `json:"source_post_id"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Series       *SeriesRef     `json:"series,omitempty"`
	PrevInSeries *ArtworkNavRef `json:"prev_in_series,omitempty"`
	NextInSeries *ArtworkNavRef `json:"next_in_series,omitempty"`
}

// ArtworkListResult aggregates paginated list data.
type ArtworkListResult struct {
	Items      []ArtworkCard `json:"items"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
}

// ArtworkInput represents fields accepted when creating or updating an artwork.
// Images 为 nil 时保留现有媒体文件,非 nil 时整体替换。
type ArtworkInput struct {
	Title        string
	Description  string
	ArtistID     uint
	SeriesID     *uint
	SourceSite   string
	SourceURL    string
	SourcePostID string
	SourceDate   *time.Time
	TagIDs       []uint
	Images       []ImageInput
}

// ImageInput 描述一条待落库的媒体文件记录。
type ImageInput struct {
	FileName  string
	Path      string
	Width     int
	Height    int
	FileSize  int64
	SortOrder int
}

// NewArtworkService creates an ArtworkService instance.
func NewArtworkService(gdb *gorm.DB) *ArtworkService {
	return &ArtworkService{db: gdb, mediaURL: "/static/media"}
}

// WithMediaBase 覆盖媒体文件的访问前缀,返回自身便于链式调用。
func (s *ArtworkService) WithMediaBase(urlPath string) *ArtworkService {
	if trimmed := strings.TrimSpace(urlPath); trimmed != "" {
		s.mediaURL = trimmed
	}
	return s
}

// List provides paginated artwork cards based on filters.
//
// WHERE 条件以 conds/args 两个切片同步累加,COUNT 与 SELECT 共用同一份
// 参数序列,保证占位符顺序一致。
func (s *ArtworkService) List(filter ArtworkFilter) (*ArtworkListResult, error) {
	result := &ArtworkListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, defaultArtworkPerPage),
	}

	where, args := buildArtworkConditions(filter)

	countSQL := "SELECT COUNT(*)" + artworkFromClause + where
	if err := s.db.Raw(countSQL, args...).Scan(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	selectSQL := "SELECT " + artworkSelectColumns + artworkFromClause + where +
		" ORDER BY " + artworkOrderClause(filter.SortBy) +
		" LIMIT ? OFFSET ?"
	args = append(args, result.PerPage, offset)

	var rows []artworkRow
	if err := s.db.Raw(selectSQL, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	imagesByArtwork, tagsByArtwork, err := s.loadArtworkRelations(ids)
	if err != nil {
		return nil, err
	}

	result.Items = make([]ArtworkCard, 0, len(rows))
	for _, row := range rows {
		result.Items = append(result.Items, s.buildCard(row, imagesByArtwork[row.ID], tagsByArtwork[row.ID]))
	}
	return result, nil
}

// Get fetches a single artwork with merged media and series navigation.
func (s *ArtworkService) Get(id uint) (*ArtworkDetail, error) {
	where, args := buildArtworkConditions(ArtworkFilter{})
	where += " AND artworks.id = ?"
	args = append(args, id)

	var rows []artworkRow
	selectSQL := "SELECT " + artworkSelectColumns + artworkFromClause + where + " LIMIT 1"
	if err := s.db.Raw(selectSQL, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrArtworkNotFound
	}
	row := rows[0]

	imagesByArtwork, tagsByArtwork, err := s.loadArtworkRelations([]uint{row.ID})
	if err != nil {
		return nil, err
	}

	detail := &ArtworkDetail{
		ArtworkCard:  s.buildCard(row, imagesByArtwork[row.ID], tagsByArtwork[row.ID]),
		Description:  row.Description,
		SourcePostID: row.SourcePostID,
		UpdatedAt:    row.UpdatedAt,
	}

	if row.SeriesID != nil {
		if err := s.attachSeriesNav(detail, *row.SeriesID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// Create persists an artwork and associates tags and images in a transaction.
func (s *ArtworkService) Create(input ArtworkInput) (*db.Artwork, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrArtworkTitleRequired
	}
	if err := s.ensureArtistExists(input.ArtistID); err != nil {
		return nil, err
	}

	artwork := db.Artwork{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		ArtistID:    input.ArtistID,
		SeriesID:    input.SeriesID,
	}
	applyArtworkSource(&artwork, input)

	return s.saveWithRelations(&artwork, input)
}

// Update applies updates to an existing artwork.
func (s *ArtworkService) Update(id uint, input ArtworkInput) (*db.Artwork, error) {
	var existing db.Artwork
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtworkNotFound
		}
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrArtworkTitleRequired
	}
	if input.ArtistID != existing.ArtistID {
		if err := s.ensureArtistExists(input.ArtistID); err != nil {
			return nil, err
		}
	}

	existing.Title = title
	existing.Description = strings.TrimSpace(input.Description)
	existing.ArtistID = input.ArtistID
	existing.SeriesID = input.SeriesID
	applyArtworkSource(&existing, input)

	return s.saveWithRelations(&existing, input)
}

// Delete removes an artwork and its image records.
func (s *ArtworkService) Delete(id uint) error {
	var artwork db.Artwork
	if err := s.db.First(&artwork, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtworkNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("artwork_id = ?", artwork.ID).Delete(&db.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&artwork).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&artwork).Error
	})
}

// RefreshCounts 依据 images 表重算作品的存储统计。
// 存储口径按文件逐个计数,APNG 记为图片;合并后的展示口径由 DTO 重算。
func (s *ArtworkService) RefreshCounts(artworkID uint) error {
	return refreshArtworkCounts(s.db, artworkID)
}

type artworkRow struct {
	ID              uint
	Title           string
	Description     string
	ArtistID        uint
	SeriesID        *uint
	SourceSite      string
	SourceURL       string
	SourcePostID    string
	SourceDate      *time.Time
	ImageCount      int
	VideoCount      int
	TotalBytes      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ArtistName      string
	ArtistUsername  string
	ArtistAvatarURL string
}

type artworkTagRow struct {
	ArtworkID uint
	Name      string
}

// buildArtworkConditions 逐条累加过滤条件与参数。裸 SQL 不经过 GORM 的
// 软删除作用域,这里必须显式带上 deleted_at 守卫。
func buildArtworkConditions(filter ArtworkFilter) (string, []any) {
	conds := []string{"artworks.deleted_at IS NULL", "artists.deleted_at IS NULL"}
	args := make([]any, 0, 8)

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		conds = append(conds, "(artworks.title LIKE ? OR artworks.description LIKE ? OR artists.name LIKE ? OR artists.username LIKE ?)")
		args = append(args, like, like, like, like)
	}

	if filter.ArtistID != 0 {
		conds = append(conds, "artworks.artist_id = ?")
		args = append(args, filter.ArtistID)
	}

	if filter.SeriesID != 0 {
		conds = append(conds, "artworks.series_id = ?")
		args = append(args, filter.SeriesID)
	}

	if len(filter.TagNames) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.TagNames)), ", ")
		conds = append(conds,
			"artworks.id IN (SELECT artwork_tags.artwork_id FROM artwork_tags"+
				" JOIN tags ON tags.id = artwork_tags.tag_id"+
				" WHERE tags.deleted_at IS NULL AND tags.name IN ("+placeholders+"))")
		for _, name := range filter.TagNames {
			args = append(args, name)
		}
	}

	switch strings.ToLower(strings.TrimSpace(filter.MediaType)) {
	case MediaTypeVideo:
		conds = append(conds, "artworks.video_count > 0")
	case MediaTypeImage:
		conds = append(conds, "artworks.video_count = 0")
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func artworkOrderClause(sortBy string) string {
	key := strings.ToLower(strings.TrimSpace(sortBy))
	if clause, ok := artworkSortClauses[key]; ok {
		return clause
	}
	return artworkSortClauses[defaultArtworkSort]
}

// loadArtworkRelations 并发批量加载 ID 集合对应的媒体文件与标签名。
// 两张表互不依赖,各起一个 goroutine 扇出。
func (s *ArtworkService) loadArtworkRelations(ids []uint) (map[uint][]db.Image, map[uint][]string, error) {
	imagesByArtwork := make(map[uint][]db.Image, len(ids))
	tagsByArtwork := make(map[uint][]string, len(ids))
	if len(ids) == 0 {
		return imagesByArtwork, tagsByArtwork, nil
	}

	var (
		wg      sync.WaitGroup
		images  []db.Image
		tagRows []artworkTagRow
		imgErr  error
		tagErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		imgErr = s.db.Where("artwork_id IN ?", ids).
			Order("artwork_id asc, sort_order asc, id asc").
			Find(&images).Error
	}()
	go func() {
		defer wg.Done()
		tagErr = s.db.Table("artwork_tags").
			Select("artwork_tags.artwork_id AS artwork_id, tags.name AS name").
			Joins("JOIN tags ON tags.id = artwork_tags.tag_id").
			Where("artwork_tags.artwork_id IN ?", ids).
			Where("tags.deleted_at IS NULL").
			Order("tags.sort_order asc, tags.name asc").
			Scan(&tagRows).Error
	}()
	wg.Wait()

	if imgErr != nil {
		return nil, nil, imgErr
	}
	if tagErr != nil {
		return nil, nil, tagErr
	}

	for _, img := range images {
		imagesByArtwork[img.ArtworkID] = append(imagesByArtwork[img.ArtworkID], img)
	}
	for _, row := range tagRows {
		tagsByArtwork[row.ArtworkID] = append(tagsByArtwork[row.ArtworkID], row.Name)
	}
	return imagesByArtwork, tagsByArtwork, nil
}

func (s *ArtworkService) buildCard(row artworkRow, images []db.Image, tagNames []string) ArtworkCard {
	media := MergeSiblingMedia(buildMediaItems(images, s.mediaURL))
	summary := SummarizeMedia(media)

	if tagNames == nil {
		tagNames = []string{}
	}

	return ArtworkCard{
		ID:          row.ID,
		Title:       row.Title,
		Artist:      ArtistRef{ID: row.ArtistID, Name: row.ArtistName, Username: row.ArtistUsername, AvatarURL: row.ArtistAvatarURL},
		SeriesID:    row.SeriesID,
		SourceSite:  row.SourceSite,
		SourceLabel: SourceSiteLabel(row.SourceSite),
		SourceURL:   row.SourceURL,
		SourceDate:  row.SourceDate,
		Tags:        tagNames,
		Media:       media,
		ImageCount:  summary.ImageCount,
		VideoCount:  summary.VideoCount,
		TotalBytes:  summary.TotalBytes,
		CreatedAt:   row.CreatedAt,
	}
}

// attachSeriesNav 填充系列摘要与前后相邻作品。
func (s *ArtworkService) attachSeriesNav(detail *ArtworkDetail, seriesID uint) error {
	var series db.Series
	if err := s.db.First(&series, seriesID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	detail.Series = &SeriesRef{ID: series.ID, Title: series.Title}

	var siblings []ArtworkNavRef
	if err := s.db.Model(&db.Artwork{}).
		Select("id, title").
		Where("series_id = ?", seriesID).
		Order("source_date asc, id asc").
		Scan(&siblings).Error; err != nil {
		return err
	}

	for i, sibling := range siblings {
		if sibling.ID != detail.ID {
			continue
		}
		if i > 0 {
			prev := siblings[i-1]
			detail.PrevInSeries = &prev
		}
		if i+1 < len(siblings) {
			next := siblings[i+1]
			detail.NextInSeries = &next
		}
		break
	}
	return nil
}

func (s *ArtworkService) ensureArtistExists(artistID uint) error {
	if artistID == 0 {
		return ErrArtistNotFound
	}
	var artist db.Artist
	if err := s.db.Select("id").First(&artist, artistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtistNotFound
		}
		return err
	}
	return nil
}

func applyArtworkSource(artwork *db.Artwork, input ArtworkInput) {
	artwork.SourceSite = strings.TrimSpace(input.SourceSite)
	artwork.SourceURL = strings.TrimSpace(input.SourceURL)
	artwork.SourcePostID = strings.TrimSpace(input.SourcePostID)
	artwork.SourceDate = input.SourceDate

	if artwork.SourceURL == "" {
		return
	}
	source, _ := ClassifySource(artwork.SourceURL)
	if source.Site == "" {
		return
	}
	if artwork.SourceSite == "" {
		artwork.SourceSite = source.Site
	}
	if artwork.SourcePostID == "" {
		artwork.SourcePostID = source.PostID
	}
	if source.CanonicalURL != "" {
		artwork.SourceURL = source.CanonicalURL
	}
}

func (s *ArtworkService) saveWithRelations(artwork *db.Artwork, input ArtworkInput) (*db.Artwork, error) {
	return artwork, s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(artwork).Error; err != nil {
			return err
		}

		var tags []db.Tag
		if len(input.TagIDs) > 0 {
			if err := tx.Where("id IN ?", input.TagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(input.TagIDs) {
				return ErrTagNotFound
			}
		}
		if err := tx.Model(artwork).Association("Tags").Replace(tags); err != nil {
			return err
		}

		if input.Images != nil {
			if err := tx.Unscoped().Where("artwork_id = ?", artwork.ID).Delete(&db.Image{}).Error; err != nil {
				return err
			}
			for _, img := range input.Images {
				record := db.Image{
					ArtworkID: artwork.ID,
					FileName:  strings.TrimSpace(img.FileName),
					Path:      strings.TrimSpace(img.Path),
					Width:     img.Width,
					Height:    img.Height,
					FileSize:  img.FileSize,
					SortOrder: img.SortOrder,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
		}

		if err := refreshArtworkCounts(tx, artwork.ID); err != nil {
			return err
		}

		return tx.Preload("Tags").
			Preload("Images", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("sort_order asc, id asc")
			}).
			First(artwork, artwork.ID).Error
	})
}

func refreshArtworkCounts(tx *gorm.DB, artworkID uint) error {
	var images []db.Image
	if err := tx.Where("artwork_id = ?", artworkID).Find(&images).Error; err != nil {
		return err
	}

	imageCount := 0
	videoCount := 0
	var totalBytes int64
	for _, img := range images {
		if mediafile.IsVideo(img.FileName) {
			videoCount++
		} else {
			imageCount++
		}
		totalBytes += img.FileSize
	}

	return tx.Model(&db.Artwork{}).
		Where("id = ?", artworkID).
		Updates(map[string]interface{}{
			"image_count": imageCount,
			"video_count": videoCount,
			"total_bytes": totalBytes,
		}).Error
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	if perPage > maxPerPage {
		return maxPerPage
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
