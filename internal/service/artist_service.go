package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artvault/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrArtistNotFound 在指定画师不存在时返回
	ErrArtistNotFound = errors.New("artist not found")
	// ErrArtistUsernameTaken 在用户名冲突时返回
	ErrArtistUsernameTaken = errors.New("artist username already exists")
	// ErrArtistHasArtworks 在画师名下仍有作品时拒绝删除
	ErrArtistHasArtworks = errors.New("artist still has artworks")
	// ErrArtistInvalidInput 在输入数据不完整时返回
	ErrArtistInvalidInput = errors.New("invalid artist input")
	// ErrArtistLinkNotFound 在指定外链不存在时返回
	ErrArtistLinkNotFound = errors.New("artist link not found")
	// ErrArtistLinkInvalidInput 在外链输入不完整时返回
	ErrArtistLinkInvalidInput = errors.New("invalid artist link input")
)

// ArtistService 负责画师档案与其社交外链的维护
type ArtistService struct {
	db *gorm.DB
}

// NewArtistService 构造 ArtistService
func NewArtistService(gdb *gorm.DB) *ArtistService {
	return &ArtistService{db: gdb}
}

// ArtistInput 描述创建或更新画师时可设置的字段
type ArtistInput struct {
	Name      string
	Username  string
	Bio       string
	AvatarURL string
}

// ArtistLinkInput 描述画师外链的输入
// Sort/Visible 使用指针判断是否显式传入
type ArtistLinkInput struct {
	Platform string
	Label    string
	URL      string
	Icon     string
	Sort     *int
	Visible  *bool
}

// List 返回全部画师,附带未删除作品的数量,按名称升序。
func (s *ArtistService) List() ([]db.Artist, error) {
	var artists []db.Artist
	if err := s.db.Model(&db.Artist{}).
		Select("artists.*, COUNT(artworks.id) AS artwork_count").
		Joins("LEFT JOIN artworks ON artworks.artist_id = artists.id AND artworks.deleted_at IS NULL").
		Group("artists.id").
		Order("artists.name asc").
		Order("artists.id asc").
		Find(&artists).Error; err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return artists, nil
}

// Get 根据主键获取画师,外链按排序值升序预加载
func (s *ArtistService) Get(id uint) (*db.Artist, error) {
	var artist db.Artist
	if err := s.preloadLinks(s.db).First(&artist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("get artist: %w", err)
	}
	if err := s.fillArtworkCount(&artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// GetByUsername 根据用户名获取画师,前台画师页使用
func (s *ArtistService) GetByUsername(username string) (*db.Artist, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrArtistNotFound
	}

	var artist db.Artist
	if err := s.preloadLinks(s.db).Where("username = ?", username).First(&artist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("get artist by username: %w", err)
	}
	if err := s.fillArtworkCount(&artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Create 新建画师档案
func (s *ArtistService) Create(input ArtistInput) (*db.Artist, error) {
	if err := validateArtistInput(input); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	var existing db.Artist
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrArtistUsernameTaken
	}

	artist := db.Artist{
		Name:      strings.TrimSpace(input.Name),
		Username:  username,
		Bio:       strings.TrimSpace(input.Bio),
		AvatarURL: strings.TrimSpace(input.AvatarURL),
	}
	if err := s.db.Create(&artist).Error; err != nil {
		return nil, fmt.Errorf("create artist: %w", err)
	}
	return &artist, nil
}

// Update 更新画师档案
func (s *ArtistService) Update(id uint, input ArtistInput) (*db.Artist, error) {
	if err := validateArtistInput(input); err != nil {
		return nil, err
	}

	var artist db.Artist
	if err := s.db.First(&artist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("find artist: %w", err)
	}

	username := strings.TrimSpace(input.Username)
	var existing db.Artist
	if err := s.db.Where("username = ? AND id <> ?", username, id).First(&existing).Error; err == nil {
		return nil, ErrArtistUsernameTaken
	}

	artist.Name = strings.TrimSpace(input.Name)
	artist.Username = username
	artist.Bio = strings.TrimSpace(input.Bio)
	artist.AvatarURL = strings.TrimSpace(input.AvatarURL)

	if err := s.db.Save(&artist).Error; err != nil {
		return nil, fmt.Errorf("update artist: %w", err)
	}
	return &artist, nil
}

// Delete 删除画师;名下仍有作品时拒绝
func (s *ArtistService) Delete(id uint) error {
	var artist db.Artist
	if err := s.db.First(&artist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtistNotFound
		}
		return fmt.Errorf("find artist: %w", err)
	}

	var count int64
	if err := s.db.Model(&db.Artwork{}).Where("artist_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("count artist artworks: %w", err)
	}
	if count > 0 {
		return ErrArtistHasArtworks
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artist_id = ?", id).Delete(&db.ArtistLink{}).Error; err != nil {
			return fmt.Errorf("delete artist links: %w", err)
		}
		return tx.Delete(&artist).Error
	})
}

// ListLinks 返回画师的外链集合,默认按排序值升序
// includeHidden 为 false 时过滤掉 Visible=false 的条目
func (s *ArtistService) ListLinks(artistID uint, includeHidden bool) ([]db.ArtistLink, error) {
	query := s.db.Model(&db.ArtistLink{}).Where("artist_id = ?", artistID)
	if !includeHidden {
		query = query.Where("visible = ?", true)
	}

	var links []db.ArtistLink
	if err := query.Order("sort ASC, id ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list artist links: %w", err)
	}
	return links, nil
}

// CreateLink 为画师新增外链,未指定排序时自动追加到末尾
func (s *ArtistService) CreateLink(artistID uint, input ArtistLinkInput) (*db.ArtistLink, error) {
	if err := validateArtistLinkInput(input); err != nil {
		return nil, err
	}
	if err := s.ensureArtist(artistID); err != nil {
		return nil, err
	}

	sortValue, err := s.resolveLinkSort(artistID, input.Sort)
	if err != nil {
		return nil, err
	}

	visible := true
	if input.Visible != nil {
		visible = *input.Visible
	}

	link := db.ArtistLink{
		ArtistID: artistID,
		Platform: strings.TrimSpace(input.Platform),
		Label:    strings.TrimSpace(input.Label),
		URL:      strings.TrimSpace(input.URL),
		Icon:     strings.TrimSpace(input.Icon),
		Sort:     sortValue,
		Visible:  visible,
	}
	if err := s.db.Create(&link).Error; err != nil {
		return nil, fmt.Errorf("create artist link: %w", err)
	}
	return &link, nil
}

// UpdateLink 更新指定外链
func (s *ArtistService) UpdateLink(id uint, input ArtistLinkInput) (*db.ArtistLink, error) {
	if err := validateArtistLinkInput(input); err != nil {
		return nil, err
	}

	var link db.ArtistLink
	if err := s.db.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistLinkNotFound
		}
		return nil, fmt.Errorf("find artist link: %w", err)
	}

	link.Platform = strings.TrimSpace(input.Platform)
	link.Label = strings.TrimSpace(input.Label)
	link.URL = strings.TrimSpace(input.URL)
	link.Icon = strings.TrimSpace(input.Icon)

	if input.Sort != nil {
		link.Sort = *input.Sort
	}
	if input.Visible != nil {
		link.Visible = *input.Visible
	}

	if err := s.db.Save(&link).Error; err != nil {
		return nil, fmt.Errorf("update artist link: %w", err)
	}
	return &link, nil
}

// DeleteLink 删除指定外链
func (s *ArtistService) DeleteLink(id uint) error {
	if err := s.db.Delete(&db.ArtistLink{}, id).Error; err != nil {
		return fmt.Errorf("delete artist link: %w", err)
	}
	return nil
}

// ReorderLinks 按给定顺序重排画师外链
// 传入的 IDs 会被依次赋值 0,1,2...,未包含的条目保持原排序
func (s *ArtistService) ReorderLinks(artistID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for index, id := range ids {
			if err := tx.Model(&db.ArtistLink{}).
				Where("id = ? AND artist_id = ?", id, artistID).
				Update("sort", index).Error; err != nil {
				return fmt.Errorf("reorder artist links: %w", err)
			}
		}
		return nil
	})
}

func (s *ArtistService) preloadLinks(query *gorm.DB) *gorm.DB {
	return query.Preload("Links", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort ASC, id ASC")
	})
}

func (s *ArtistService) fillArtworkCount(artist *db.Artist) error {
	var count int64
	if err := s.db.Model(&db.Artwork{}).Where("artist_id = ?", artist.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("count artist artworks: %w", err)
	}
	artist.ArtworkCount = count
	return nil
}

func (s *ArtistService) ensureArtist(artistID uint) error {
	var artist db.Artist
	if err := s.db.Select("id").First(&artist, artistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtistNotFound
		}
		return fmt.Errorf("find artist: %w", err)
	}
	return nil
}

func (s *ArtistService) resolveLinkSort(artistID uint, sortPtr *int) (int, error) {
	if sortPtr != nil {
		return *sortPtr, nil
	}

	var maxSort int
	if err := s.db.Model(&db.ArtistLink{}).
		Where("artist_id = ?", artistID).
		Select("COALESCE(MAX(sort), -1)").
		Scan(&maxSort).Error; err != nil {
		return 0, fmt.Errorf("resolve artist link sort: %w", err)
	}
	return maxSort + 1, nil
}

func validateArtistInput(input ArtistInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrArtistInvalidInput)
	}
	if strings.TrimSpace(input.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrArtistInvalidInput)
	}
	return nil
}

func validateArtistLinkInput(input ArtistLinkInput) error {
	if strings.TrimSpace(input.Platform) == "" {
		return fmt.Errorf("%w: platform is required", ErrArtistLinkInvalidInput)
	}
	if strings.TrimSpace(input.URL) == "" {
		return fmt.Errorf("%w: url is required", ErrArtistLinkInvalidInput)
	}
	return nil
}
