package service

import (
	"errors"
	"strings"

	"github.com/artvault/internal/db"
	"gorm.io/gorm"
)

var (
	ErrSeriesNotFound      = errors.New("series not found")
	ErrSeriesTitleRequired = errors.New("series title is required")
	ErrSeriesArtistMixed   = errors.New("artwork belongs to a different artist")
)

// SeriesService handles artwork series CRUD and membership.
type SeriesService struct {
	db *gorm.DB
}

// SeriesInput represents fields accepted when creating or updating a series.
type SeriesInput struct {
	Title       string
	Description string
	ArtistID    uint
}

// NewSeriesService creates a SeriesService instance.
func NewSeriesService(gdb *gorm.DB) *SeriesService {
	return &SeriesService{db: gdb}
}

// List returns series with artwork counts, optionally limited to one artist.
func (s *SeriesService) List(artistID uint) ([]db.Series, error) {
	query := s.db.Model(&db.Series{}).
		Select("series.*, COUNT(artworks.id) AS artwork_count").
		Joins("LEFT JOIN artworks ON artworks.series_id = series.id AND artworks.deleted_at IS NULL").
		Group("series.id").
		Order("series.title asc").
		Order("series.id asc")
	if artistID != 0 {
		query = query.Where("series.artist_id = ?", artistID)
	}

	var items []db.Series
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a series with its artworks ordered by source date.
func (s *SeriesService) Get(id uint) (*db.Series, error) {
	var series db.Series
	if err := s.db.
		Preload("Artworks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("source_date asc, id asc")
		}).
		Preload("Artist").
		First(&series, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	series.ArtworkCount = int64(len(series.Artworks))
	return &series, nil
}

// Create inserts a new series for an artist.
func (s *SeriesService) Create(input SeriesInput) (*db.Series, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrSeriesTitleRequired
	}

	var artist db.Artist
	if err := s.db.Select("id").First(&artist, input.ArtistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}

	series := db.Series{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		ArtistID:    input.ArtistID,
	}
	if err := s.db.Create(&series).Error; err != nil {
		return nil, err
	}
	return &series, nil
}

// Update modifies series title and description.
func (s *SeriesService) Update(id uint, input SeriesInput) (*db.Series, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrSeriesTitleRequired
	}

	var series db.Series
	if err := s.db.First(&series, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}

	series.Title = title
	series.Description = strings.TrimSpace(input.Description)

	if err := s.db.Save(&series).Error; err != nil {
		return nil, err
	}
	return &series, nil
}

// Delete removes a series and detaches its artworks.
func (s *SeriesService) Delete(id uint) error {
	var series db.Series
	if err := s.db.First(&series, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeriesNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Artwork{}).
			Where("series_id = ?", id).
			Update("series_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&series).Error
	})
}

// AssignArtwork puts an artwork into a series.
// 同一系列只收录同一画师的作品。
func (s *SeriesService) AssignArtwork(seriesID, artworkID uint) error {
	var series db.Series
	if err := s.db.First(&series, seriesID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeriesNotFound
		}
		return err
	}

	var artwork db.Artwork
	if err := s.db.First(&artwork, artworkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtworkNotFound
		}
		return err
	}

	if artwork.ArtistID != series.ArtistID {
		return ErrSeriesArtistMixed
	}

	return s.db.Model(&artwork).Update("series_id", seriesID).Error
}

// RemoveArtwork detaches an artwork from its series.
func (s *SeriesService) RemoveArtwork(artworkID uint) error {
	var artwork db.Artwork
	if err := s.db.First(&artwork, artworkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtworkNotFound
		}
		return err
	}
	return s.db.Model(&artwork).Update("series_id", nil).Error
}
