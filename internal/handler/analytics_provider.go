package handler

import (
	"time"

	"github.com/artvault/internal/db"
	"github.com/artvault/internal/service"
)

type analyticsProvider interface {
	Overview(limit int) (service.SiteOverview, error)
	ArtworkStatsMap(artworkIDs []uint) (map[uint]*db.ArtworkStatistic, error)
	RecordArtworkView(artworkID uint, visitorID string, now time.Time) (*db.ArtworkStatistic, error)
}
