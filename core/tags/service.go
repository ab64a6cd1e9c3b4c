package tags

import (
	"fmt"

	"github.com/pombreda/soundforest/core/models"
	"github.com/pombreda/soundforest/core/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service reconciles tag data across sources.
type Service struct {
	store  *store.Store
	logger *zap.Logger
}

// NewService creates the tag reconciliation service.
func NewService(s *store.Store, logger *zap.Logger) *Service {
	return &Service{store: s, logger: logger}
}

// PutTags replaces the tag set for exactly the (track, source) pair. Tags
// held by other sources for the same track are never touched. Names are
// normalized into the standard vocabulary; order and duplicates are
// preserved.
func (s *Service) PutTags(trackID uint, source string, tagList []Tag) error {
	if source == "" {
		source = models.SourceFilesystem
	}
	if _, err := s.store.TrackByID(trackID); err != nil {
		return err
	}

	return s.store.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("track_id = ? AND source = ?", trackID, source).Delete(&models.TagEntry{}).Error; err != nil {
			return err
		}
		for i, t := range tagList {
			entry := models.TagEntry{
				TrackID:  trackID,
				Source:   source,
				Name:     NormalizeName(t.Name),
				Value:    t.Value,
				Position: i,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Compare returns the track's tag sets grouped by source, for inspection.
// It never modifies anything.
func (s *Service) Compare(trackID uint) (map[string][]Tag, error) {
	var entries []models.TagEntry
	err := s.store.DB().
		Where("track_id = ?", trackID).
		Order("source, position").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string][]Tag)
	for _, e := range entries {
		result[e.Source] = append(result[e.Source], Tag{Name: e.Name, Value: e.Value})
	}
	return result, nil
}

// Sources lists the sources holding tag data for a track.
func (s *Service) Sources(trackID uint) ([]string, error) {
	var sources []string
	err := s.store.DB().Model(&models.TagEntry{}).
		Where("track_id = ?", trackID).
		Distinct("source").
		Order("source").
		Pluck("source", &sources).Error
	if err != nil {
		return nil, err
	}
	return sources, nil
}

// Merge copies the selected fields of fromSource's tag set into intoSource's,
// replacing intoSource's values for those fields only. It is the single,
// explicit way two sources ever mix; synchronization never calls it.
func (s *Service) Merge(trackID uint, fromSource, intoSource string, fields []string) error {
	if fromSource == intoSource {
		return fmt.Errorf("merge source and target are both %q", fromSource)
	}
	wanted := make(map[string]bool, len(fields))
	for _, f := range fields {
		wanted[NormalizeName(f)] = true
	}

	return s.store.DB().Transaction(func(tx *gorm.DB) error {
		var fromEntries []models.TagEntry
		err := tx.Where("track_id = ? AND source = ?", trackID, fromSource).
			Order("position").
			Find(&fromEntries).Error
		if err != nil {
			return err
		}

		var selected []models.TagEntry
		for _, e := range fromEntries {
			if len(wanted) == 0 || wanted[e.Name] {
				selected = append(selected, e)
			}
		}
		if len(selected) == 0 {
			return fmt.Errorf("source %q has no matching fields for track #%d: %w", fromSource, trackID, store.ErrNotFound)
		}

		// Replace only the merged field names in the target source.
		names := make([]string, 0, len(selected))
		seen := make(map[string]bool)
		for _, e := range selected {
			if !seen[e.Name] {
				seen[e.Name] = true
				names = append(names, e.Name)
			}
		}
		err = tx.Where("track_id = ? AND source = ? AND name IN ?", trackID, intoSource, names).
			Delete(&models.TagEntry{}).Error
		if err != nil {
			return err
		}

		var next int64
		err = tx.Model(&models.TagEntry{}).
			Where("track_id = ? AND source = ?", trackID, intoSource).
			Count(&next).Error
		if err != nil {
			return err
		}
		for i, e := range selected {
			copyEntry := models.TagEntry{
				TrackID:  trackID,
				Source:   intoSource,
				Name:     e.Name,
				Value:    e.Value,
				Position: int(next) + i,
			}
			if err := tx.Create(&copyEntry).Error; err != nil {
				return err
			}
		}

		s.logger.Info("Merged tag fields",
			zap.Uint("track_id", trackID),
			zap.String("from", fromSource),
			zap.String("into", intoSource),
			zap.Int("fields", len(names)))
		return nil
	})
}
