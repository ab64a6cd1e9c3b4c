package tags

import (
	"errors"
	"fmt"

	"github.com/pombreda/soundforest/core/models"
	"github.com/pombreda/soundforest/core/store"

	"gorm.io/gorm"
)

// PlaylistDiff is the read-only comparison of two same-named playlists from
// different sources: both member sequences plus their symmetric difference.
// The caller decides whether and how to unify them.
type PlaylistDiff struct {
	Name    string `json:"name"`
	SourceA string `json:"source_a"`
	SourceB string `json:"source_b"`
	TracksA []uint `json:"tracks_a"`
	TracksB []uint `json:"tracks_b"`
	OnlyA   []uint `json:"only_a"`
	OnlyB   []uint `json:"only_b"`
}

// RegisterPlaylist stores an ordered track sequence under (name, source).
// Every track ID must name an existing track; a second registration of the
// same pair fails with store.ErrDuplicateEntry; the same name under a
// different source is a distinct playlist.
func (s *Service) RegisterPlaylist(name, source string, trackIDs []uint) error {
	if source == "" {
		source = models.SourceFilesystem
	}
	for _, id := range trackIDs {
		if _, err := s.store.TrackByID(id); err != nil {
			return err
		}
	}
	return s.store.DB().Transaction(func(tx *gorm.DB) error {
		pl := models.Playlist{Name: name, Source: source}
		if err := tx.Create(&pl).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("playlist %q source %q: %w", name, source, store.ErrDuplicateEntry)
			}
			return err
		}
		for i, id := range trackIDs {
			entry := models.PlaylistEntry{PlaylistID: pl.ID, TrackID: id, Position: i}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UnregisterPlaylist removes the (name, source) playlist and its entries.
func (s *Service) UnregisterPlaylist(name, source string) error {
	pl, err := s.playlist(name, source)
	if err != nil {
		return err
	}
	return s.store.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", pl.ID).Delete(&models.PlaylistEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Playlist{}, pl.ID).Error
	})
}

// PlaylistTracks returns the ordered track IDs of the (name, source)
// playlist.
func (s *Service) PlaylistTracks(name, source string) ([]uint, error) {
	pl, err := s.playlist(name, source)
	if err != nil {
		return nil, err
	}
	var ids []uint
	err = s.store.DB().Model(&models.PlaylistEntry{}).
		Where("playlist_id = ?", pl.ID).
		Order("position").
		Pluck("track_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Playlists lists all playlists, optionally filtered by source.
func (s *Service) Playlists(source string) ([]models.Playlist, error) {
	q := s.store.DB().Order("name, source")
	if source != "" {
		q = q.Where("source = ?", source)
	}
	var lists []models.Playlist
	if err := q.Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// ComparePlaylists compares the same playlist name across two sources. The
// operation is read-only; neither playlist is changed.
func (s *Service) ComparePlaylists(name, sourceA, sourceB string) (*PlaylistDiff, error) {
	tracksA, err := s.PlaylistTracks(name, sourceA)
	if err != nil {
		return nil, err
	}
	tracksB, err := s.PlaylistTracks(name, sourceB)
	if err != nil {
		return nil, err
	}

	diff := &PlaylistDiff{
		Name:    name,
		SourceA: sourceA,
		SourceB: sourceB,
		TracksA: tracksA,
		TracksB: tracksB,
	}

	inA := make(map[uint]bool, len(tracksA))
	for _, id := range tracksA {
		inA[id] = true
	}
	inB := make(map[uint]bool, len(tracksB))
	for _, id := range tracksB {
		inB[id] = true
	}
	for _, id := range tracksA {
		if !inB[id] {
			diff.OnlyA = append(diff.OnlyA, id)
		}
	}
	for _, id := range tracksB {
		if !inA[id] {
			diff.OnlyB = append(diff.OnlyB, id)
		}
	}
	return diff, nil
}

func (s *Service) playlist(name, source string) (*models.Playlist, error) {
	var pl models.Playlist
	err := s.store.DB().Where("name = ? AND source = ?", name, source).First(&pl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("playlist %q source %q: %w", name, source, store.ErrNotFound)
		}
		return nil, err
	}
	return &pl, nil
}
