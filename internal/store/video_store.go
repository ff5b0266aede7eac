package store

import (
	"errors"
	"time"

	"glowup/server/internal/model"

	"gorm.io/gorm"
)

func (s *Store) CreateVideo(v model.Video) (model.Video, error) {
	if err := s.db.Create(&v).Error; err != nil {
		return model.Video{}, err
	}
	return v, nil
}

func (s *Store) GetVideo(id string) (model.Video, error) {
	var v model.Video
	if err := s.db.First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Video{}, ErrNotFound
		}
		return model.Video{}, err
	}
	return v, nil
}

func (s *Store) ListVideosByUser(userID string) ([]model.Video, error) {
	out := []model.Video{}
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetVideoStatus writes the status field unconditionally. A blind update that
// matches no row is not an error; the caller that scheduled work against a
// missing id finds out later, through the job's own lookup.
func (s *Store) SetVideoStatus(id string, status model.VideoStatus) error {
	oldStatus, known := s.currentStatus(id)
	res := s.db.Model(&model.Video{}).Where("id = ?", id).Updates(map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if known && res.RowsAffected > 0 {
		s.notify(id, oldStatus)
	}
	return nil
}

// CompleteVideo writes the terminal success state together with the output
// URLs. No check against the prior status; the last finished job wins.
func (s *Store) CompleteVideo(id, processedURL, thumbnailURL string, effect model.VideoEffect) error {
	before, err := s.GetVideo(id)
	if err != nil {
		return err
	}
	res := s.db.Model(&model.Video{}).Where("id = ?", id).Updates(map[string]any{
		"status":        model.StatusCompleted,
		"processed_url": processedURL,
		"thumbnail_url": thumbnailURL,
		"effect":        effect,
		"updated_at":    time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	s.notify(id, before.Status)
	return nil
}

// IncrementViewCount bumps view_count by one inside the database, the only
// write here that relies on an atomic primitive rather than a blind update.
func (s *Store) IncrementViewCount(id string) error {
	before, err := s.GetVideo(id)
	if err != nil {
		return err
	}
	res := s.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.notify(id, before.Status)
	return nil
}

func (s *Store) InsertViewEvent(ev model.ViewEvent) error {
	return s.db.Create(&ev).Error
}

func (s *Store) ListViewEvents(videoID string) ([]model.ViewEvent, error) {
	out := []model.ViewEvent{}
	err := s.db.Where("video_id = ?", videoID).
		Order("viewed_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListStaleProcessing returns rows that have sat in processing since before
// the cutoff, candidates for the maintenance sweep.
func (s *Store) ListStaleProcessing(cutoff time.Time) ([]model.Video, error) {
	out := []model.Video{}
	err := s.db.Where("status = ? AND updated_at < ?", model.StatusProcessing, cutoff).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CountVideosByStatus() (map[model.VideoStatus]int64, error) {
	type row struct {
		Status model.VideoStatus
		N      int64
	}
	rows := []row{}
	err := s.db.Model(&model.Video{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := map[model.VideoStatus]int64{}
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}

func (s *Store) currentStatus(id string) (model.VideoStatus, bool) {
	v, err := s.GetVideo(id)
	if err != nil {
		return "", false
	}
	return v.Status, true
}
