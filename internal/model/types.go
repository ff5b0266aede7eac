package model

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         UserRole  `gorm:"size:16;default:user" json:"role"`
	Status       string    `gorm:"size:16;default:active" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type RefreshToken struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"index;size:36"`
	TokenHash string `gorm:"size:64"`
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

type VideoStatus string

const (
	StatusPending    VideoStatus = "pending"
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusError      VideoStatus = "error"
)

// IsTerminal reports whether no further automatic transition is defined.
func (s VideoStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

type VideoEffect string

const (
	EffectEnhance   VideoEffect = "enhance"
	EffectCinematic VideoEffect = "cinematic"
	EffectPortrait  VideoEffect = "portrait"
	EffectVintage   VideoEffect = "vintage"
)

func (e VideoEffect) Valid() bool {
	switch e {
	case EffectEnhance, EffectCinematic, EffectPortrait, EffectVintage:
		return true
	}
	return false
}

// Label returns the display name used in notifications and badges.
func (e VideoEffect) Label() string {
	switch e {
	case EffectCinematic:
		return "Cinematic"
	case EffectPortrait:
		return "Portrait Focus"
	case EffectVintage:
		return "Vintage"
	default:
		return "Enhanced"
	}
}

// Video is one uploaded video and its processing lifecycle. The row is both
// the persisted shape and the wire shape returned to clients.
type Video struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	UserID       string      `gorm:"index;size:36;not null" json:"user_id"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description,omitempty"`
	Status       VideoStatus `gorm:"size:16;index;default:pending" json:"status"`
	Effect       VideoEffect `gorm:"size:16;default:enhance" json:"effect"`
	OriginalURL  string      `gorm:"type:text" json:"original_url,omitempty"`
	ProcessedURL string      `gorm:"type:text" json:"processed_url,omitempty"`
	ThumbnailURL string      `gorm:"type:text" json:"thumbnail_url,omitempty"`
	ViewCount    int64       `gorm:"default:0" json:"view_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (Video) TableName() string { return "videos" }

// ViewEvent is an immutable record of one playback, written only by the view
// recorder. Never updated or deleted.
type ViewEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	VideoID   string    `gorm:"index;size:36;not null" json:"video_id"`
	ViewedAt  time.Time `json:"viewed_at"`
	ClientIP  string    `gorm:"size:64" json:"client_ip"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
	Country   string    `gorm:"size:8" json:"country,omitempty"`
}

func (ViewEvent) TableName() string { return "video_analytics" }

// VideoUpdate is the row-change notification fanned out to subscribers after
// a video mutation. OldStatus carries the pre-write status so listeners can
// detect the processing -> completed edge.
type VideoUpdate struct {
	OldStatus VideoStatus `json:"old_status"`
	Video     Video       `json:"video"`
}
