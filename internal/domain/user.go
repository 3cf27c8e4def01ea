package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is a creator who logged in through TikTok. TikTokUserID (the
// provider's open_id) is the sole de-duplication key.
type User struct {
	ID                 string    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TikTokUserID       string    `gorm:"column:tiktok_user_id;uniqueIndex;not null" json:"tiktok_user_id"`
	DisplayName        string    `gorm:"column:display_name;not null" json:"display_name"`
	Username           string    `gorm:"column:username;not null" json:"username"`
	AvatarURL          *string   `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	LanguagePreference string    `gorm:"column:language_preference;default:es" json:"language_preference"`
	CreatorCategory    *string   `gorm:"column:creator_category" json:"creator_category,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

const (
	DefaultDisplayName = "TikTok User"
	DefaultLanguage    = "es"
)

// NewUserFromProvider builds a first-login row, synthesizing fallbacks for
// fields the provider omitted.
func NewUserFromProvider(openID, displayName, username, avatarURL string) *User {
	user := &User{
		TikTokUserID:       openID,
		DisplayName:        displayName,
		Username:           username,
		LanguagePreference: DefaultLanguage,
	}
	if user.DisplayName == "" {
		user.DisplayName = DefaultDisplayName
	}
	if user.Username == "" {
		user.Username = SynthesizeUsername(openID)
	}
	if avatarURL != "" {
		user.AvatarURL = &avatarURL
	}
	return user
}

// ApplyProviderUpdate overwrites mutable profile fields with fresh provider
// data, keeping the stored value when the provider returned empty.
func (u *User) ApplyProviderUpdate(displayName, username, avatarURL string) {
	if displayName != "" {
		u.DisplayName = displayName
	}
	if username != "" {
		u.Username = username
	}
	if avatarURL != "" {
		u.AvatarURL = &avatarURL
	}
}

// SynthesizeUsername derives a placeholder handle from the provider id.
func SynthesizeUsername(openID string) string {
	id := openID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("user_%s", id)
}

// CategoryOrDefault returns the stored category, falling back when unset.
func (u *User) CategoryOrDefault(fallback string) string {
	if u.CreatorCategory != nil && strings.TrimSpace(*u.CreatorCategory) != "" {
		return *u.CreatorCategory
	}
	return fallback
}

// LanguageOrDefault returns the stored language preference, falling back
// when unset.
func (u *User) LanguageOrDefault(fallback string) string {
	if strings.TrimSpace(u.LanguagePreference) != "" {
		return u.LanguagePreference
	}
	return fallback
}
