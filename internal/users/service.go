package users

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidIdentity indicates the profile did not contain a usable identifier.
var ErrInvalidIdentity = errors.New("users: invalid identity")

// Profile is the caller identity handed down by the transport layer: either a
// verified Farcaster account or a deterministic anonymous fallback.
type Profile struct {
	FarcasterID string
	Username    string
	DisplayName string
}

// AnonymousProfile derives the fallback profile for an unauthenticated device
// identifier, so guests get a stable player id across requests.
func AnonymousProfile(deviceID string) Profile {
	normalized := normalize(deviceID)
	return Profile{
		FarcasterID: anonPrefix + normalized,
		Username:    "anonymous",
		DisplayName: "Anonymous",
	}
}

// FarcasterProfile builds the profile for a verified Farcaster identity.
func FarcasterProfile(fid, username, displayName string) Profile {
	trimmedFid := normalize(fid)
	if username == "" {
		username = fmt.Sprintf("user_%s", trimmedFid)
	}
	if displayName == "" {
		displayName = fmt.Sprintf("User %s", trimmedFid)
	}
	return Profile{
		FarcasterID: trimmedFid,
		Username:    normalize(username),
		DisplayName: normalize(displayName),
	}
}

// ServiceConfig describes the dependencies required for identity resolution.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// Service manages stable user rows keyed by Farcaster (or anonymous) identity.
type Service struct {
	db    *gorm.DB
	now   func() time.Time
	cache sync.Map
}

// NewService constructs the identity service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("users: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		db:  cfg.Database,
		now: clock,
	}, nil
}

// Resolve returns the stable user row for the profile, creating it on first
// sight. Repeat lookups for the same identity are served from an in-process
// cache keyed by the Farcaster id.
func (s *Service) Resolve(profile Profile) (User, error) {
	key := normalize(profile.FarcasterID)
	if key == "" || key == anonPrefix {
		return User{}, ErrInvalidIdentity
	}

	if cached, ok := s.cache.Load(key); ok {
		if user, ok := cached.(User); ok {
			return user, nil
		}
	}

	var user User
	err := s.db.Where("farcaster_id = ?", key).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		id, idErr := uuid.NewV7()
		if idErr != nil {
			return User{}, idErr
		}
		user = User{
			ID:          id.String(),
			FarcasterID: key,
			Username:    normalize(profile.Username),
			DisplayName: normalize(profile.DisplayName),
			LastSeenAt:  s.now(),
		}
		if createErr := s.db.Create(&user).Error; createErr != nil {
			return User{}, createErr
		}
	} else if err != nil {
		return User{}, err
	} else {
		updates := map[string]interface{}{"last_seen_at": s.now()}
		if username := normalize(profile.Username); username != "" && username != user.Username {
			updates["username"] = username
			user.Username = username
		}
		if display := normalize(profile.DisplayName); display != "" && display != user.DisplayName {
			updates["display_name"] = display
			user.DisplayName = display
		}
		_ = s.db.Model(&User{}).Where("farcaster_id = ?", key).Updates(updates).Error
	}

	s.cache.Store(key, user)
	return user, nil
}

// ByID fetches a user row by primary key.
func (s *Service) ByID(userID string) (User, error) {
	var user User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return User{}, err
	}
	return user, nil
}
