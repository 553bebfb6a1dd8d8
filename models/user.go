package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Goal is the user's primary training objective.
type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalGainMuscle Goal = "gain_muscle"
	GoalMaintain   Goal = "maintain"
)

// Valid reports whether g is one of the known goals. The empty string is
// accepted so partial updates can leave the goal untouched.
func (g Goal) Valid() bool {
	switch g {
	case "", GoalLoseWeight, GoalGainMuscle, GoalMaintain:
		return true
	}
	return false
}

// GymRole is the role a user holds inside an affiliated gym.
type GymRole string

const (
	GymRoleAdmin   GymRole = "admin"
	GymRoleTrainer GymRole = "trainer"
	GymRoleStudent GymRole = "student"
)

type User struct {
	gorm.Model
	Name         string
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	Age      int
	Gender   string `gorm:"size:16"`
	WeightKg float64
	HeightCm float64
	Goal     Goal `gorm:"size:32;default:'maintain'"`

	// Gamification
	Points              int
	DisciplineScore     int
	CompletedChallenges string `gorm:"type:text"` // comma-separated challenge IDs

	// Privacy
	Anonymized       bool
	SharedCategories string `gorm:"type:text"` // comma-separated data categories

	// Security / preferences
	BiometricEnabled     bool
	NotificationsEnabled bool `gorm:"default:true"`

	// Usage limits (rolling counters; always run the rollover check before reading)
	ReportsThisWeek     int
	ReportsResetAt      time.Time
	PhotosAnalyzedToday int
	LastPhotoAnalysisAt time.Time

	// Gym affiliation
	GymID      string  `gorm:"index:idx_users_gym"`
	GymRole    GymRole `gorm:"size:16;index:idx_users_gym"`
	GymManaged bool

	// Access control; the gym server is authoritative for these fields only
	AccessBlocked bool
	BlockedReason string
	BlockedBy     string
	BlockedAt     *time.Time
	LastGymSyncAt *time.Time
}

// ChallengeCompleted reports whether the given challenge ID is already recorded.
func (u *User) ChallengeCompleted(id string) bool {
	for _, c := range strings.Split(u.CompletedChallenges, ",") {
		if strings.TrimSpace(c) == id {
			return true
		}
	}
	return false
}

// AddChallenge appends a challenge ID, keeping the list free of duplicates.
func (u *User) AddChallenge(id string) {
	if id == "" || u.ChallengeCompleted(id) {
		return
	}
	if u.CompletedChallenges == "" {
		u.CompletedChallenges = id
		return
	}
	u.CompletedChallenges += "," + id
}
