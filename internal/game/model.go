package game

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryStory       Category = "story"
	CategoryExploration Category = "exploration"
	CategoryGameplay    Category = "gameplay"
	CategoryCompletion  Category = "completion"
	CategoryAchievement Category = "achievement"
	CategoryTutorial    Category = "tutorial"
	CategoryProgression Category = "progression"
	CategoryOther       Category = "other"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// PlaceholderTitle marks the sentinel milestone shown when a game has no
// generated milestones yet. A match result consisting of only this entry
// bypasses the confirmation flow.
const PlaceholderTitle = "No milestones yet"

type Game struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index"`
	Title     string         `json:"title" gorm:"not null"`
	Platform  string         `json:"platform"`
	Genres    datatypes.JSON `json:"genres"`
	Progress  float64        `json:"progress" gorm:"default:0"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Milestones []Milestone   `json:"-" gorm:"foreignKey:GameID"`
	Notes      []Note        `json:"-" gorm:"foreignKey:GameID"`
}

type Milestone struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	GameID        uint       `json:"game_id" gorm:"index"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description"`
	Action        string     `json:"action"`
	Category      Category   `json:"category" gorm:"type:varchar(16);default:'other'"`
	Difficulty    Difficulty `json:"difficulty" gorm:"type:varchar(10);default:'medium'"`
	EstimatedTime int        `json:"estimated_time"` // minutes
	Completed     bool       `json:"completed" gorm:"default:false"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	// TriggeredByNoteID is the authoritative link to the note that completed
	// this milestone. TriggeredByNote keeps the raw note text for display and
	// for rows written before the id link existed.
	TriggeredByNoteID string    `json:"triggered_by_note_id" gorm:"index;size:36"`
	TriggeredByNote   string    `json:"triggered_by_note"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Note struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	GameID        uint      `json:"game_id" gorm:"index"`
	Text          string    `json:"text" gorm:"not null"`
	Date          time.Time `json:"date"`
	HoursPlayed   float64   `json:"hours_played"`
	MinutesPlayed float64   `json:"minutes_played"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsPlaceholder reports whether the milestone is the no-milestones sentinel.
func (m *Milestone) IsPlaceholder() bool {
	return m.Title == PlaceholderTitle
}

// NewPlaceholder returns the sentinel row stored while a game has no real
// milestones. It is removed as soon as the first real milestone arrives.
func NewPlaceholder(gameID uint) Milestone {
	return Milestone{
		ID:          uuid.New().String(),
		GameID:      gameID,
		Title:       PlaceholderTitle,
		Description: "Add a milestone or generate a starter set to begin tracking",
		Category:    CategoryOther,
		Difficulty:  DifficultyEasy,
	}
}

// WithoutPlaceholders filters the sentinel out of a milestone list.
func WithoutPlaceholders(milestones []Milestone) []Milestone {
	out := make([]Milestone, 0, len(milestones))
	for i := range milestones {
		if !milestones[i].IsPlaceholder() {
			out = append(out, milestones[i])
		}
	}
	return out
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryStory, CategoryExploration, CategoryGameplay, CategoryCompletion,
		CategoryAchievement, CategoryTutorial, CategoryProgression, CategoryOther:
		return true
	}
	return false
}

func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}
