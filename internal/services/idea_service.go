package services

import (
	"errors"
	"fmt"
	"time"

	"ideahub/internal/models"
	"ideahub/internal/utils"

	"gorm.io/gorm"
)

// toggleAttempts bounds the optimistic-lock retry loop in ToggleVote.
const toggleAttempts = 5

// IdeaService is the persistence layer for ideas plus the vote workflow.
type IdeaService struct {
	db *gorm.DB
}

func NewIdeaService(gdb *gorm.DB) *IdeaService {
	return &IdeaService{db: gdb}
}

// Get loads a single idea with its author.
func (s *IdeaService) Get(id uint) (*models.Idea, error) {
	var idea models.Idea
	if err := s.db.Preload("Author").First(&idea, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &idea, nil
}

// List returns all ideas, most voted first.
func (s *IdeaService) List() ([]models.Idea, error) {
	var ideas []models.Idea
	err := s.db.Preload("Author").
		Order("vote_count DESC, created_at DESC").
		Find(&ideas).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ideas, nil
}

// Create inserts a new idea owned by authorID. DateWritten is fixed here and
// never touched again.
func (s *IdeaService) Create(authorID uint, name, content string) (*models.Idea, error) {
	idea := models.Idea{
		Name:        name,
		Content:     content,
		DateWritten: time.Now().UTC().Truncate(24 * time.Hour),
		AuthorID:    &authorID,
	}
	if err := s.db.Create(&idea).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &idea, nil
}

// Update changes name and content only. Ownership must already be checked by
// the caller; votes and DateWritten are left alone.
func (s *IdeaService) Update(idea *models.Idea, name, content string) error {
	err := s.db.Model(idea).Select("name", "content").
		Updates(models.Idea{Name: name, Content: content}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	idea.Name = name
	idea.Content = content
	return nil
}

// Delete removes the idea permanently.
func (s *IdeaService) Delete(idea *models.Idea) error {
	if err := s.db.Delete(idea).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// ToggleVote flips userID's vote on the idea and returns the new vote count.
// A user appearing in the voter set is removed, anyone else is added; calling
// twice restores the original state.
//
// The voter set and the count are written in one UPDATE guarded by the idea's
// version column, so they can never disagree and two concurrent toggles on
// the same idea cannot lose each other: the loser of the race re-reads and
// tries again.
func (s *IdeaService) ToggleVote(ideaID, userID uint) (int, error) {
	voter := utils.UintToString(userID)

	for attempt := 0; attempt < toggleAttempts; attempt++ {
		var idea models.Idea
		if err := s.db.First(&idea, ideaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrIdeaNotFound
			}
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		voters := utils.DecodeVoters(idea.Voters)
		next := make([]string, 0, len(voters)+1)
		voted := false
		for _, v := range voters {
			if v == voter {
				voted = true
				continue
			}
			next = append(next, v)
		}
		if !voted {
			next = append(next, voter)
		}

		res := s.db.Model(&models.Idea{}).
			Where("id = ? AND version = ?", idea.ID, idea.Version).
			Updates(map[string]interface{}{
				"voters":     utils.EncodeVoters(next),
				"vote_count": len(next),
				"version":    idea.Version + 1,
			})
		if res.Error != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, res.Error)
		}
		if res.RowsAffected == 1 {
			return len(next), nil
		}
		// Version moved under us, re-read and retry
	}

	return 0, fmt.Errorf("%w: vote toggle kept conflicting on idea %d", ErrPersistence, ideaID)
}
