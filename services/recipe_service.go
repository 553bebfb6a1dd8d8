package services

import (
	"errors"
	"strings"
	"time"

	"vitatrack/models"
	"vitatrack/store"
)

// RecipeService is plain CRUD over saved recipes.
type RecipeService struct {
	store   *store.Store
	recipes store.Collection[models.Recipe]
}

func NewRecipeService(s *store.Store) *RecipeService {
	return &RecipeService{store: s, recipes: store.NewCollection[models.Recipe](s)}
}

type RecipeInput struct {
	Name         string  `json:"name" binding:"required"`
	Instructions string  `json:"instructions"`
	Calories     int     `json:"calories"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
}

func (s *RecipeService) Create(userID uint, input RecipeInput) (*models.Recipe, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("recipe needs a name")
	}
	rec := &models.Recipe{
		UserID:       userID,
		CreatedAt:    time.Now().UTC(),
		Name:         input.Name,
		Instructions: input.Instructions,
		Calories:     input.Calories,
		ProteinG:     input.ProteinG,
		CarbsG:       input.CarbsG,
		FatG:         input.FatG,
	}
	if _, err := s.recipes.Put(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RecipeService) List(userID uint) ([]models.Recipe, error) {
	var recs []models.Recipe
	err := s.store.DB().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (s *RecipeService) Get(userID, id uint) (*models.Recipe, error) {
	rec, err := s.recipes.GetByID(id)
	if err != nil || rec == nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, nil
	}
	return rec, nil
}

func (s *RecipeService) Delete(userID, id uint) error {
	return s.store.DB().
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.Recipe{}).Error
}
