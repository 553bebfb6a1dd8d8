package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// FoodService wraps the Edamam food database API. It is optional: without
// credentials Configured() is false and callers skip the nutrient lookup.
type FoodService struct {
	foodAppID, foodAppKey   string
	nutriAppID, nutriAppKey string
	client                  *http.Client
}

func NewFoodService() *FoodService {
	return &FoodService{
		foodAppID:   os.Getenv("EDAMAM_APP_ID"),
		foodAppKey:  os.Getenv("EDAMAM_APP_KEY"),
		nutriAppID:  os.Getenv("EDAMAM_NUTRI_APP_ID"),
		nutriAppKey: os.Getenv("EDAMAM_NUTRI_APP_KEY"),
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *FoodService) Configured() bool {
	return s.foodAppID != "" && s.foodAppKey != ""
}

// FoodHit is one match from the food database parser.
type FoodHit struct {
	FoodID   string  `json:"food_id"`
	Label    string  `json:"label"`
	Category string  `json:"category"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

type foodParserResponse struct {
	Hints []struct {
		Food struct {
			FoodID    string `json:"foodId"`
			Label     string `json:"label"`
			Category  string `json:"category"`
			Nutrients struct {
				Calories float64 `json:"ENERC_KCAL"`
				Protein  float64 `json:"PROCNT"`
				Fat      float64 `json:"FAT"`
				Carbs    float64 `json:"CHOCDF"`
			} `json:"nutrients"`
		} `json:"food"`
	} `json:"hints"`
}

// SearchFoods calls the Edamam parser endpoint for free-text food queries.
func (s *FoodService) SearchFoods(query string) ([]FoodHit, error) {
	u := fmt.Sprintf(
		"https://api.edamam.com/api/food-database/v2/parser?ingr=%s&app_id=%s&app_key=%s",
		url.QueryEscape(query), s.foodAppID, s.foodAppKey,
	)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call Edamam parser: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Edamam parser response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam parser API error %d: %s", resp.StatusCode, string(body))
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse Edamam parser JSON: %w", err)
	}

	results := make([]FoodHit, 0, len(pr.Hints))
	for _, h := range pr.Hints {
		results = append(results, FoodHit{
			FoodID:   h.Food.FoodID,
			Label:    h.Food.Label,
			Category: h.Food.Category,
			Calories: h.Food.Nutrients.Calories,
			ProteinG: h.Food.Nutrients.Protein,
			CarbsG:   h.Food.Nutrients.Carbs,
			FatG:     h.Food.Nutrients.Fat,
		})
	}
	return results, nil
}

type nutritionResponse struct {
	TotalNutrients map[string]struct {
		Quantity float64 `json:"quantity"`
	} `json:"totalNutrients"`
}

// Nutrients calls the nutrition analysis endpoint for a single ingredient
// and flattens the answer to nutrient code -> quantity.
func (s *FoodService) Nutrients(foodID, measureURI string, qty float64) (map[string]float64, error) {
	payload := map[string]any{
		"ingredients": []map[string]any{{
			"quantity":   qty,
			"measureURI": measureURI,
			"foodId":     foodID,
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nutrition payload: %w", err)
	}

	u := fmt.Sprintf(
		"https://api.edamam.com/api/food-database/v2/nutrients?app_id=%s&app_key=%s",
		s.nutriAppID, s.nutriAppKey,
	)

	req, err := http.NewRequest("POST", u, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create nutrition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Edamam nutrition API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam nutrition API error %d: %s", resp.StatusCode, string(body))
	}

	var nr nutritionResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition JSON: %w", err)
	}

	nut := make(map[string]float64, len(nr.TotalNutrients))
	for k, v := range nr.TotalNutrients {
		nut[k] = v.Quantity
	}
	return nut, nil
}
