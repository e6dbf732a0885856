package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// FlexInt accepts a JSON number or a numeric string such as "20" or "20 minutes"
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexInt(math.Round(num))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		fields := strings.Fields(str)
		if len(fields) == 0 {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", str)
		}
		*f = FlexInt(math.Round(n))
		return nil
	}

	if string(data) == "null" {
		*f = 0
		return nil
	}
	return fmt.Errorf("invalid number format")
}

// flexIngredient accepts "200g rice" or {"name": "rice", "qty": "200g"}
type flexIngredient string

func (i *flexIngredient) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*i = flexIngredient(str)
		return nil
	}

	var obj struct {
		Name string `json:"name"`
		Qty  string `json:"qty"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*i = flexIngredient(strings.TrimSpace(obj.Qty + " " + obj.Name))
		return nil
	}
	return fmt.Errorf("invalid ingredient format")
}

type chefStep struct {
	StepNumber          FlexInt `json:"step_number"`
	Instruction         string  `json:"instruction"`
	DurationSeconds     FlexInt `json:"duration_seconds"`
	RequiresVisualCheck bool    `json:"requires_visual_check"`
}

type chefRecipe struct {
	DishName         string           `json:"dish_name"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	ChefComment      string           `json:"chef_comment"`
	Ingredients      []flexIngredient `json:"ingredients"`
	Steps            []chefStep       `json:"steps"`
	TotalTimeMinutes FlexInt          `json:"total_time_minutes"`
	EffortScore      float64          `json:"effort_score"`
}

var errEmptyRecipe = errors.New("response has no dish name")

func (r chefRecipe) toRecipe() (*types.Recipe, error) {
	name := strings.TrimSpace(r.DishName)
	if name == "" {
		name = strings.TrimSpace(r.Title)
	}
	if name == "" {
		return nil, errEmptyRecipe
	}

	description := r.Description
	if description == "" {
		description = r.ChefComment
	}

	out := &types.Recipe{
		DishName:         name,
		Description:      description,
		Ingredients:      make([]string, 0, len(r.Ingredients)),
		Steps:            make([]models.CookingStep, 0, len(r.Steps)),
		TotalTimeMinutes: int(r.TotalTimeMinutes),
		EffortScore:      r.EffortScore,
	}
	for _, ing := range r.Ingredients {
		if s := strings.TrimSpace(string(ing)); s != "" {
			out.Ingredients = append(out.Ingredients, s)
		}
	}

	totalSeconds := 0
	for i, st := range r.Steps {
		if strings.TrimSpace(st.Instruction) == "" {
			continue
		}
		number := int(st.StepNumber)
		if number <= 0 {
			number = i + 1
		}
		duration := int(st.DurationSeconds)
		if duration < 0 {
			duration = 0
		}
		totalSeconds += duration
		out.Steps = append(out.Steps, models.CookingStep{
			StepNumber:          number,
			Instruction:         st.Instruction,
			DurationSeconds:     duration,
			RequiresVisualCheck: st.RequiresVisualCheck,
		})
	}
	if out.TotalTimeMinutes <= 0 && totalSeconds > 0 {
		out.TotalTimeMinutes = (totalSeconds + 59) / 60
	}
	return out, nil
}
