package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList stores an ordered list of strings as a JSON text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	}
	return errors.New("unsupported type for StringList")
}

// Recipe is the aggregate root. Child collections are tagged gorm:"-" and
// are loaded and saved explicitly by the repository inside one transaction.
type Recipe struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	UserID      string     `gorm:"type:varchar(36);index;not null" json:"-"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at"`
	Rating      int        `gorm:"not null;default:0" json:"rating"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	Number      int        `gorm:"not null" json:"number"`
	Unit        RecipeUnit `gorm:"type:varchar(16);not null" json:"unit"`
	CoverID     *string    `gorm:"type:varchar(36)" json:"-"`

	CreatedBy  UserRef           `gorm:"-" json:"created_by"`
	Cover      *Picture          `gorm:"-" json:"cover"`
	Pictures   []Picture         `gorm:"-" json:"pictures"`
	Components []RecipeComponent `gorm:"-" json:"components"`
	Steps      []RecipeStep      `gorm:"-" json:"steps"`
	Tools      []RecipeTool      `gorm:"-" json:"tools"`
}

// Published reports whether the recipe has left the draft state.
// The transition is one-way: PublishedAt is never cleared.
func (r *Recipe) Published() bool {
	return r.PublishedAt != nil
}

// MarshalJSON adds the derived published flag to the wire form.
func (r Recipe) MarshalJSON() ([]byte, error) {
	type alias Recipe
	return json.Marshal(struct {
		alias
		Published bool `json:"published"`
	}{alias(r), r.Published()})
}

// RecipeComponent is an ordered part of a recipe (e.g. dough, filling).
// Position within the recipe is the Index column, assigned from the
// submitted list order.
type RecipeComponent struct {
	RecipeID    uint   `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Index       int    `gorm:"primaryKey;autoIncrement:false" json:"index"`
	Name        string `gorm:"type:varchar(127);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Ingredients []ComponentIngredient `gorm:"-" json:"ingredients"`
}

// ComponentIngredient is one quantified ingredient line of a component.
type ComponentIngredient struct {
	RecipeID       uint           `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ComponentIndex int            `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Index          int            `gorm:"primaryKey;autoIncrement:false" json:"index"`
	IngredientName string         `gorm:"type:varchar(63);primaryKey" json:"name"`
	Value          float64        `gorm:"not null" json:"value"`
	Unit           IngredientUnit `gorm:"type:varchar(8);not null" json:"unit"`
	Hint           string         `gorm:"type:varchar(127)" json:"hint"`
}

// RecipeStep is one ordered preparation step, optionally illustrated.
type RecipeStep struct {
	RecipeID    uint    `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Index       int     `gorm:"primaryKey;autoIncrement:false" json:"index"`
	Description string  `gorm:"type:text;not null" json:"description"`
	PictureID   *string `gorm:"type:varchar(36)" json:"-"`

	Picture     *Picture         `gorm:"-" json:"picture"`
	Ingredients []StepIngredient `gorm:"-" json:"ingredients"`
}

// StepIngredient mirrors ComponentIngredient one level over.
type StepIngredient struct {
	RecipeID       uint           `gorm:"primaryKey;autoIncrement:false" json:"-"`
	StepIndex      int            `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Index          int            `gorm:"primaryKey;autoIncrement:false" json:"index"`
	IngredientName string         `gorm:"type:varchar(63);primaryKey" json:"name"`
	Value          float64        `gorm:"not null" json:"value"`
	Unit           IngredientUnit `gorm:"type:varchar(8);not null" json:"unit"`
	Hint           string         `gorm:"type:varchar(127)" json:"hint"`
}

// RecipeTool links a recipe to a catalog tool with a free-text hint.
// The tool list carries no positional semantics and is fully rebuilt on
// every patch.
type RecipeTool struct {
	RecipeID uint   `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ToolName string `gorm:"type:varchar(63);primaryKey" json:"name"`
	Hint     string `gorm:"type:varchar(127)" json:"hint"`
}

// RecipePicture is the recipe/picture join row.
type RecipePicture struct {
	RecipeID  uint   `gorm:"primaryKey;autoIncrement:false"`
	PictureID string `gorm:"type:varchar(36);primaryKey"`
}

// RecipeAssessment stores one user's rating of a recipe. The recipe row
// keeps the rounded average.
type RecipeAssessment struct {
	RecipeID uint   `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	UserID   string `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	Rating   int    `gorm:"not null" json:"rating"`
}
