package model

import (
	"encoding/json"
	"time"
)

// RecipeBook is a named collection of recipes with its own cover, tags and
// publish state. Membership is many-to-many; the member list is loaded and
// saved explicitly by the repository.
type RecipeBook struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(127);not null" json:"name"`
	UserID      string     `gorm:"type:varchar(36);index;not null" json:"-"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	CoverID     *string    `gorm:"type:varchar(36)" json:"-"`

	CreatedBy UserRef  `gorm:"-" json:"created_by"`
	Cover     *Picture `gorm:"-" json:"cover"`
	Recipes   []Recipe `gorm:"-" json:"recipes"`
}

// Published reports whether the book has left the draft state.
func (b *RecipeBook) Published() bool {
	return b.PublishedAt != nil
}

// MarshalJSON adds the derived published flag to the wire form.
func (b RecipeBook) MarshalJSON() ([]byte, error) {
	type alias RecipeBook
	return json.Marshal(struct {
		alias
		Published bool `json:"published"`
	}{alias(b), b.Published()})
}

// RecipeBookRecipe is the book/recipe join row. Deleting a recipe removes
// its join rows so no orphaned membership remains.
type RecipeBookRecipe struct {
	RecipeBookID uint `gorm:"primaryKey;autoIncrement:false"`
	RecipeID     uint `gorm:"primaryKey;autoIncrement:false"`
}
