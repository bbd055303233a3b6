package model

// IngredientUnit is the measuring unit of an ingredient quantity.
type IngredientUnit string

const (
	UnitMilliliter IngredientUnit = "ml"
	UnitLiter      IngredientUnit = "l"
	UnitMilligram  IngredientUnit = "mg"
	UnitGram       IngredientUnit = "g"
	UnitKilogram   IngredientUnit = "kg"
)

// Valid reports whether u is one of the known ingredient units.
func (u IngredientUnit) Valid() bool {
	switch u {
	case UnitMilliliter, UnitLiter, UnitMilligram, UnitGram, UnitKilogram:
		return true
	}
	return false
}

// RecipeUnit qualifies the serving number of a recipe.
type RecipeUnit string

const (
	UnitServing RecipeUnit = "SERVING"
	UnitPerson  RecipeUnit = "PERSON"
	UnitPiece   RecipeUnit = "PIECE"
)

// Valid reports whether u is one of the known recipe units.
func (u RecipeUnit) Valid() bool {
	switch u {
	case UnitServing, UnitPerson, UnitPiece:
		return true
	}
	return false
}

// Ingredient is a catalog row, keyed by its exact name. Rows are created
// lazily on first use and never updated afterwards.
type Ingredient struct {
	Name        string         `gorm:"type:varchar(63);primaryKey" json:"name"`
	DefaultUnit IngredientUnit `gorm:"type:varchar(8);not null" json:"default_unit"`
}

// Tool is a catalog row with the same find-or-create semantics as Ingredient.
type Tool struct {
	Name string `gorm:"type:varchar(63);primaryKey" json:"name"`
}
