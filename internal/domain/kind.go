package domain

import "strings"

// Kind identifies one of the versioned content kinds managed by the catalog.
type Kind string

const (
	KindMenuItem       Kind = "menu_item"
	KindMenuCategory   Kind = "menu_category"
	KindModifierBlock  Kind = "modifier_block"
	KindRecipe         Kind = "recipe"
	KindRecipeCategory Kind = "recipe_category"
)

// Kinds returns every kind the workflow engine is instantiated for.
func Kinds() []Kind {
	return []Kind{
		KindMenuItem,
		KindMenuCategory,
		KindModifierBlock,
		KindRecipe,
		KindRecipeCategory,
	}
}

// IsValid reports whether the kind is one of the supported content kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindMenuItem, KindMenuCategory, KindModifierBlock, KindRecipe, KindRecipeCategory:
		return true
	default:
		return false
	}
}

// NormalizeKind coerces arbitrary kind strings into the canonical representation.
func NormalizeKind(input string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(input)))
}
