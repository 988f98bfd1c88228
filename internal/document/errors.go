package document

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrAlreadyExists          = errors.New("document: already created")
	ErrNotInitialized         = errors.New("document: not created")
	ErrNoDraft                = errors.New("document: no draft pending")
	ErrNoPublishedVersion     = errors.New("document: no published version")
	ErrVersionNotFound        = errors.New("document: version not found")
	ErrNoEditableVersion      = errors.New("document: no editable version")
	ErrDefaultLocaleProtected = errors.New("document: default locale translation cannot be removed")
	ErrTranslationNotFound    = errors.New("document: translation not found")
	ErrLocaleRequired         = errors.New("document: locale is required")
	ErrPayloadRequired        = errors.New("document: payload is required")
	ErrPayloadKindMismatch    = errors.New("document: payload kind mismatch")
	ErrKindInvalid            = errors.New("document: unknown content kind")
	ErrCodeInvalid            = errors.New("document: code contains invalid characters")
	ErrScheduleWindowInvalid  = errors.New("document: activate_at must be before deactivate_at")
	ErrReferentialIntegrity   = errors.New("document: still referenced by other documents")
	ErrNotRecipe              = errors.New("document: operation requires a recipe")
	ErrNotModifierBlock       = errors.New("document: operation requires a modifier block")

	ErrPriceNegative          = errors.New("document: price must not be negative")
	ErrSelectionBoundsInvalid = errors.New("document: modifier selection bounds invalid")
	ErrDuplicateOption        = errors.New("document: duplicate modifier option")
	ErrOptionNotFound         = errors.New("document: modifier option not found")
	ErrDuplicateIngredient    = errors.New("document: duplicate ingredient")
	ErrIngredientInvalid      = errors.New("document: ingredient quantity or cost invalid")
)

// NotFoundError reports a missing document from store lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ReferencedError reports the documents blocking a modifier block archive.
type ReferencedError struct {
	DocumentID   uuid.UUID
	ReferencedBy []uuid.UUID
}

func (e *ReferencedError) Error() string {
	if e == nil || len(e.ReferencedBy) == 0 {
		return ErrReferentialIntegrity.Error()
	}
	return fmt.Sprintf("%s: %d referencing document(s)", ErrReferentialIntegrity.Error(), len(e.ReferencedBy))
}

func (e *ReferencedError) Unwrap() error {
	return ErrReferentialIntegrity
}
