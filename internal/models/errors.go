// ABOUTME: Error taxonomy shared by storage, tracker, and the outer surfaces.
// ABOUTME: Callers match with errors.Is; storage wraps these with context.
package models

import "errors"

var (
	ErrDuplicateCategory = errors.New("category name already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryInUse     = errors.New("category is referenced by consumption records")
	ErrCategoryIsDefault = errors.New("default categories cannot be deleted")
	ErrAmbiguousRef      = errors.New("reference matches more than one record")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrPersistence       = errors.New("persistence write failed")
)
