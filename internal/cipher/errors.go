package cipher

import "errors"

var (
	// ErrInvalidKey is returned for an empty password or one containing
	// non-letters.
	ErrInvalidKey = errors.New("cipher: key must be a non-empty sequence of letters")

	// ErrInvalidPermutation is returned when a substitution alphabet is not a
	// bijection over a-z.
	ErrInvalidPermutation = errors.New("cipher: substitution alphabet is not a permutation of a-z")

	// ErrInvalidParams is returned when an operation's parameters are missing
	// or malformed.
	ErrInvalidParams = errors.New("cipher: invalid operation parameters")

	// ErrUnknownOperation is returned when a pipeline names an operation that
	// is not registered.
	ErrUnknownOperation = errors.New("cipher: unknown operation")

	// ErrInvalidRecipe is returned when a recipe has no name or its name
	// would share a store file with another recipe.
	ErrInvalidRecipe = errors.New("cipher: invalid recipe")
)
