package analysis

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

// DefaultMaxKeyLength caps the key lengths the estimator tries.
const DefaultMaxKeyLength = 20

// Analyzer runs the cryptanalysis routines with a fixed configuration. The
// zero value is not usable; construct with New.
type Analyzer struct {
	workers       int
	maxKeyLength  int
	letterIndexed bool
	logger        *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithWorkers bounds the goroutines used to score candidates and columns.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithMaxKeyLength changes the longest key length considered. Values below 1
// are ignored.
func WithMaxKeyLength(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxKeyLength = n
		}
	}
}

// WithLetterIndexedColumns makes RecoverKey assign columns by the index of
// each letter among letters only, instead of by its position in the whole
// text. The two differ only when the ciphertext contains non-letters.
func WithLetterIndexedColumns() Option {
	return func(a *Analyzer) {
		a.letterIndexed = true
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New returns an Analyzer with the given options applied over the defaults:
// GOMAXPROCS workers, DefaultMaxKeyLength, position-based columns, no logging.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		workers:      runtime.GOMAXPROCS(0),
		maxKeyLength: DefaultMaxKeyLength,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = New()

// EstimateKeyLength estimates the Vigenère period with the default Analyzer.
func EstimateKeyLength(ciphertext string) (int, error) {
	return defaultAnalyzer.EstimateKeyLength(ciphertext)
}

// CoincidenceProfile scores candidate periods with the default Analyzer.
func CoincidenceProfile(ciphertext string) (Profile, error) {
	return defaultAnalyzer.CoincidenceProfile(ciphertext)
}

// RecoverKey recovers a Vigenère key of known length with the default
// Analyzer.
func RecoverKey(ciphertext string, length int) (cipher.Key, error) {
	return defaultAnalyzer.RecoverKey(ciphertext, length)
}

// Attack runs the full Vigenère attack with the default Analyzer.
func Attack(ciphertext string) (AttackResult, error) {
	return defaultAnalyzer.Attack(ciphertext)
}

// AttackWithLength breaks a Vigenère ciphertext of known period with the
// default Analyzer.
func AttackWithLength(ciphertext string, length int) (AttackResult, error) {
	return defaultAnalyzer.AttackWithLength(ciphertext, length)
}
