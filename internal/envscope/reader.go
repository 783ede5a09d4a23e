package envscope

import (
	"io"
	"log/slog"
	"strings"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/pathlist"
)

// Store looks up persisted environment values.
// Implementations return ("", nil) when the variable is unset at scope.
type Store interface {
	Lookup(name string, scope Scope) (string, error)
}

// Reader produces best-effort persisted values from a Store.
type Reader struct {
	store  Store
	delim  string
	logger *slog.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithDelimiter overrides the separator used by ReadCombined.
func WithDelimiter(delim string) ReaderOption {
	return func(r *Reader) {
		r.delim = delim
	}
}

// WithLogger sets the logger used to report failed reads.
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader creates a Reader over store.
func NewReader(store Store, opts ...ReaderOption) *Reader {
	r := &Reader{
		store:  store,
		delim:  pathlist.DefaultDelimiter,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Delimiter returns the separator used by ReadCombined.
func (r *Reader) Delimiter() string {
	return r.delim
}

// ReadScope returns the persisted value of name at scope.
// Unset scopes and read failures both yield "".
func (r *Reader) ReadScope(name string, scope Scope) string {
	value, err := r.store.Lookup(name, scope)
	if err != nil {
		r.logger.Debug("persisted read failed", "var", name, "scope", scope.String(), "error", err)
		return ""
	}
	return value
}

// ReadCombined reads name at each scope in order and joins the results with
// the delimiter. Empty results are joined too, so ("", "B") gives ";B".
func (r *Reader) ReadCombined(name string, scopes []Scope) string {
	values := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		values = append(values, r.ReadScope(name, scope))
	}
	return strings.Join(values, r.delim)
}
