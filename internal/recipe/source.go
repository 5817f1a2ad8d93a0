package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/ingredient"
)

// Source provides suggested recipes
type Source interface {
	// ListSuggested returns the most recent suggestions, newest first
	ListSuggested(ctx context.Context) ([]Suggested, error)

	// HasRecipes reports whether the recipes table exists
	HasRecipes(ctx context.Context) (bool, error)
}

// Dialect names a supported SQL driver
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// suggestionLimit caps how many suggestions are read per request.
const suggestionLimit = 100

// SQLSource reads suggestions from the sug_recipes and recipes tables
type SQLSource struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLSource opens a database for the given dialect. The dialect is also the
// database/sql driver name.
func OpenSQLSource(dialect Dialect, dsn string) (*SQLSource, error) {
	switch dialect {
	case Postgres, SQLite:
	default:
		return nil, fmt.Errorf("unsupported recipes driver %q", dialect)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening recipes database: %w", err)
	}
	return NewSQLSource(db, dialect), nil
}

// NewSQLSource wraps an already opened database
func NewSQLSource(db *sql.DB, dialect Dialect) *SQLSource {
	return &SQLSource{db: db, dialect: dialect}
}

// Close closes the database connection
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the recipes and sug_recipes tables if they are missing
func (s *SQLSource) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS recipes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		ingredients TEXT,
		steps TEXT,
		description TEXT,
		minutes INTEGER
	);

	CREATE TABLE IF NOT EXISTS sug_recipes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE
	);
	`
	if s.dialect == Postgres {
		schema = strings.ReplaceAll(schema, "INTEGER PRIMARY KEY AUTOINCREMENT", "SERIAL PRIMARY KEY")
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating recipe schema: %w", err)
	}
	return nil
}

// HasRecipes reports whether the recipes table exists
func (s *SQLSource) HasRecipes(ctx context.Context) (bool, error) {
	return s.tableExists(ctx, "recipes")
}

// ListSuggested returns up to 100 suggestions joined with their recipes, newest
// suggestion first. Missing tables yield an empty list rather than an error.
func (s *SQLSource) ListSuggested(ctx context.Context) ([]Suggested, error) {
	for _, table := range []string{"sug_recipes", "recipes"} {
		ok, err := s.tableExists(ctx, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []Suggested{}, nil
		}
	}

	query := fmt.Sprintf(`
		SELECT s.id, r.id, r.name, r.ingredients, r.steps, r.description, r.minutes
		FROM sug_recipes s
		JOIN recipes r ON r.id = s.recipe_id
		ORDER BY s.id DESC
		LIMIT %d`, suggestionLimit)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying suggested recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]Suggested, 0)
	for rows.Next() {
		var (
			r                              Suggested
			name, ings, steps, description sql.NullString
			minutes                        sql.NullInt64
		)
		if err := rows.Scan(&r.SugID, &r.RecipeID, &name, &ings, &steps, &description, &minutes); err != nil {
			return nil, fmt.Errorf("scanning suggested recipe: %w", err)
		}

		r.Title = name.String
		if r.Title == "" {
			r.Title = "Recipe"
		}
		r.Description = description.String
		r.Ingredients = ingredient.ParseIngredients(column(ings))
		r.Steps = ingredient.ParseSteps(column(steps))
		r.Minutes = int(minutes.Int64)
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading suggested recipes: %w", err)
	}
	return recipes, nil
}

func (s *SQLSource) tableExists(ctx context.Context, table string) (bool, error) {
	var (
		exists bool
		err    error
	)
	switch s.dialect {
	case Postgres:
		err = s.db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists)
	default:
		var n int
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
		exists = n > 0
	}
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return exists, nil
}

// column maps a stored text column to a raw value. Postgres array literals
// such as {eggs,"soy sauce"} come back as text and are decoded into a list.
func column(ns sql.NullString) ingredient.Raw {
	if !ns.Valid {
		return ingredient.Raw{}
	}
	text := strings.TrimSpace(ns.String)
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		var arr pq.StringArray
		if err := arr.Scan(text); err == nil {
			return ingredient.FromList([]string(arr))
		}
	}
	return ingredient.FromNullString(ns)
}
