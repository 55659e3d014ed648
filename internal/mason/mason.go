// Package mason stores named build definitions and replays them against
// the build tool.
package mason

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/embedtools/br2kit/internal/builder"
)

// ErrUnknownDefinition reports a build-definition name that is not stored.
var ErrUnknownDefinition = errors.New("unknown build definition")

const schema = `
CREATE TABLE IF NOT EXISTS definitions (
	name      TEXT PRIMARY KEY,
	defconfig TEXT NOT NULL,
	output    TEXT NOT NULL,
	main      TEXT NOT NULL,
	externals TEXT NOT NULL
);`

// Mason manages the build-definition store.
type Mason struct {
	db *sql.DB
}

// Open opens the definition store at path, creating it (and its parent
// directory) if needed.
func Open(path string) (*Mason, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init store %s: %w", path, err)
	}
	return &Mason{db: db}, nil
}

// Close releases the underlying database.
func (m *Mason) Close() error {
	return m.db.Close()
}

// Add stores a build definition under name, replacing any previous
// definition of the same name.
func (m *Mason) Add(name string, b *builder.Builder) error {
	externals, err := json.Marshal(b.Externals)
	if err != nil {
		return fmt.Errorf("encode externals for %s: %w", name, err)
	}
	_, err = m.db.Exec(`
		INSERT INTO definitions (name, defconfig, output, main, externals)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			defconfig = excluded.defconfig,
			output    = excluded.output,
			main      = excluded.main,
			externals = excluded.externals`,
		name, b.Defconfig, b.Output, b.Main, string(externals))
	if err != nil {
		return fmt.Errorf("store definition %s: %w", name, err)
	}
	return nil
}

// Get returns the build definition stored under name.
func (m *Mason) Get(name string) (*builder.Builder, error) {
	row := m.db.QueryRow(`
		SELECT defconfig, output, main, externals
		FROM definitions WHERE name = ?`, name)
	var b builder.Builder
	var externals string
	if err := row.Scan(&b.Defconfig, &b.Output, &b.Main, &externals); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDefinition, name)
		}
		return nil, fmt.Errorf("load definition %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(externals), &b.Externals); err != nil {
		return nil, fmt.Errorf("decode externals for %s: %w", name, err)
	}
	return &b, nil
}

// List returns the stored definition names, sorted.
func (m *Mason) List() ([]string, error) {
	rows, err := m.db.Query(`SELECT name FROM definitions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list definitions: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	return names, nil
}

// Delete removes the definition stored under name.
func (m *Mason) Delete(name string) error {
	res, err := m.db.Exec(`DELETE FROM definitions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete definition %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete definition %s: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDefinition, name)
	}
	return nil
}

// Render returns the named definition as indented JSON, for display.
func (m *Mason) Render(name string) (string, error) {
	b, err := m.Get(name)
	if err != nil {
		return "", err
	}
	return oj.JSON(b, 2), nil
}

// Build runs one build step of the named definition.
func (m *Mason) Build(ctx context.Context, name string, step builder.Step, r builder.Runner) error {
	b, err := m.Get(name)
	if err != nil {
		return err
	}
	return b.RunStep(ctx, r, step)
}

// Execute builds specific targets of the named definition in a single
// invocation.
func (m *Mason) Execute(ctx context.Context, name string, r builder.Runner, targets ...string) error {
	b, err := m.Get(name)
	if err != nil {
		return err
	}
	return b.BuildTargets(ctx, r, targets...)
}
