package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mealstash/recipe-api-be/internal/apperr"
	"github.com/mealstash/recipe-api-be/internal/query"
)

// ownedNameStore implements the shared persistence logic for the two
// name-only resources (tags and ingredients). Both are scoped to an
// owning user, ordered by name descending, and linkable to recipes
// through a join table.
type ownedNameStore struct {
	db         *sql.DB
	table      string // "tags" or "ingredients"
	linkTable  string // "recipe_tags" or "recipe_ingredients"
	linkColumn string // "tag_id" or "ingredient_id"
}

type namedRow struct {
	ID     int64
	UserID int64
	Name   string
}

func (s *ownedNameStore) list(ownerID int64, opts query.ListOptions) ([]namedRow, error) {
	var q string
	if opts.AssignedOnly {
		// DISTINCT keeps entries attached to several recipes from
		// appearing more than once.
		q = fmt.Sprintf(`
			SELECT DISTINCT t.id, t.user_id, t.name
			FROM %s t
			JOIN %s l ON l.%s = t.id
			JOIN recipes r ON r.id = l.recipe_id
			WHERE t.user_id = ? AND r.user_id = t.user_id
			ORDER BY t.name DESC`, s.table, s.linkTable, s.linkColumn)
	} else {
		q = fmt.Sprintf("SELECT id, user_id, name FROM %s WHERE user_id = ? ORDER BY name DESC", s.table)
	}

	rows, err := s.db.Query(q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []namedRow
	for rows.Next() {
		var row namedRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Name); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// get treats a foreign-owned id exactly like a missing one.
func (s *ownedNameStore) get(ownerID, id int64) (namedRow, error) {
	var row namedRow
	q := fmt.Sprintf("SELECT id, user_id, name FROM %s WHERE id = ? AND user_id = ?", s.table)
	err := s.db.QueryRow(q, id, ownerID).Scan(&row.ID, &row.UserID, &row.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return namedRow{}, apperr.ErrNotFound
		}
		return namedRow{}, err
	}
	return row, nil
}

func (s *ownedNameStore) create(ownerID int64, name string) (namedRow, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return namedRow{}, apperr.Invalid("name", "this field may not be blank")
	}

	q := fmt.Sprintf("INSERT INTO %s(user_id, name) VALUES(?, ?)", s.table)
	res, err := s.db.Exec(q, ownerID, name)
	if err != nil {
		return namedRow{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return namedRow{}, err
	}
	return namedRow{ID: id, UserID: ownerID, Name: name}, nil
}

func (s *ownedNameStore) update(ownerID, id int64, name string) (namedRow, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return namedRow{}, apperr.Invalid("name", "this field may not be blank")
	}

	if _, err := s.get(ownerID, id); err != nil {
		return namedRow{}, err
	}

	q := fmt.Sprintf("UPDATE %s SET name = ? WHERE id = ? AND user_id = ?", s.table)
	if _, err := s.db.Exec(q, name, id, ownerID); err != nil {
		return namedRow{}, err
	}
	return namedRow{ID: id, UserID: ownerID, Name: name}, nil
}

func (s *ownedNameStore) delete(ownerID, id int64) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = ? AND user_id = ?", s.table)
	res, err := s.db.Exec(q, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// countOwned reports how many of the given ids exist in the table and
// belong to ownerID. Used to reject associations to another account's
// resources.
func (s *ownedNameStore) countOwned(ownerID int64, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = ? AND id IN (%s)", s.table, placeholders)

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}

	var n int
	if err := s.db.QueryRow(q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
