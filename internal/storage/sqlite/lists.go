package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mealplanner/internal/models"
)

// CreateList inserts a new shopping list with its participants.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.ShoppingList) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.CreatedAt == 0 {
		list.CreatedAt = time.Now().Unix()
	}
	if list.PeopleCount < 1 {
		list.PeopleCount = 1
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO shopping_lists (id, owner_id, name, people_count, is_closed, closed_at, created_at)
		VALUES (?, ?, ?, ?, 0, NULL, ?)`,
		list.ID, list.OwnerID, list.Name, list.PeopleCount, list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create shopping list: %w", err)
	}

	for _, userID := range list.ParticipantIDs {
		if err := s.AddParticipant(ctx, list.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

// GetList retrieves a shopping list with its participant IDs.
func (s *SQLiteStore) GetList(ctx context.Context, id string) (*models.ShoppingList, error) {
	list := &models.ShoppingList{}
	var closedAt sql.NullInt64
	err := s.q.QueryRowContext(ctx, `
		SELECT id, owner_id, name, people_count, is_closed, closed_at, created_at
		FROM shopping_lists WHERE id = ?`,
		id,
	).Scan(&list.ID, &list.OwnerID, &list.Name, &list.PeopleCount,
		&list.IsClosed, &closedAt, &list.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "shopping list", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	list.ClosedAt = closedAt.Int64

	rows, err := s.q.QueryContext(ctx,
		"SELECT user_id FROM list_participants WHERE list_id = ? ORDER BY user_id",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		list.ParticipantIDs = append(list.ParticipantIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return list, nil
}

// ListOpenLists retrieves a user's open lists, newest first.
func (s *SQLiteStore) ListOpenLists(ctx context.Context, ownerID string) ([]*models.ShoppingList, error) {
	return s.listLists(ctx,
		`SELECT id FROM shopping_lists WHERE owner_id = ? AND is_closed = 0 ORDER BY created_at DESC`,
		ownerID,
	)
}

// ListClosedLists retrieves a user's closed lists, most recently closed
// first.
func (s *SQLiteStore) ListClosedLists(ctx context.Context, ownerID string) ([]*models.ShoppingList, error) {
	return s.listLists(ctx,
		`SELECT id FROM shopping_lists WHERE owner_id = ? AND is_closed = 1 ORDER BY closed_at DESC`,
		ownerID,
	)
}

func (s *SQLiteStore) listLists(ctx context.Context, query string, args ...any) ([]*models.ShoppingList, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping lists: %w", err)
	}

	lists := make([]*models.ShoppingList, 0, len(ids))
	for _, id := range ids {
		list, err := s.GetList(ctx, id)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// UpdateListPeopleCount stores a new target headcount. Recalculation of
// item quantities is the service's job, inside the same transaction.
func (s *SQLiteStore) UpdateListPeopleCount(ctx context.Context, id string, peopleCount int) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE shopping_lists SET people_count = ? WHERE id = ?",
		peopleCount, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update people count: %w", err)
	}
	return requireRowAffected(res, "shopping list", id)
}

// CloseList performs the open -> closed transition. The is_closed guard
// in the WHERE clause keeps closed_at write-once even under races.
func (s *SQLiteStore) CloseList(ctx context.Context, id string, closedAt int64) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE shopping_lists SET is_closed = 1, closed_at = ? WHERE id = ? AND is_closed = 0",
		closedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to close shopping list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		// Either missing or already closed; let the caller distinguish.
		if _, err := s.GetList(ctx, id); err != nil {
			return err
		}
		return &models.ListClosedError{ListID: id}
	}
	return nil
}

// AddParticipant links a user to a list. Adding an existing participant
// is a no-op.
func (s *SQLiteStore) AddParticipant(ctx context.Context, listID, userID string) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT OR IGNORE INTO list_participants (list_id, user_id) VALUES (?, ?)",
		listID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// RemoveParticipant unlinks a user from a list.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, listID, userID string) error {
	_, err := s.q.ExecContext(ctx,
		"DELETE FROM list_participants WHERE list_id = ? AND user_id = ?",
		listID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

// CreateItem inserts a shopping list item.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.ShoppingListItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO shopping_list_items
			(id, list_id, ingredient_id, name, unit, quantity, per_person_quantity, checked, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ListID, nullableText(item.IngredientID), item.Name, string(item.Unit),
		item.Quantity.String(), nullableRate(item.PerPersonQuantity), item.Checked, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// UpdateItem stores an item's mutable fields.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.ShoppingListItem) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE shopping_list_items
		SET ingredient_id = ?, name = ?, unit = ?, quantity = ?, per_person_quantity = ?, checked = ?
		WHERE id = ?`,
		nullableText(item.IngredientID), item.Name, string(item.Unit),
		item.Quantity.String(), nullableRate(item.PerPersonQuantity), item.Checked, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return requireRowAffected(res, "item", item.ID)
}

// DeleteItem removes one item.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM shopping_list_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return requireRowAffected(res, "item", id)
}

const itemColumns = `id, list_id, ingredient_id, name, unit, quantity, per_person_quantity, checked, created_at`

// GetItem retrieves one item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*models.ShoppingListItem, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM shopping_list_items WHERE id = ?", id,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "item", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListItems retrieves a list's items, unchecked first, then by name.
func (s *SQLiteStore) ListItems(ctx context.Context, listID string) ([]*models.ShoppingListItem, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM shopping_list_items WHERE list_id = ? ORDER BY checked, name",
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.ShoppingListItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// FindMergeItem locates the one item a contribution merges into. Linked
// items match on ingredient ID, unlinked ones on the literal name. The
// manual flag keeps the two populations apart: a manual entry never
// merges with a recipe-derived one. Returns (nil, nil) when no item
// matches.
func (s *SQLiteStore) FindMergeItem(ctx context.Context, listID, ingredientID, name string, unit models.Unit, manual bool) (*models.ShoppingListItem, error) {
	query := "SELECT " + itemColumns + " FROM shopping_list_items WHERE list_id = ? AND unit = ?"
	args := []any{listID, string(unit)}

	if ingredientID != "" {
		query += " AND ingredient_id = ?"
		args = append(args, ingredientID)
	} else {
		query += " AND ingredient_id IS NULL AND name = ?"
		args = append(args, name)
	}

	if manual {
		query += " AND per_person_quantity IS NULL"
	} else {
		query += " AND per_person_quantity IS NOT NULL"
	}
	query += " ORDER BY created_at LIMIT 1"

	item, err := scanItem(s.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find merge item: %w", err)
	}
	return item, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*models.ShoppingListItem, error) {
	item := &models.ShoppingListItem{}
	var ingredientID sql.NullString
	var rate decimal.NullDecimal
	if err := row.Scan(
		&item.ID, &item.ListID, &ingredientID, &item.Name, &item.Unit,
		&item.Quantity, &rate, &item.Checked, &item.CreatedAt,
	); err != nil {
		return nil, err
	}
	item.IngredientID = ingredientID.String
	if rate.Valid {
		item.PerPersonQuantity = &rate.Decimal
	}
	return item, nil
}

// nullableRate maps a nil per-person rate to NULL, otherwise to its
// string form.
func nullableRate(rate *decimal.Decimal) any {
	if rate == nil {
		return nil
	}
	return rate.String()
}
