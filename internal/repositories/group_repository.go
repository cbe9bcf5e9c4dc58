package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"groupchat/internal/models"
)

type GroupRepository interface {
	// CreateWithMembers inserts the group and one membership row per user id
	// in a single transaction. The admin must be included in userIDs.
	CreateWithMembers(ctx context.Context, group *models.Group, userIDs []string) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]models.UserSummary, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Group, error)
	RemoveMember(ctx context.Context, groupID, userID string) error
}

type groupRepository struct {
	DB *sql.DB
}

func NewGroupRepository(db *sql.DB) GroupRepository {
	return &groupRepository{DB: db}
}

func (r *groupRepository) CreateWithMembers(ctx context.Context, group *models.Group, userIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const insertGroup = `
		INSERT INTO chat_groups (id, name, admin_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := tx.QueryRowContext(ctx, insertGroup, group.ID, group.Name, group.AdminID).Scan(&group.CreatedAt); err != nil {
		return mapError(err)
	}

	const insertMember = `
		INSERT INTO chat_group_members (id, user_id, group_id)
		VALUES ($1, $2, $3)
	`
	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, insertMember, uuid.NewString(), userID, group.ID); err != nil {
			return fmt.Errorf("add member %s: %w", userID, mapError(err))
		}
	}
	return tx.Commit()
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	const q = `
		SELECT id, name, admin_id, created_at
		FROM chat_groups
		WHERE id = $1
	`
	g := &models.Group{}
	if err := r.DB.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name, &g.AdminID, &g.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return g, nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	const q = `
		SELECT 1 FROM chat_group_members WHERE group_id = $1 AND user_id = $2 LIMIT 1
	`
	var dummy int
	err := r.DB.QueryRowContext(ctx, q, groupID, userID).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID string) ([]models.UserSummary, error) {
	const q = `
		SELECT u.id, u.name
		FROM chat_group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY u.name, u.id
	`
	rows, err := r.DB.QueryContext(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.UserSummary
	for rows.Next() {
		var m models.UserSummary
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *groupRepository) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	const q = `
		SELECT g.id, g.name, g.admin_id, g.created_at
		FROM chat_groups g
		JOIN chat_group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at, g.id
	`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.AdminID, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	const q = `
		DELETE FROM chat_group_members WHERE group_id = $1 AND user_id = $2
	`
	res, err := r.DB.ExecContext(ctx, q, groupID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
