package repositories

import (
	"context"
	"database/sql"

	"groupchat/internal/models"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	// ListPrivate returns the messages exchanged between two users in both
	// directions, oldest first.
	ListPrivate(ctx context.Context, userA, userB string, limit, offset int) ([]*models.MessageView, error)
	ListGroup(ctx context.Context, groupID string, limit, offset int) ([]*models.MessageView, error)
	// ListPartners returns every user the given user has exchanged a private
	// message with.
	ListPartners(ctx context.Context, userID string) ([]models.UserSummary, error)
}

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{DB: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	const q = `
		INSERT INTO messages (id, content, is_group_message, sender_id, receiver_id, group_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, q,
		msg.ID,
		msg.Content,
		msg.IsGroupMessage,
		msg.SenderID,
		msg.ReceiverID,
		msg.GroupID,
		msg.CreatedAt,
	)
	return mapError(err)
}

func (r *messageRepository) ListPrivate(ctx context.Context, userA, userB string, limit, offset int) ([]*models.MessageView, error) {
	const q = `
		SELECT m.id, m.content, m.is_group_message, m.sender_id, m.receiver_id, m.group_id, m.created_at,
		       s.name, r.name
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users r ON r.id = m.receiver_id
		WHERE NOT m.is_group_message
		  AND ((m.sender_id = $1 AND m.receiver_id = $2) OR (m.sender_id = $2 AND m.receiver_id = $1))
		ORDER BY m.created_at ASC, m.seq ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.QueryContext(ctx, q, userA, userB, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.MessageView
	for rows.Next() {
		var (
			v            models.MessageView
			receiverName string
		)
		if err := scanMessage(rows, &v.Message, &v.Sender.Name, &receiverName); err != nil {
			return nil, err
		}
		v.Sender.ID = v.SenderID
		if v.ReceiverID != nil {
			v.Receiver = &models.UserSummary{ID: *v.ReceiverID, Name: receiverName}
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}

func (r *messageRepository) ListGroup(ctx context.Context, groupID string, limit, offset int) ([]*models.MessageView, error) {
	const q = `
		SELECT m.id, m.content, m.is_group_message, m.sender_id, m.receiver_id, m.group_id, m.created_at,
		       s.name
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		WHERE m.is_group_message AND m.group_id = $1
		ORDER BY m.created_at ASC, m.seq ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, q, groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.MessageView
	for rows.Next() {
		var v models.MessageView
		if err := scanMessage(rows, &v.Message, &v.Sender.Name); err != nil {
			return nil, err
		}
		v.Sender.ID = v.SenderID
		views = append(views, &v)
	}
	return views, rows.Err()
}

func (r *messageRepository) ListPartners(ctx context.Context, userID string) ([]models.UserSummary, error) {
	const q = `
		SELECT u.id, u.name
		FROM users u
		WHERE u.id IN (
			SELECT receiver_id FROM messages WHERE NOT is_group_message AND sender_id = $1
			UNION
			SELECT sender_id FROM messages WHERE NOT is_group_message AND receiver_id = $1
		)
		ORDER BY u.name, u.id
	`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []models.UserSummary
	for rows.Next() {
		var p models.UserSummary
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func scanMessage(rows *sql.Rows, msg *models.Message, extra ...any) error {
	var receiverID, groupID sql.NullString
	dest := []any{&msg.ID, &msg.Content, &msg.IsGroupMessage, &msg.SenderID, &receiverID, &groupID, &msg.CreatedAt}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	if receiverID.Valid {
		s := receiverID.String
		msg.ReceiverID = &s
	}
	if groupID.Valid {
		s := groupID.String
		msg.GroupID = &s
	}
	return nil
}
