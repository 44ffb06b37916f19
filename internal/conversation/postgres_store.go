package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists conversations and transcripts in Postgres.
type PostgresStore struct {
	db     querier
	tracer trace.Tracer
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("conversation: pgx pool required")
	}
	return newPostgresStoreWithExec(pool)
}

func newPostgresStoreWithExec(db querier) *PostgresStore {
	return &PostgresStore{
		db:     db,
		tracer: otel.Tracer("concierge.internal.conversation.store"),
	}
}

func (s *PostgresStore) GetOrCreate(ctx context.Context, sessionID, ipAddress string) (*Conversation, error) {
	ctx, span := s.tracer.Start(ctx, "store.get_or_create")
	defer span.End()

	conv, err := s.Get(ctx, sessionID)
	if err == nil {
		if conv.IPAddress == "" && ipAddress != "" {
			conv.IPAddress = ipAddress
			if err := s.Update(ctx, conv); err != nil {
				return nil, err
			}
		}
		return conv, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO conversations (session_id, ip_address, status, collected_data, started_at, last_activity_at)
		VALUES ($1, $2, $3, '{}', $4, $4)
		ON CONFLICT (session_id) DO NOTHING
	`
	if _, err := s.db.Exec(ctx, query, sessionID, ipAddress, StatusActive, now); err != nil {
		return nil, fmt.Errorf("conversation: create failed: %w", err)
	}
	return s.Get(ctx, sessionID)
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (*Conversation, error) {
	ctx, span := s.tracer.Start(ctx, "store.get")
	defer span.End()

	query := `
		SELECT session_id, user_name, user_email, user_phone, ip_address,
		       status, manual_reply_active, is_lead, current_form, collected_data,
		       last_intent, confidence, started_at, last_activity_at, ended_at
		FROM conversations
		WHERE session_id = $1
	`
	row := s.db.QueryRow(ctx, query, sessionID)

	var conv Conversation
	var collected []byte
	if err := row.Scan(
		&conv.SessionID,
		&conv.UserName,
		&conv.UserEmail,
		&conv.UserPhone,
		&conv.IPAddress,
		&conv.Status,
		&conv.ManualReplyActive,
		&conv.IsLead,
		&conv.CurrentForm,
		&collected,
		&conv.LastIntent,
		&conv.Confidence,
		&conv.StartedAt,
		&conv.LastActivityAt,
		&conv.EndedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("conversation: select failed: %w", err)
	}

	conv.CollectedData = map[string]string{}
	if len(collected) > 0 {
		if err := json.Unmarshal(collected, &conv.CollectedData); err != nil {
			return nil, fmt.Errorf("conversation: collected_data decode: %w", err)
		}
	}
	return &conv, nil
}

func (s *PostgresStore) Update(ctx context.Context, conv *Conversation) error {
	ctx, span := s.tracer.Start(ctx, "store.update")
	defer span.End()

	collected, err := json.Marshal(conv.CollectedData)
	if err != nil {
		return fmt.Errorf("conversation: collected_data encode: %w", err)
	}

	query := `
		UPDATE conversations
		SET user_name = $2, user_email = $3, user_phone = $4, ip_address = $5,
		    status = $6, manual_reply_active = $7, is_lead = $8, current_form = $9,
		    collected_data = $10, last_intent = $11, confidence = $12,
		    last_activity_at = now(), ended_at = $13
		WHERE session_id = $1
	`
	tag, err := s.db.Exec(ctx, query,
		conv.SessionID,
		conv.UserName,
		conv.UserEmail,
		conv.UserPhone,
		conv.IPAddress,
		conv.Status,
		conv.ManualReplyActive,
		conv.IsLead,
		conv.CurrentForm,
		collected,
		conv.LastIntent,
		conv.Confidence,
		conv.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("conversation: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AppendMessage(ctx context.Context, msg *Message) error {
	ctx, span := s.tracer.Start(ctx, "store.append_message")
	defer span.End()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO conversation_messages (session_id, message_type, content, response_time_ms, is_operator_reply, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if err := s.db.QueryRow(ctx, query,
		msg.SessionID,
		msg.Type,
		msg.Content,
		msg.ResponseTimeMS,
		msg.IsOperatorReply,
		msg.CreatedAt,
	).Scan(&msg.ID); err != nil {
		return fmt.Errorf("conversation: append message failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	return s.MessagesAfter(ctx, sessionID, 0)
}

func (s *PostgresStore) MessagesAfter(ctx context.Context, sessionID string, afterID int64) ([]Message, error) {
	ctx, span := s.tracer.Start(ctx, "store.messages_after")
	defer span.End()

	query := `
		SELECT id, session_id, message_type, content, response_time_ms, is_operator_reply, created_at
		FROM conversation_messages
		WHERE session_id = $1 AND id > $2
		ORDER BY id
	`
	rows, err := s.db.Query(ctx, query, sessionID, afterID)
	if err != nil {
		return nil, fmt.Errorf("conversation: select messages failed: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Type, &m.Content, &m.ResponseTimeMS, &m.IsOperatorReply, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("conversation: scan message failed: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetManualMode(ctx context.Context, sessionID string, active bool) error {
	ctx, span := s.tracer.Start(ctx, "store.set_manual_mode")
	defer span.End()

	query := `
		UPDATE conversations
		SET manual_reply_active = $2,
		    status = CASE
		        WHEN $2 THEN 'manual'
		        WHEN status = 'manual' THEN 'active'
		        ELSE status
		    END,
		    last_activity_at = now()
		WHERE session_id = $1
	`
	tag, err := s.db.Exec(ctx, query, sessionID, active)
	if err != nil {
		return fmt.Errorf("conversation: set manual mode failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Complete(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "store.complete")
	defer span.End()

	query := `
		UPDATE conversations
		SET status = 'completed', manual_reply_active = false,
		    ended_at = now(), last_activity_at = now()
		WHERE session_id = $1
	`
	tag, err := s.db.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("conversation: complete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
