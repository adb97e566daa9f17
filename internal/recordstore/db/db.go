// Package db はレコードストアのクエリ実行層を提供する。
// notification_recordsテーブルへの追記と参照のみを行う（追記専用）。
package db

import (
	"context"
	"database/sql"
	"time"
)

// Queries はnotification_recordsテーブルへのクエリ実行オブジェクト。
type Queries struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// New は新しいクエリ実行オブジェクトを生成する。
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// NotificationRecord はnotification_recordsテーブルの1行を表す。
type NotificationRecord struct {
	// ID はレコードの一意識別子（シンク採番のUUID）。
	ID string
	// UserID はレコードが属するユーザーのID。
	UserID string
	// PackageName は通知を発行したアプリのパッケージ識別子。
	PackageName string
	// Title は通知のタイトル。存在しない場合はNULL。
	Title sql.NullString
	// Text は通知の本文。存在しない場合はNULL。
	Text sql.NullString
	// PostedAt は通知の掲示時刻（エポックからのミリ秒）。
	PostedAt int64
	// CreatedAt はレコードの受領日時。
	CreatedAt time.Time
}

// CreateNotificationRecordParams はレコード追記のパラメータ。
type CreateNotificationRecordParams struct {
	// ID はレコードの一意識別子。
	ID string
	// UserID はレコードが属するユーザーのID。
	UserID string
	// PackageName は通知を発行したアプリのパッケージ識別子。
	PackageName string
	// Title は通知のタイトル。
	Title sql.NullString
	// Text は通知の本文。
	Text sql.NullString
	// PostedAt は通知の掲示時刻（エポックからのミリ秒）。
	PostedAt int64
}

// CreateNotificationRecord は通知レコードを1件追記する。
func (q *Queries) CreateNotificationRecord(ctx context.Context, arg CreateNotificationRecordParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO notification_records (id, user_id, package_name, title, text, posted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, arg.ID, arg.UserID, arg.PackageName, arg.Title, arg.Text, arg.PostedAt)
	return err
}

// GetNotificationRecordByID は識別子を指定して通知レコードを1件取得する。
func (q *Queries) GetNotificationRecordByID(ctx context.Context, id string) (NotificationRecord, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, user_id, package_name, title, text, posted_at, created_at
		FROM notification_records
		WHERE id = ?
	`, id)

	var r NotificationRecord
	err := row.Scan(&r.ID, &r.UserID, &r.PackageName, &r.Title, &r.Text, &r.PostedAt, &r.CreatedAt)
	return r, err
}

// ListNotificationRecordsByUserID はユーザーの通知レコードを新着順に取得する。
func (q *Queries) ListNotificationRecordsByUserID(ctx context.Context, userID string) ([]NotificationRecord, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, user_id, package_name, title, text, posted_at, created_at
		FROM notification_records
		WHERE user_id = ?
		ORDER BY posted_at DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []NotificationRecord
	for rows.Next() {
		var r NotificationRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.PackageName, &r.Title, &r.Text, &r.PostedAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountNotificationRecordsByUserID はユーザーの通知レコード件数を取得する。
func (q *Queries) CountNotificationRecordsByUserID(ctx context.Context, userID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notification_records WHERE user_id = ?
	`, userID)

	var count int64
	err := row.Scan(&count)
	return count, err
}
