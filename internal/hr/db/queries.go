package db

import (
	"context"
	"database/sql"
	"fmt"
)

// developerColumns はdeveloper行を取得する際の共通SELECT列。
// スキャン順はscanDeveloperと同期すること。
const developerColumns = `
	d.id, d.developer_name, d.designation, d.email_id, d.mobile,
	d.status, d.doj, d.emp_number, d.blood_group,
	u.username, d.opening_leave_balance, d.is_pf_enabled, d.pf_join_date
`

// rowScanner は*sql.Rowと*sql.Rowsの共通スキャンインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDeveloper は1行をDeveloperにマッピングする。
func scanDeveloper(row rowScanner) (Developer, error) {
	var d Developer
	err := row.Scan(
		&d.ID, &d.DeveloperName, &d.Designation, &d.EmailID, &d.Mobile,
		&d.Status, &d.Doj, &d.EmpNumber, &d.BloodGroup,
		&d.Username, &d.OpeningLeaveBalance, &d.IsPfEnabled, &d.PfJoinDate,
	)
	return d, err
}

// scanDevelopers は複数行をDeveloperのスライスにマッピングする。
func scanDevelopers(rows *sql.Rows) ([]Developer, error) {
	defer func() { _ = rows.Close() }()

	var developers []Developer
	for rows.Next() {
		d, err := scanDeveloper(rows)
		if err != nil {
			return nil, err
		}
		developers = append(developers, d)
	}
	return developers, rows.Err()
}

// GetDeveloperByID は指定IDの従業員を取得する。
// 見つからない場合はsql.ErrNoRowsを返す。
func (q *Queries) GetDeveloperByID(ctx context.Context, id int64) (Developer, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+developerColumns+`
		FROM developer d
		LEFT JOIN user u ON d.user_id = u.user_id
		WHERE d.id = ?
	`, id)
	return scanDeveloper(row)
}

// SearchDevelopers は氏名・メールアドレス・携帯番号・社員番号の
// 部分一致で従業員を検索する。結果は氏名順にソートする。
func (q *Queries) SearchDevelopers(ctx context.Context, term string) ([]Developer, error) {
	pattern := "%" + term + "%"
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+developerColumns+`
		FROM developer d
		LEFT JOIN user u ON d.user_id = u.user_id
		WHERE d.developer_name LIKE ? OR d.email_id LIKE ?
		   OR d.mobile LIKE ? OR d.emp_number LIKE ?
		ORDER BY d.developer_name
	`, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("従業員検索クエリの実行に失敗: %w", err)
	}
	return scanDevelopers(rows)
}

// ListActiveDevelopers は在籍中の全従業員を取得する。
// あいまい検索のフォールバックで候補集合として使用する。
func (q *Queries) ListActiveDevelopers(ctx context.Context) ([]Developer, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+developerColumns+`
		FROM developer d
		LEFT JOIN user u ON d.user_id = u.user_id
		WHERE d.status = 1
	`)
	if err != nil {
		return nil, fmt.Errorf("在籍従業員一覧クエリの実行に失敗: %w", err)
	}
	return scanDevelopers(rows)
}

// CountApprovedLeavesByType は承認済み休暇の種別ごとの取得回数を集計する。
func (q *Queries) CountApprovedLeavesByType(ctx context.Context, developerID int64) ([]LeaveCount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT leave_type, COUNT(*) AS count
		FROM leave_requests
		WHERE developer_id = ? AND status = 'Approved'
		GROUP BY leave_type
	`, developerID)
	if err != nil {
		return nil, fmt.Errorf("休暇集計クエリの実行に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []LeaveCount
	for rows.Next() {
		var lc LeaveCount
		if err := rows.Scan(&lc.LeaveType, &lc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, lc)
	}
	return counts, rows.Err()
}

// CreateAPIKeyParams はCreateAPIKeyのパラメータ。
type CreateAPIKeyParams struct {
	// ID はレコードの一意識別子。
	ID string
	// Name はキーの用途を示す名前。
	Name string
	// APIKey はキー本体。
	APIKey string
	// ExpiresDays は発行から失効までの日数。
	ExpiresDays int64
}

// CreateAPIKey は新しいAPIキーをキーストアに登録する。
func (q *Queries) CreateAPIKey(ctx context.Context, params CreateAPIKeyParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, name, api_key, expires_at)
		VALUES (?, ?, ?, datetime('now', '+' || ? || ' days'))
	`, params.ID, params.Name, params.APIKey, params.ExpiresDays)
	if err != nil {
		return fmt.Errorf("APIキーの登録に失敗: %w", err)
	}
	return nil
}

// ListAPIKeys は全APIキーを発行日時の降順で取得する。
func (q *Queries) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, api_key, is_active, created_at, last_used, expires_at
		FROM api_keys
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("APIキー一覧クエリの実行に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []APIKey
	for rows.Next() {
		var k APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.APIKey, &k.IsActive, &k.CreatedAt, &k.LastUsed, &k.ExpiresAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// ListActiveAPIKeyValues は有効かつ失効前のキー本体のみを取得する。
// 起動時にクレデンシャルセットを構築するために使用する。
func (q *Queries) ListActiveAPIKeyValues(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT api_key
		FROM api_keys
		WHERE is_active = 1
		  AND (expires_at IS NULL OR expires_at > datetime('now'))
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("有効APIキークエリの実行に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// FindActiveAPIKeysByPrefix は指定の接頭辞で始まる有効なAPIキーを取得する。
// 接頭辞指定によるキー失効操作で使用する。
func (q *Queries) FindActiveAPIKeysByPrefix(ctx context.Context, prefix string) ([]APIKey, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, api_key, is_active, created_at, last_used, expires_at
		FROM api_keys
		WHERE is_active = 1 AND substr(api_key, 1, length(?)) = ?
	`, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("APIキー接頭辞検索クエリの実行に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []APIKey
	for rows.Next() {
		var k APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.APIKey, &k.IsActive, &k.CreatedAt, &k.LastUsed, &k.ExpiresAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// RevokeAPIKey は指定IDのAPIキーを失効させる。
// 失効済みキーは次回起動時のクレデンシャルセットから除外される。
func (q *Queries) RevokeAPIKey(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE api_keys SET is_active = 0 WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("APIキーの失効に失敗: %w", err)
	}
	return nil
}
