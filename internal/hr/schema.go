package hr

import (
	"database/sql"
	"fmt"
)

// スキーマ定義。internal/hr/db のクエリと同期すること。
const schema = `
CREATE TABLE IF NOT EXISTS user (
    -- ログインユーザーの一意識別子
    user_id INTEGER PRIMARY KEY,
    -- ログインユーザー名
    username TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS developer (
    -- 従業員の一意識別子
    id INTEGER PRIMARY KEY,
    -- 従業員のフルネーム
    developer_name TEXT NOT NULL,
    -- 役職
    designation TEXT,
    -- メールアドレス
    email_id TEXT,
    -- 携帯電話番号
    mobile TEXT,
    -- 在籍状態。1が在籍中、0が退職済み
    status INTEGER NOT NULL DEFAULT 1,
    -- 入社日（YYYY-MM-DD形式）
    doj TEXT,
    -- 社員番号
    emp_number TEXT,
    -- 血液型
    blood_group TEXT,
    -- 関連付けられたログインユーザーのID
    user_id INTEGER,
    -- 期初の休暇残日数
    opening_leave_balance REAL NOT NULL DEFAULT 0,
    -- PF（積立基金）への加入有無
    is_pf_enabled INTEGER NOT NULL DEFAULT 0,
    -- PF加入日（YYYY-MM-DD形式）
    pf_join_date TEXT,
    FOREIGN KEY (user_id) REFERENCES user(user_id)
);

CREATE TABLE IF NOT EXISTS leave_requests (
    -- 休暇申請の一意識別子
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    -- 申請した従業員のID
    developer_id INTEGER NOT NULL,
    -- 休暇種別（FULL DAY、HALF DAY、2 HRSなど）
    leave_type TEXT NOT NULL,
    -- 申請状態（Approved、Pending、Rejected）
    status TEXT NOT NULL DEFAULT 'Pending',
    -- 休暇取得日（YYYY-MM-DD形式）
    leave_date TEXT,
    -- 申請日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    FOREIGN KEY (developer_id) REFERENCES developer(id)
);

CREATE TABLE IF NOT EXISTS api_keys (
    -- レコードの一意識別子
    id TEXT PRIMARY KEY,
    -- キーの用途を示す名前
    name TEXT NOT NULL,
    -- APIキー本体
    api_key TEXT UNIQUE NOT NULL,
    -- キーが有効かどうか。失効済みは0
    is_active INTEGER NOT NULL DEFAULT 1,
    -- 発行日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    -- 最終使用日時
    last_used DATETIME,
    -- 有効期限。NULLは無期限
    expires_at DATETIME
);

-- 氏名での検索を高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_developer_name
    ON developer(developer_name);

-- 従業員ごとの休暇集計を高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_leave_requests_developer_id
    ON leave_requests(developer_id, status);
`

// initSchema はSQLiteデータベースにスキーマを適用する。
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return nil
}
