package db

import (
	"database/sql"
	"time"
)

// Developer は従業員レコード。userテーブルと結合したユーザー名を含む。
type Developer struct {
	// ID は従業員の一意識別子。
	ID int64
	// DeveloperName は従業員のフルネーム。
	DeveloperName string
	// Designation は役職。
	Designation sql.NullString
	// EmailID はメールアドレス。
	EmailID sql.NullString
	// Mobile は携帯電話番号。
	Mobile sql.NullString
	// Status は在籍状態。1が在籍中、0が退職済み。
	Status int64
	// Doj は入社日（YYYY-MM-DD形式）。
	Doj sql.NullString
	// EmpNumber は社員番号。
	EmpNumber sql.NullString
	// BloodGroup は血液型。
	BloodGroup sql.NullString
	// Username は関連付けられたログインユーザー名。
	Username sql.NullString
	// OpeningLeaveBalance は期初の休暇残日数。
	OpeningLeaveBalance float64
	// IsPfEnabled はPF（積立基金）への加入有無。
	IsPfEnabled bool
	// PfJoinDate はPF加入日（YYYY-MM-DD形式）。
	PfJoinDate sql.NullString
}

// IsActive は従業員が在籍中かどうかを返す。
func (d Developer) IsActive() bool {
	return d.Status == 1
}

// APIKey はキーストアに登録されたAPIキーレコード。
type APIKey struct {
	// ID はレコードの一意識別子。
	ID string
	// Name はキーの用途を示す名前。
	Name string
	// APIKey はキー本体。一覧表示の際は必ずマスキングすること。
	APIKey string
	// IsActive はキーが有効かどうか。失効済みはfalse。
	IsActive bool
	// CreatedAt は発行日時。
	CreatedAt time.Time
	// LastUsed は最終使用日時。
	LastUsed sql.NullTime
	// ExpiresAt は有効期限。NULLは無期限。
	ExpiresAt sql.NullTime
}

// LeaveCount は休暇種別ごとの承認済み取得回数。
type LeaveCount struct {
	// LeaveType は休暇種別（FULL DAY、HALF DAYなど）。
	LeaveType string
	// Count は承認済みの取得回数。
	Count int64
}
