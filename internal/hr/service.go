package hr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	hrdb "github.com/nao1215/leavehub/internal/hr/db"
)

// ErrEmployeeNotFound は指定された従業員が存在しないことを示す。
var ErrEmployeeNotFound = errors.New("従業員が見つかりません")

// Service は従業員・休暇データの照会を担当するサービス層。
type Service struct {
	// queries はクエリ実行オブジェクト。
	queries *hrdb.Queries
}

// NewService は新しいサービス層を生成する。
func NewService(queries *hrdb.Queries) *Service {
	return &Service{queries: queries}
}

// SearchEmployees は検索語で従業員を検索する。
// 氏名・メール・携帯番号・社員番号の部分一致で見つからない場合、
// 在籍中の従業員に対するあいまい一致にフォールバックし、スコア上位
// 5件を返す。
func (s *Service) SearchEmployees(ctx context.Context, term string) ([]hrdb.Developer, error) {
	developers, err := s.queries.SearchDevelopers(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("従業員の検索に失敗: %w", err)
	}
	if len(developers) > 0 {
		return developers, nil
	}

	active, err := s.queries.ListActiveDevelopers(ctx)
	if err != nil {
		return nil, fmt.Errorf("あいまい検索用の従業員一覧取得に失敗: %w", err)
	}

	matches := fuzzyMatchDevelopers(term, active, fuzzyThreshold)
	if len(matches) > maxFuzzyResults {
		matches = matches[:maxFuzzyResults]
	}

	result := make([]hrdb.Developer, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.developer)
	}
	return result, nil
}

// GetEmployee は指定IDの従業員を取得する。
// 存在しない場合はErrEmployeeNotFoundを返す。
func (s *Service) GetEmployee(ctx context.Context, id int64) (hrdb.Developer, error) {
	dev, err := s.queries.GetDeveloperByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return hrdb.Developer{}, ErrEmployeeNotFound
	}
	if err != nil {
		return hrdb.Developer{}, fmt.Errorf("従業員の取得に失敗: %w", err)
	}
	return dev, nil
}

// ResolutionStatus は従業員の特定結果の状態。
type ResolutionStatus string

const (
	// ResolutionResolved は従業員を1名に特定できたことを示す。
	ResolutionResolved ResolutionStatus = "resolved"
	// ResolutionAmbiguous は候補が複数あり特定できなかったことを示す。
	ResolutionAmbiguous ResolutionStatus = "ambiguous"
	// ResolutionNotFound は該当する従業員がいなかったことを示す。
	ResolutionNotFound ResolutionStatus = "not_found"
)

// Resolution は氏名からの従業員特定の結果。
type Resolution struct {
	// Status は特定結果の状態。
	Status ResolutionStatus
	// Employee は特定できた従業員。Statusがresolvedの場合のみ設定される。
	Employee *hrdb.Developer
	// Candidates は候補の従業員一覧。Statusがambiguousの場合のみ設定される。
	Candidates []hrdb.Developer
}

// ResolveEmployee は氏名から従業員を一意に特定する。
// 候補が複数ある場合は追加コンテキスト（役職・メール・社員番号・氏名の
// 部分文字列）で絞り込み、それでも1名に絞れなければ候補一覧を返す。
func (s *Service) ResolveEmployee(ctx context.Context, name, additionalContext string) (Resolution, error) {
	employees, err := s.SearchEmployees(ctx, name)
	if err != nil {
		return Resolution{}, err
	}

	if len(employees) == 0 {
		return Resolution{Status: ResolutionNotFound}, nil
	}
	if len(employees) == 1 {
		return Resolution{Status: ResolutionResolved, Employee: &employees[0]}, nil
	}

	if additionalContext != "" {
		lower := strings.ToLower(additionalContext)
		var filtered []hrdb.Developer
		for _, emp := range employees {
			if strings.Contains(strings.ToLower(emp.Designation.String), lower) ||
				strings.Contains(strings.ToLower(emp.EmailID.String), lower) ||
				strings.Contains(strings.ToLower(emp.EmpNumber.String), lower) ||
				strings.Contains(strings.ToLower(emp.DeveloperName), lower) {
				filtered = append(filtered, emp)
			}
		}
		if len(filtered) == 1 {
			return Resolution{Status: ResolutionResolved, Employee: &filtered[0]}, nil
		}
	}

	return Resolution{Status: ResolutionAmbiguous, Candidates: employees}, nil
}

// LeaveDetail は休暇種別ごとの使用実績。
type LeaveDetail struct {
	// LeaveType は休暇種別。
	LeaveType string
	// Count は承認済みの取得回数。
	Count int64
	// Days は日数換算した使用量。
	Days float64
}

// LeaveBalance は従業員の休暇残日数の算出結果。
type LeaveBalance struct {
	// OpeningBalance は期初の休暇残日数。
	OpeningBalance float64
	// UsedLeaves は使用済み日数の合計。
	UsedLeaves float64
	// CurrentBalance は現在の残日数（期初残 - 使用済み）。
	CurrentBalance float64
	// Details は休暇種別ごとの内訳。
	Details []LeaveDetail
}

// GetLeaveBalance は従業員の休暇残日数を算出する。
// 承認済みの休暇申請のみを集計対象とし、種別ごとの日数換算値を掛けて
// 使用済み日数を求める。
func (s *Service) GetLeaveBalance(ctx context.Context, developerID int64) (LeaveBalance, error) {
	dev, err := s.GetEmployee(ctx, developerID)
	if err != nil {
		return LeaveBalance{}, err
	}

	counts, err := s.queries.CountApprovedLeavesByType(ctx, developerID)
	if err != nil {
		return LeaveBalance{}, fmt.Errorf("休暇実績の集計に失敗: %w", err)
	}

	var used float64
	details := make([]LeaveDetail, 0, len(counts))
	for _, lc := range counts {
		days := float64(lc.Count) * leaveTypeWeight(lc.LeaveType)
		used += days
		details = append(details, LeaveDetail{
			LeaveType: lc.LeaveType,
			Count:     lc.Count,
			Days:      days,
		})
	}

	return LeaveBalance{
		OpeningBalance: dev.OpeningLeaveBalance,
		UsedLeaves:     used,
		CurrentBalance: dev.OpeningLeaveBalance - used,
		Details:        details,
	}, nil
}

// leaveTypeWeight は休暇種別1回あたりの日数換算値を返す。
// 未知の種別は1日として扱う。
func leaveTypeWeight(leaveType string) float64 {
	switch strings.ToUpper(leaveType) {
	case "FULL DAY":
		return 1.0
	case "HALF DAY", "COMPENSATION HALF DAY":
		return 0.5
	case "2 HRS", "COMPENSATION 2 HRS":
		return 0.25
	default:
		return 1.0
	}
}
