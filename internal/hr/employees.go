package hr

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	hrdb "github.com/nao1215/leavehub/internal/hr/db"
)

// employeeResponse は従業員のJSONレスポンス構造。
type employeeResponse struct {
	// ID は従業員の一意識別子。
	ID int64 `json:"id"`
	// Name は従業員のフルネーム。
	Name string `json:"name"`
	// Designation は役職。
	Designation string `json:"designation,omitempty"`
	// Email はメールアドレス。
	Email string `json:"email,omitempty"`
	// Mobile は携帯電話番号。
	Mobile string `json:"mobile,omitempty"`
	// EmpNumber は社員番号。
	EmpNumber string `json:"emp_number,omitempty"`
	// BloodGroup は血液型。
	BloodGroup string `json:"blood_group,omitempty"`
	// Username は関連付けられたログインユーザー名。
	Username string `json:"username,omitempty"`
	// DateOfJoining は入社日。
	DateOfJoining string `json:"date_of_joining,omitempty"`
	// Active は在籍中かどうか。
	Active bool `json:"active"`
	// PfEnabled はPF（積立基金）への加入有無。
	PfEnabled bool `json:"pf_enabled"`
	// PfJoinDate はPF加入日。
	PfJoinDate string `json:"pf_join_date,omitempty"`
}

// toEmployeeResponse はDB行をJSONレスポンスに変換する。
func toEmployeeResponse(d hrdb.Developer) employeeResponse {
	return employeeResponse{
		ID:            d.ID,
		Name:          d.DeveloperName,
		Designation:   d.Designation.String,
		Email:         d.EmailID.String,
		Mobile:        d.Mobile.String,
		EmpNumber:     d.EmpNumber.String,
		BloodGroup:    d.BloodGroup.String,
		Username:      d.Username.String,
		DateOfJoining: d.Doj.String,
		Active:        d.IsActive(),
		PfEnabled:     d.IsPfEnabled,
		PfJoinDate:    d.PfJoinDate.String,
	}
}

// leaveDetailResponse は休暇種別ごとの使用実績のJSONレスポンス構造。
type leaveDetailResponse struct {
	// LeaveType は休暇種別。
	LeaveType string `json:"leave_type"`
	// Count は承認済みの取得回数。
	Count int64 `json:"count"`
	// Days は日数換算した使用量。
	Days float64 `json:"days"`
}

// leaveBalanceResponse は休暇残日数のJSONレスポンス構造。
type leaveBalanceResponse struct {
	// OpeningBalance は期初の休暇残日数。
	OpeningBalance float64 `json:"opening_balance"`
	// UsedLeaves は使用済み日数の合計。
	UsedLeaves float64 `json:"used_leaves"`
	// CurrentBalance は現在の残日数。
	CurrentBalance float64 `json:"current_balance"`
	// Details は休暇種別ごとの内訳。
	Details []leaveDetailResponse `json:"details"`
}

// toLeaveBalanceResponse は算出結果をJSONレスポンスに変換する。
func toLeaveBalanceResponse(b LeaveBalance) leaveBalanceResponse {
	details := make([]leaveDetailResponse, 0, len(b.Details))
	for _, d := range b.Details {
		details = append(details, leaveDetailResponse{
			LeaveType: d.LeaveType,
			Count:     d.Count,
			Days:      d.Days,
		})
	}
	return leaveBalanceResponse{
		OpeningBalance: b.OpeningBalance,
		UsedLeaves:     b.UsedLeaves,
		CurrentBalance: b.CurrentBalance,
		Details:        details,
	}
}

// handleSearchEmployees は従業員検索を処理するハンドラを返す。
// クエリパラメータqの部分一致で検索し、見つからない場合はあいまい一致に
// フォールバックする。
func (s *Server) handleSearchEmployees() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "クエリパラメータqは必須です"})
			return
		}

		employees, err := s.service.SearchEmployees(c.Request.Context(), query)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "従業員の検索に失敗しました"})
			log.Printf("従業員検索エラー: %v", err)
			return
		}

		responses := make([]employeeResponse, 0, len(employees))
		for _, emp := range employees {
			responses = append(responses, toEmployeeResponse(emp))
		}

		c.JSON(http.StatusOK, gin.H{
			"query":     query,
			"count":     len(responses),
			"employees": responses,
		})
	}
}

// handleGetEmployee は従業員詳細取得を処理するハンドラを返す。
// 休暇残日数も併せて返す。残日数の算出に失敗した場合は詳細のみを返す。
func (s *Server) handleGetEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "従業員IDが不正です"})
			return
		}

		emp, err := s.service.GetEmployee(c.Request.Context(), id)
		if errors.Is(err, ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "従業員が見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "従業員の取得に失敗しました"})
			log.Printf("従業員取得エラー: %v", err)
			return
		}

		response := gin.H{"employee": toEmployeeResponse(emp)}

		balance, err := s.service.GetLeaveBalance(c.Request.Context(), id)
		if err != nil {
			log.Printf("休暇残日数の算出エラー: %v", err)
		} else {
			response["leave_balance"] = toLeaveBalanceResponse(balance)
		}

		c.JSON(http.StatusOK, response)
	}
}

// handleGetLeaveBalance は休暇残日数取得を処理するハンドラを返す。
func (s *Server) handleGetLeaveBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "従業員IDが不正です"})
			return
		}

		balance, err := s.service.GetLeaveBalance(c.Request.Context(), id)
		if errors.Is(err, ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "従業員が見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "休暇残日数の算出に失敗しました"})
			log.Printf("休暇残日数の算出エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"employee_id":   id,
			"leave_balance": toLeaveBalanceResponse(balance),
		})
	}
}

// handleResolveEmployee は氏名からの従業員特定を処理するハンドラを返す。
// クエリパラメータnameで検索し、contextで候補を絞り込む。
func (s *Server) handleResolveEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "クエリパラメータnameは必須です"})
			return
		}

		resolution, err := s.service.ResolveEmployee(c.Request.Context(), name, c.Query("context"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "従業員の特定に失敗しました"})
			log.Printf("従業員特定エラー: %v", err)
			return
		}

		switch resolution.Status {
		case ResolutionResolved:
			c.JSON(http.StatusOK, gin.H{
				"status":   string(resolution.Status),
				"employee": toEmployeeResponse(*resolution.Employee),
			})
		case ResolutionAmbiguous:
			candidates := make([]employeeResponse, 0, len(resolution.Candidates))
			for _, emp := range resolution.Candidates {
				candidates = append(candidates, toEmployeeResponse(emp))
			}
			c.JSON(http.StatusOK, gin.H{
				"status":     string(resolution.Status),
				"message":    "候補が複数見つかりました。役職・メールアドレス・社員番号で絞り込んでください",
				"candidates": candidates,
			})
		default:
			c.JSON(http.StatusNotFound, gin.H{
				"status": string(ResolutionNotFound),
				"error":  "該当する従業員が見つかりません",
			})
		}
	}
}
