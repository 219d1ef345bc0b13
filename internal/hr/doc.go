// Package hr は休暇・人事データ照会サービスの内部実装を提供する。
//
// APIキー認証ゲートの内側で、従業員検索（部分一致とあいまい一致）、
// 従業員詳細の取得、休暇残日数の算出、APIキーの管理を担当する。
// クレデンシャルセットは起動時に環境変数とキーストアから一度だけ構築し、
// プロセスの生存期間中は不変として扱う。
package hr
