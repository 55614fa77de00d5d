package service

import "errors"

var (
	ErrKindergartenNotFound      = errors.New("施設が見つかりません")
	ErrNotServiceDay             = errors.New("この日は配食日ではありません")
	ErrStrictLocked              = errors.New("締切を過ぎているため変更できません。事務局へお電話ください。")
	ErrGraceConfirmationRequired = errors.New("3日前を過ぎた変更です。電話連絡が必要です。続けますか？")
	ErrUnknownClass              = errors.New("クラスが登録されていません")
	ErrInvalidMealType           = errors.New("この施設では選択できない食事区分です")
	ErrNegativeCount             = errors.New("人数は0以上で入力してください")
	ErrOrderNotFound             = errors.New("注文が見つかりません")
	ErrOrderKeyMismatch          = errors.New("order_id と日付・クラスが一致しません")
)
