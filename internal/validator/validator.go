package validator

import (
	"strings"

	v10 "github.com/go-playground/validator/v10"
)

var validate = v10.New(v10.WithRequiredStructEnabled())

// Struct は入力DTOを検証して項目別エラーを返す。
// 問題なければnil。キーはjsonタグ由来の小文字フィールド名。
func Struct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(v10.ValidationErrors)
	if !ok {
		return map[string]string{"_": "invalid input"}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = message(fe)
	}
	return fields
}

// タグごとの素朴なメッセージ
func message(fe v10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email"
	case "min":
		return "too short (min " + fe.Param() + ")"
	case "max":
		return "too long (max " + fe.Param() + ")"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "invalid"
	}
}
