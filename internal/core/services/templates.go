package services

import (
	"fmt"
	"strings"
)

// UseCaseTemplate is the content written for a use case that has no
// existing file.
func UseCaseTemplate(name, operationName, step string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ユースケース：%s\n\n", name)
	b.WriteString("## 概要\n\n")
	if operationName != "" {
		fmt.Fprintf(&b, "業務オペレーション「%s」のユースケース。\n\n", operationName)
	}
	if step != "" {
		fmt.Fprintf(&b, "- **業務ステップ**: %s\n\n", step)
	}
	b.WriteString("## アクター\n\n- 未定義\n\n")
	b.WriteString("## 基本フロー\n\n1. 未定義\n")
	return b.String()
}

// PageTemplate is the content written for a use case whose page could not
// be matched.
func PageTemplate(pageName, useCaseName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ページ定義：%s\n\n", pageName)
	b.WriteString("## 概要\n\n")
	if useCaseName != "" {
		fmt.Fprintf(&b, "ユースケース「%s」の画面。\n\n", useCaseName)
	}
	b.WriteString("## 画面項目\n\n| 項目 | 型 | 説明 |\n|------|----|------|\n\n")
	b.WriteString("## 操作\n\n- 未定義\n")
	return b.String()
}
