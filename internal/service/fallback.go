package service

import "strings"

// fallbackGroup pairs trigger keywords with a canned Vietnamese answer.
type fallbackGroup struct {
	keywords []string
	answer   string
}

// fallbackGroups are checked in a fixed priority order; the first group
// with a matching keyword wins.
var fallbackGroups = []fallbackGroup{
	{
		keywords: []string{"bao lâu", "thời gian", "mấy phút", "bao nhiêu phút"},
		answer:   "Thời gian nấu món này thường từ 30 đến 45 phút tùy nguyên liệu. Bạn nên sơ chế trước để tiết kiệm thời gian nhé!",
	},
	{
		keywords: []string{"lửa", "nhiệt độ", "nóng"},
		answer:   "Bạn nên đun lửa vừa để món ăn chín đều, tránh lửa quá to làm cháy bên ngoài mà bên trong chưa chín.",
	},
	{
		keywords: []string{"mấy người", "bao nhiêu người", "khẩu phần", "phần ăn"},
		answer:   "Công thức này phù hợp cho khoảng 3-4 người ăn. Bạn có thể tăng giảm nguyên liệu theo tỷ lệ tương ứng.",
	},
	{
		keywords: []string{"mẹo", "bí quyết", "lưu ý", "kinh nghiệm"},
		answer:   "Mẹo nhỏ: nêm nếm gia vị từ từ và nếm thử nhiều lần, ướp nguyên liệu ít nhất 15 phút trước khi nấu để món đậm vị hơn.",
	},
	{
		keywords: []string{"thịt mềm", "mềm thịt", "thịt dai", "thịt"},
		answer:   "Để thịt mềm, bạn nên ướp thịt với một ít dầu ăn và nước mắm, nấu lửa nhỏ và không đảo quá nhiều trong lúc nấu.",
	},
	{
		keywords: []string{"rau xanh", "màu xanh", "rau"},
		answer:   "Để rau giữ màu xanh đẹp, hãy chần rau trong nước sôi có chút muối rồi vớt ngay vào nước đá lạnh.",
	},
}

const genericFallbackAnswer = "Xin lỗi, trợ lý AI hiện không khả dụng. Bạn hãy thử lại sau ít phút, hoặc hỏi về thời gian nấu, nhiệt độ, khẩu phần hay mẹo nấu ăn để mình hỗ trợ ngay nhé!"

// FallbackAnswer picks a canned answer for the question. It is used when
// the language engine is unreachable so the chat endpoint stays available.
// Matching is case-insensitive substring against each group's keywords.
func FallbackAnswer(question string) string {
	q := strings.ToLower(question)
	for _, group := range fallbackGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(q, keyword) {
				return group.answer
			}
		}
	}
	return genericFallbackAnswer
}
