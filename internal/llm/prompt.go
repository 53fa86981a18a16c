package llm

import (
	"fmt"
	"strings"
)

// System prompts are fixed Vietnamese instructions; the product targets
// Vietnamese home cooking.
const (
	RecipeSystemPrompt    = "Bạn là đầu bếp chuyên nghiệp, chuyên món ăn Việt Nam. Trả lời bằng tiếng Việt."
	QuestionsSystemPrompt = "Bạn là chuyên gia ẩm thực. Chỉ trả lời bằng JSON hợp lệ, không thêm text nào khác."
)

// questionsRecipeExcerptLimit caps how much of the recipe is quoted back
// to the model when asking for suggested questions.
const questionsRecipeExcerptLimit = 200

// BuildRecipePrompt builds the recipe-generation prompt for an ingredient
// list.
func BuildRecipePrompt(ingredients []string) string {
	ingredientsText := strings.Join(ingredients, ", ")

	return fmt.Sprintf(`Từ các nguyên liệu: %s

Hãy gợi ý 3 món ăn Việt Nam phù hợp với công thức chi tiết bao gồm:

🍲 [Tên món ăn]

Nguyên liệu chính: %s

Nguyên liệu thêm:
- [Liệt kê nguyên liệu cần thêm]

Cách làm:
1. Sơ chế: [Hướng dẫn sơ chế]
2. Nấu: [Các bước nấu chi tiết]
3. Nêm nếm: [Cách nêm nếm]
4. Hoàn thành: [Bước cuối cùng]

⏱️ Thời gian: [X phút] | 🌟 Độ khó: [Dễ/Trung bình/Khó]

Lưu ý: Hướng dẫn phải rõ ràng, dễ hiểu, phù hợp với người Việt.
Khi người dùng hỏi về món ăn này, hãy trả lời bằng tiếng Việt và cung cấp công thức chi tiết.
Nếu hỏi các câu hỏi ngoài lĩnh vực này, hãy trả lời rằng bạn chỉ chuyên về món ăn Việt Nam và không thể cung cấp thông tin khác.`, ingredientsText, ingredientsText)
}

// BuildQuestionsPrompt builds the suggested-questions prompt. The model is
// asked for exactly 4 questions as a strict JSON array.
func BuildQuestionsPrompt(ingredients []string, recipe string) string {
	ingredientsText := strings.Join(ingredients, ", ")

	recipeLine := ""
	if recipe != "" {
		excerpt := recipe
		if runes := []rune(recipe); len(runes) > questionsRecipeExcerptLimit {
			excerpt = string(runes[:questionsRecipeExcerptLimit]) + "..."
		}
		recipeLine = "Và công thức: " + excerpt
	}

	return fmt.Sprintf(`Dựa trên nguyên liệu: %s
%s

Hãy tạo 4 câu hỏi phổ biến mà người dùng Việt Nam thường hỏi về món ăn này.

Trả về format JSON hợp lệ như sau:
[
  {"text": "Câu hỏi ngắn hiển thị", "question": "Câu hỏi đầy đủ gửi cho bot", "category": "time"},
  {"text": "Câu hỏi ngắn hiển thị", "question": "Câu hỏi đầy đủ gửi cho bot", "category": "technique"},
  {"text": "Câu hỏi ngắn hiển thị", "question": "Câu hỏi đầy đủ gửi cho bot", "category": "portion"},
  {"text": "Câu hỏi ngắn hiển thị", "question": "Câu hỏi đầy đủ gửi cho bot", "category": "tips"}
]

Categories chỉ được phép: time, technique, portion, tips`, ingredientsText, recipeLine)
}

// BuildChatSystemPrompt builds the system message for a session's
// follow-up chat, grounding answers in the session's ingredients and a
// recipe excerpt.
func BuildChatSystemPrompt(ingredients []string, recipeExcerpt string) string {
	var b strings.Builder
	b.WriteString("Bạn là đầu bếp chuyên nghiệp, chuyên món ăn Việt Nam. Trả lời ngắn gọn, rõ ràng bằng tiếng Việt về món ăn đang thảo luận.")
	if len(ingredients) > 0 {
		b.WriteString("\n\nNguyên liệu: ")
		b.WriteString(strings.Join(ingredients, ", "))
	}
	if recipeExcerpt != "" {
		b.WriteString("\n\nCông thức: ")
		b.WriteString(recipeExcerpt)
	}
	b.WriteString("\n\nNếu câu hỏi ngoài lĩnh vực nấu ăn, hãy trả lời rằng bạn chỉ hỗ trợ về món ăn Việt Nam.")
	return b.String()
}
