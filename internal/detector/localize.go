package detector

// vietnameseNames maps the model's English class names to the Vietnamese
// names shown to users. Unmapped names pass through unchanged.
var vietnameseNames = map[string]string{
	"beef":          "thịt bò",
	"pork":          "thịt heo",
	"chicken":       "thịt gà",
	"shrimp":        "tôm",
	"fish":          "cá",
	"egg":           "trứng",
	"tofu":          "đậu hũ",
	"carrot":        "cà rốt",
	"tomato":        "cà chua",
	"potato":        "khoai tây",
	"onion":         "hành tây",
	"garlic":        "tỏi",
	"cabbage":       "bắp cải",
	"cucumber":      "dưa leo",
	"chili":         "ớt",
	"lemongrass":    "sả",
	"ginger":        "gừng",
	"mushroom":      "nấm",
	"bean sprout":   "giá đỗ",
	"morning glory": "rau muống",
}

// Localize maps an engine class name to its Vietnamese display name,
// falling back to the original name when no mapping exists.
func Localize(name string) string {
	if vi, ok := vietnameseNames[name]; ok {
		return vi
	}
	return name
}
