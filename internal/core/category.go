package core

// Category is static reference data for entry classification. The set is
// compiled in; users cannot add categories, and stored data never carries
// more than the category id.
type Category struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	IconName string `json:"iconName"`
	Color    string `json:"color"`
}

// UncategorizedID is the synthetic category used for entries with a
// missing or unknown categoryId.
const UncategorizedID = "other"

var categories = []Category{
	{ID: "food", Label: "食費", IconName: "restaurant", Color: "#FDD835"},
	{ID: "clothes", Label: "衣服", IconName: "shirt", Color: "#42A5F5"},
	{ID: "hobby", Label: "趣味", IconName: "game-controller", Color: "#AB47BC"},
	{ID: "transport", Label: "交通費", IconName: "bus", Color: "#26C6DA"},
	{ID: "daily", Label: "生活用品", IconName: "cart", Color: "#66BB6A"},
	{ID: "social", Label: "交際費", IconName: "people", Color: "#FFA726"},
	{ID: "rent", Label: "家賃", IconName: "home", Color: "#EF5350"},
	{ID: "communication", Label: "通信費", IconName: "wifi", Color: "#7E57C2"},
	{ID: "salary", Label: "給料", IconName: "wallet", Color: "#29B6F6"},
	{ID: "side_job", Label: "副業", IconName: "bicycle", Color: "#AB47BC"},
	{ID: "other_expense", Label: "その他支出", IconName: "ellipsis-horizontal-circle", Color: "#BDBDBD"},
	{ID: "other_income", Label: "その他収入", IconName: "ellipsis-horizontal-circle", Color: "#BDBDBD"},
	{ID: UncategorizedID, Label: "未分類", IconName: "help-circle", Color: "#999999"},
}

var categoryIndex = func() map[string]Category {
	idx := make(map[string]Category, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}()

// Categories returns the full category table in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoryByID resolves a category id to its metadata. The lookup is
// total: empty and unknown ids resolve to the uncategorized variant, so
// callers never need a fallback of their own.
func CategoryByID(id string) Category {
	if c, ok := categoryIndex[id]; ok {
		return c
	}
	return categoryIndex[UncategorizedID]
}
