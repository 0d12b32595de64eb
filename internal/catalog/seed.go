package catalog

// DefaultProducts is the built-in dessert assortment served when no external
// catalog source is configured. Prices are minor units.
func DefaultProducts() []Product {
	return []Product{
		{ID: "tiramisu", Name: "Тирамису", Description: "Классический итальянский десерт", Price: 85000, Collection: "western", PriceCategory: "high"},
		{ID: "cheesecake-ny", Name: "Чизкейк Нью-Йорк", Description: "Традиционный американский чизкейк", Price: 95000, Collection: "western", PriceCategory: "high"},
		{ID: "macarons", Name: "Макаронс", Description: "Французские мини-пирожные", Price: 15000, Collection: "western", PriceCategory: "low"},
		{ID: "brownie", Name: "Брауни", Description: "Классический американский шоколадный десерт", Price: 45000, Collection: "western", PriceCategory: "mid"},
		{ID: "oat-pudding", Name: "Овсяный пудинг", Description: "Лёгкий десерт из овсяной муки", Price: 35000, Collection: "western", PriceCategory: "mid"},
		{ID: "flodni", Name: "Флодни", Description: "Венгерский торт с четырьмя слоями", Price: 89000, Collection: "western", PriceCategory: "high"},
		{ID: "manty-tvorog", Name: "Манты с творогом", Description: "Традиционные восточные пельмени", Price: 55000, Collection: "eastern", PriceCategory: "mid"},
		{ID: "khachapuri-cherry", Name: "Хачапури с вишней", Description: "Восточное пирожное с вишней", Price: 48000, Collection: "eastern", PriceCategory: "mid"},
		{ID: "cinnamon-cookies", Name: "Печенье с корицей", Description: "Мягкое печенье с корицей", Price: 35000, Collection: "eastern", PriceCategory: "mid"},
		{ID: "chibau", Name: "Чибау", Description: "Традиционный восточный десерт из слоёного теста", Price: 65000, Collection: "eastern", PriceCategory: "mid"},
		{ID: "apple-tvorog-pie", Name: "Пирог с творогом и яблоками", Description: "Восточный пирог с творожной начинкой", Price: 72000, Collection: "eastern", PriceCategory: "high"},
		{ID: "almond-halva", Name: "Халва с миндалём", Description: "Традиционное восточное сладкое изделие", Price: 42000, Collection: "eastern", PriceCategory: "mid"},
	}
}
