package models

// Platform 售卖渠道（直播平台）。内置渠道不可删除。
type Platform struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	IsCustom bool   `json:"is_custom"`
}

// BuiltinPlatforms 内置渠道列表
func BuiltinPlatforms() []Platform {
	return []Platform{
		{ID: "platform-facebook", Name: "Facebook", Icon: "facebook", Color: "#1877F2"},
		{ID: "platform-instagram", Name: "Instagram", Icon: "instagram", Color: "#E4405F"},
		{ID: "platform-tiktok", Name: "TikTok", Icon: "tiktok", Color: "#010101"},
		{ID: "platform-shopee", Name: "Shopee", Icon: "shopee", Color: "#EE4D2D"},
	}
}
