package constants

// 支付状态常量（严格三态循环：unset -> pending -> paid -> unset）
const (
	PaymentStatusUnset   = "unset"
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// 订单来源常量
const (
	OrderSourceLive          = "live"
	OrderSourceDirectMessage = "direct_message"
	OrderSourceWalkIn        = "walk_in"
	OrderSourceOther         = "other"
)

// 折扣类型常量
const (
	DiscountKindNone       = "none"
	DiscountKindPercentage = "percentage"
	DiscountKindFlat       = "flat"
)

// 计时器状态常量
const (
	SessionStatusIdle    = "idle"
	SessionStatusRunning = "running"
	SessionStatusPaused  = "paused"
	SessionStatusEnded   = "ended"
)

// 商品册容量常量
const (
	// CatalogCapacity 单个商品册最多可容纳的商品槽位数
	CatalogCapacity = 12
	// CatalogResetSlots 清空商品后保留的空槽位数（界面约定）
	CatalogResetSlots = 4
	// ProductNameMaxLen 商品名称最大长度（按字符计）
	ProductNameMaxLen = 15
)

// 持久化记录键常量
const (
	RecordKeyCatalogs  = "catalogs"
	RecordKeyOrders    = "orders"
	RecordKeyPlatforms = "platforms"
	RecordKeySession   = "session"
)

// 事件主题常量
const (
	TopicOrderCreated      = "order_created"
	TopicDataCleared       = "data_cleared"
	TopicDemoDataRequested = "demo_data_requested"
	TopicAutoSaveRequested = "auto_save_requested"
)

// 异步任务常量
const (
	QueueDefault    = "default"
	TaskExportCSV   = "export:csv"
	ExportTimestamp = "2006-01-02 15:04:05"
)
