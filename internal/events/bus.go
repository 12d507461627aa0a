package events

import (
	"sync"
	"time"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/models"
)

// OrderCreated 订单创建事件载荷
type OrderCreated struct {
	OrderID    string
	ProductID  string
	PlatformID string
	Quantity   int
	TotalPrice models.Money
	CreatedAt  time.Time
}

// DataCleared 数据清空事件载荷
type DataCleared struct {
	CustomPlatforms bool
	Products        bool
	Orders          bool
}

// DemoDataRequested 演示数据请求载荷
type DemoDataRequested struct {
	Reason string
}

// AutoSaveRequested 存档请求载荷（应用退至后台时触发）
type AutoSaveRequested struct {
	Reason string
}

const subscriberBuffer = 16

// Bus 进程内发布订阅总线。
// 单主题内按发布顺序投递（FIFO），订阅者积压时丢弃新事件，
// 这些信号只做提示用途，核心正确性不依赖其送达。
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan interface{}
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]chan interface{})}
}

// Subscribe 订阅主题，返回只读事件通道
func (b *Bus) Subscribe(topic string) <-chan interface{} {
	ch := make(chan interface{}, subscriberBuffer)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()
	return ch
}

// Publish 发布事件。不阻塞发布方。
func (b *Bus) Publish(topic string, payload interface{}) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := b.subs[topic]
	b.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- payload:
		default:
			// 订阅者积压，丢弃
		}
	}
}

// PublishOrderCreated 发布订单创建事件
func (b *Bus) PublishOrderCreated(payload OrderCreated) {
	b.Publish(constants.TopicOrderCreated, payload)
}

// PublishDataCleared 发布数据清空事件
func (b *Bus) PublishDataCleared(payload DataCleared) {
	b.Publish(constants.TopicDataCleared, payload)
}

// PublishDemoDataRequested 发布演示数据请求事件
func (b *Bus) PublishDemoDataRequested(payload DemoDataRequested) {
	b.Publish(constants.TopicDemoDataRequested, payload)
}

// PublishAutoSaveRequested 发布存档请求事件
func (b *Bus) PublishAutoSaveRequested(payload AutoSaveRequested) {
	b.Publish(constants.TopicAutoSaveRequested, payload)
}
