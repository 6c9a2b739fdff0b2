package mqtt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/service"

	"go.uber.org/zap"
)

// MountEvent 写入侧发布的安装记录变更事件
type MountEvent struct {
	ConfigurationID string `json:"configuration_id"`
	EquipmentKind   string `json:"equipment_kind"`
	EquipmentID     string `json:"equipment_id"`
}

// MountEventBroker 订阅安装记录变更，使快照缓存失效
type MountEventBroker struct {
	cache   service.CacheInvalidator
	timeout time.Duration
	logger  *zap.Logger
}

// NewMountEventBroker 创建 MountEventBroker
func NewMountEventBroker(cache service.CacheInvalidator, logger *zap.Logger) *MountEventBroker {
	return &MountEventBroker{
		cache:   cache,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// HandleMessage 处理 MQTT 消息；payload 为单个事件或事件数组
// configuration_id 为空的事件使全部缓存失效
func (b *MountEventBroker) HandleMessage(topic string, payload []byte) error {
	events, err := decodeMountEvents(payload)
	if err != nil {
		return fmt.Errorf("failed to decode mount event on %s: %w", topic, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	invalidated := make(map[string]bool, len(events))
	for _, ev := range events {
		if ev.EquipmentKind != "" && !domain.EquipmentKind(ev.EquipmentKind).Valid() {
			b.logger.Warn("Ignoring mount event with unknown equipment kind",
				zap.String("topic", topic),
				zap.String("equipment_kind", ev.EquipmentKind),
			)
			continue
		}
		if invalidated[ev.ConfigurationID] {
			continue
		}
		invalidated[ev.ConfigurationID] = true

		if err := b.cache.Invalidate(ctx, ev.ConfigurationID); err != nil {
			return fmt.Errorf("failed to invalidate mount cache for configuration %q: %w", ev.ConfigurationID, err)
		}
		b.logger.Debug("Mount cache invalidated",
			zap.String("configuration_id", ev.ConfigurationID),
			zap.String("equipment_kind", ev.EquipmentKind),
			zap.String("equipment_id", ev.EquipmentID),
		)
	}
	return nil
}

func decodeMountEvents(payload []byte) ([]MountEvent, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var events []MountEvent
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, err
		}
		return events, nil
	}
	var ev MountEvent
	if err := json.Unmarshal(trimmed, &ev); err != nil {
		return nil, err
	}
	return []MountEvent{ev}, nil
}
