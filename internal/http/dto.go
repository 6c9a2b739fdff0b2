package httpapi

import (
	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/resolver"
)

// AvailabilityJSON 可用性结果；不可用时带上阻塞的安装记录
type AvailabilityJSON struct {
	ID            string  `json:"id"`
	Available     bool    `json:"available"`
	Mount         string  `json:"mount,omitempty"`
	Configuration string  `json:"configuration,omitempty"`
	BeginDate     string  `json:"begin_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
}

func toAvailabilityJSON(items []resolver.AvailabilityRecord) []AvailabilityJSON {
	out := make([]AvailabilityJSON, 0, len(items))
	for _, r := range items {
		if r.Available {
			out = append(out, AvailabilityJSON{ID: r.ID, Available: true})
			continue
		}
		out = append(out, AvailabilityJSON{
			ID:            r.ID,
			Available:     false,
			Mount:         r.MountID,
			Configuration: r.ConfigurationID,
			BeginDate:     formatTime(r.BeginDate),
			EndDate:       formatTimePtr(r.EndDate),
		})
	}
	return out
}

// NodeJSON 层级树节点
type NodeJSON struct {
	Action   map[string]any `json:"action"`
	Entity   map[string]any `json:"entity"`
	Children []NodeJSON     `json:"children"`
}

func mountActionToJSON(m domain.MountAction) map[string]any {
	attrs := map[string]any{
		"begin_date":         formatTime(m.BeginDate),
		"end_date":           formatTimePtr(m.EndDate),
		"offset_x":           m.OffsetX,
		"offset_y":           m.OffsetY,
		"offset_z":           m.OffsetZ,
		"begin_description":  m.BeginDescription,
		"end_description":    m.EndDescription,
		"configuration_id":   m.ConfigurationID,
		"parent_platform_id": nil,
	}
	if m.HasParent() {
		attrs["parent_platform_id"] = *m.ParentPlatformID
	}
	return map[string]any{
		"id":         m.ID,
		"type":       m.TypeName(),
		"attributes": attrs,
	}
}

func toNodeJSON(forest []*resolver.Node) []NodeJSON {
	out := make([]NodeJSON, 0, len(forest))
	for _, n := range forest {
		out = append(out, NodeJSON{
			Action:   mountActionToJSON(n.Action),
			Entity:   n.Entity.ToJSON(),
			Children: toNodeJSON(n.Children),
		})
	}
	return out
}

// ParameterValuesDocument JSON:API 文档
type ParameterValuesDocument struct {
	JSONAPI map[string]string        `json:"jsonapi"`
	Data    []ParameterValueResource `json:"data"`
}

type ParameterValueResource struct {
	ID         string                   `json:"id"`
	Type       string                   `json:"type"`
	Attributes ParameterValueAttributes `json:"attributes"`
}

type ParameterValueAttributes struct {
	Label    string  `json:"label"`
	Value    *string `json:"value"`
	UnitName string  `json:"unit_name"`
	UnitURI  string  `json:"unit_uri"`
}

func toParameterValuesDocument(items []resolver.ParameterValue) ParameterValuesDocument {
	doc := ParameterValuesDocument{
		JSONAPI: map[string]string{"version": "1.0"},
		Data:    make([]ParameterValueResource, 0, len(items)),
	}
	for _, v := range items {
		doc.Data = append(doc.Data, ParameterValueResource{
			ID:   v.Parameter.ID,
			Type: v.TypeName(),
			Attributes: ParameterValueAttributes{
				Label:    v.Parameter.Label,
				Value:    v.Value,
				UnitName: v.Parameter.UnitName,
				UnitURI:  v.Parameter.UnitURI,
			},
		})
	}
	return doc
}

// TimepointJSON 安装/卸载时刻
type TimepointJSON struct {
	Timepoint string            `json:"timepoint"`
	Type      string            `json:"type"`
	Mount     string            `json:"mount"`
	Equipment map[string]string `json:"equipment"`
}

func toTimepointsJSON(items []resolver.Timepoint) []TimepointJSON {
	out := make([]TimepointJSON, 0, len(items))
	for _, tp := range items {
		out = append(out, TimepointJSON{
			Timepoint: formatTime(tp.Timepoint),
			Type:      string(tp.Type),
			Mount:     tp.MountID,
			Equipment: map[string]string{"id": tp.Equipment.ID, "type": string(tp.Equipment.Kind)},
		})
	}
	return out
}
