package httpapi

import (
	"bytes"
	"fmt"

	"github.com/sensor-management-system/orchestration-sub007/internal/domain"
	"github.com/sensor-management-system/orchestration-sub007/internal/resolver"
	"github.com/xuri/excelize/v2"
)

// HierarchyExportHeader 层级导出表头
var HierarchyExportHeader = []string{
	"Depth",
	"Type",
	"Equipment ID",
	"Short Name",
	"Parent Platform",
	"Begin",
	"End",
	"Offset X",
	"Offset Y",
	"Offset Z",
}

const hierarchySheetName = "Mounting Actions"

// GenerateHierarchyExport 将层级森林按深度优先展开为表格
func GenerateHierarchyExport(configuration domain.Configuration, forest []*resolver.Node) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo 之前不能 Close

	index, err := f.NewSheet(hierarchySheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   configuration.Label,
		Subject: "configuration " + configuration.ID,
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set doc props: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range HierarchyExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(hierarchySheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(hierarchySheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{8, 12, 14, 30, 16, 24, 24, 10, 10, 10}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(hierarchySheetName, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	row := 2
	var writeErr error
	resolver.Walk(forest, func(n *resolver.Node, depth int) {
		if writeErr != nil {
			return
		}
		parent := ""
		if n.Action.HasParent() {
			parent = *n.Action.ParentPlatformID
		}
		end := ""
		if n.Action.EndDate != nil {
			end = formatTime(*n.Action.EndDate)
		}
		values := []any{
			depth,
			string(n.Entity.Kind),
			n.Entity.ID,
			n.Entity.ShortName,
			parent,
			formatTime(n.Action.BeginDate),
			end,
			n.Action.OffsetX,
			n.Action.OffsetY,
			n.Action.OffsetZ,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			writeErr = err
			return
		}
		if err := f.SetSheetRow(hierarchySheetName, cell, &values); err != nil {
			writeErr = fmt.Errorf("failed to write row %d: %w", row, err)
			return
		}
		row++
	})
	if writeErr != nil {
		f.Close()
		return nil, writeErr
	}

	// 冻结表头
	if err := f.SetPanes(hierarchySheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}
