package service

import (
	"testing"

	"github.com/Ra1n-42/webuntisapp/internal/dto"
	"github.com/Ra1n-42/webuntisapp/internal/model"
)

// ════════════════════════════════════════════════════════════
// 槽位放置引擎测试
// ════════════════════════════════════════════════════════════

func rec(side string, blockIdx, dayIdx, slotIdx, altIdx int, subject string) model.LessonRecord {
	return model.LessonRecord{
		Identity:   lessonIdentity(side, blockIdx, dayIdx, slotIdx, altIdx),
		Side:       side,
		BlockIndex: blockIdx,
		DayIndex:   dayIdx,
		SlotIndex:  slotIdx,
		AltIndex:   altIdx,
		Subject:    subject,
	}
}

// 无任何记录: 每个单元格都是显式空闲哨兵
func TestPlaceIntoGrid_AllFree(t *testing.T) {
	grid := placeIntoGrid(model.DefaultBlocks, 5, nil)

	if len(grid) != len(model.DefaultBlocks) {
		t.Fatalf("行数期望 %d, 实际 %d", len(model.DefaultBlocks), len(grid))
	}
	for bi, row := range grid {
		if len(row) != 5 {
			t.Fatalf("行 %d 列数期望 5, 实际 %d", bi, len(row))
		}
		for di, cell := range row {
			if !cell.Free || len(cell.Slots) != 0 {
				t.Errorf("单元格 (%d,%d) 应为空闲哨兵: %+v", bi, di, cell)
			}
		}
	}
}

// 左右列宽度策略
func TestPlaceIntoGrid_LayoutPolicy(t *testing.T) {
	records := []model.LessonRecord{
		// 仅 left → 整格宽
		rec(model.SideLeft, 0, 0, 0, 0, "Deutsch"),
		// left + right → 左右各半
		rec(model.SideLeft, 1, 1, 0, 0, "Mathematik"),
		rec(model.SideRight, 1, 1, 0, 0, "Mathe Vertretung"),
		// 仅 right → 整格宽
		rec(model.SideRight, 2, 2, 0, 0, "Sport"),
		rec(model.SideRight, 2, 2, 0, 1, "Sport Ersatz"),
	}

	grid := placeIntoGrid(model.DefaultBlocks, 5, records)

	leftOnly := grid[0][0]
	if leftOnly.Free || len(leftOnly.Slots) != 1 {
		t.Fatalf("单元格 (0,0) 应有 1 个槽位: %+v", leftOnly)
	}
	if leftOnly.Slots[0].Layout != dto.LayoutLeftOnly {
		t.Errorf("仅 left 布局期望 %s, 实际 %s", dto.LayoutLeftOnly, leftOnly.Slots[0].Layout)
	}

	split := grid[1][1].Slots[0]
	if split.Layout != dto.LayoutSplit {
		t.Errorf("双侧布局期望 %s, 实际 %s", dto.LayoutSplit, split.Layout)
	}
	if split.Left == nil || split.Left.Subject != "Mathematik" {
		t.Errorf("left 列内容错误: %+v", split.Left)
	}
	if len(split.Right) != 1 || split.Right[0].Subject != "Mathe Vertretung" {
		t.Errorf("right 列内容错误: %+v", split.Right)
	}

	rightOnly := grid[2][2].Slots[0]
	if rightOnly.Layout != dto.LayoutRightOnly {
		t.Errorf("仅 right 布局期望 %s, 实际 %s", dto.LayoutRightOnly, rightOnly.Layout)
	}
	if len(rightOnly.Right) != 2 {
		t.Errorf("right 组堆叠数期望 2, 实际 %d", len(rightOnly.Right))
	}
	// 组内保持原始顺序
	if rightOnly.Right[0].AltIndex != 0 || rightOnly.Right[1].AltIndex != 1 {
		t.Errorf("right 组顺序错乱: %+v", rightOnly.Right)
	}

	// 未占用的格子仍为空闲
	if !grid[3][3].Free {
		t.Error("未占用单元格应为空闲哨兵")
	}
}

// 同一单元格的多个槽位按原始相对顺序纵向堆叠，不合并
func TestPlaceIntoGrid_StackedSlots(t *testing.T) {
	records := []model.LessonRecord{
		rec(model.SideLeft, 1, 0, 2, 0, "Zweiter"),
		rec(model.SideLeft, 1, 0, 1, 0, "Erster"),
	}

	grid := placeIntoGrid(model.DefaultBlocks, 5, records)

	cell := grid[1][0]
	if len(cell.Slots) != 2 {
		t.Fatalf("期望 2 个堆叠槽位, 实际 %d", len(cell.Slots))
	}
	if cell.Slots[0].Left.Subject != "Erster" || cell.Slots[1].Left.Subject != "Zweiter" {
		t.Errorf("槽位堆叠顺序错乱: %+v", cell.Slots)
	}
}

// 取消课照常放置: 有课但全部取消 ≠ 空闲
func TestPlaceIntoGrid_CancelledNotFree(t *testing.T) {
	r := rec(model.SideRight, 0, 0, 0, 0, "Deutsch")
	r.Cancelled = true

	grid := placeIntoGrid(model.DefaultBlocks, 5, []model.LessonRecord{r})

	cell := grid[0][0]
	if cell.Free {
		t.Error("全取消单元格不应为空闲哨兵")
	}
	if !cell.Slots[0].Right[0].Cancelled {
		t.Error("取消标记丢失")
	}
}

// 落在节次目录之外的记录不进网格
func TestPlaceIntoGrid_OutOfCatalog(t *testing.T) {
	records := []model.LessonRecord{
		rec(model.SideLeft, -1, 0, 0, 0, "Pausenkurs"),
		rec(model.SideLeft, len(model.DefaultBlocks)+3, 0, 1, 0, "Kaputt"),
	}

	grid := placeIntoGrid(model.DefaultBlocks, 5, records)

	for bi, row := range grid {
		for di, cell := range row {
			if !cell.Free {
				t.Errorf("单元格 (%d,%d) 不应被占用", bi, di)
			}
		}
	}
}

// 端到端: 归一化 + 放置的半开区间边界
// 节次 {09:05-10:35} 之后是 {10:55-12:25}，起始恰为 10:55 的槽位属于后者
func TestPlacement_HalfOpenBoundary(t *testing.T) {
	boundary := lesson("Chemie", "10:55-12:25", "regular")
	raw := &model.RawSchedule{
		Days: map[string][]model.TimeSlot{
			"2024-01-01": {
				{Time: "10:55-12:25", Left: &boundary},
			},
		},
	}

	records, _ := normalizeSchedule(raw, model.DefaultBlocks, NewAnnotationStore())
	grid := placeIntoGrid(model.DefaultBlocks, 1, records)

	if !grid[1][0].Free {
		t.Error("10:55 槽位不应落入 09:05-10:35 节次")
	}
	if grid[2][0].Free {
		t.Error("10:55 槽位应落入 10:55-12:25 节次")
	}
}
