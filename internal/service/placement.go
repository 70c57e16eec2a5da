package service

import (
	"sort"

	"github.com/Ra1n-42/webuntisapp/internal/dto"
	"github.com/Ra1n-42/webuntisapp/internal/model"
)

// ── 槽位放置引擎 ──────────────────────────────────────────────
//
// 职责：把归一化记录按 (节次, 星期) 分桶成固定网格。
//
// 规则：
//   - 节次归属在归一化阶段按半开区间 [start, end) 算定
//     （BlockIndex），此处仅分桶；-1（区间外）的记录不进网格。
//   - 同一单元格的多个槽位按原始相对顺序纵向堆叠，互不合并。
//   - 槽位内 left 占左列，right 依序堆叠占右列；
//     仅一侧有内容时占满整格宽。
//   - 无任何槽位的单元格为显式空闲哨兵，与"有课但全部取消"可区分。
// ─────────────────────────────────────────────────────────────

// placeIntoGrid 构建 [节次][星期] 网格
func placeIntoGrid(blocks []model.Block, numDays int, records []model.LessonRecord) [][]dto.GridCell {
	grid := make([][]dto.GridCell, len(blocks))
	for bi := range grid {
		grid[bi] = make([]dto.GridCell, numDays)
		for di := range grid[bi] {
			grid[bi][di] = dto.GridCell{Free: true}
		}
	}

	// 按单元格聚合槽位
	type cellKey struct{ block, day int }
	slotsByCell := make(map[cellKey]map[int]*dto.PlacedSlot)

	for i := range records {
		rec := records[i]
		if rec.BlockIndex < 0 || rec.BlockIndex >= len(blocks) {
			continue // 落在节次目录之外的槽位不进网格
		}
		if rec.DayIndex < 0 || rec.DayIndex >= numDays {
			continue
		}

		key := cellKey{rec.BlockIndex, rec.DayIndex}
		byslot := slotsByCell[key]
		if byslot == nil {
			byslot = make(map[int]*dto.PlacedSlot)
			slotsByCell[key] = byslot
		}
		ps := byslot[rec.SlotIndex]
		if ps == nil {
			ps = &dto.PlacedSlot{}
			byslot[rec.SlotIndex] = ps
		}

		if rec.Side == model.SideLeft {
			ps.Left = &rec
		} else {
			// 记录已按组内序号有序
			ps.Right = append(ps.Right, rec)
		}
	}

	for key, byslot := range slotsByCell {
		slotIdxs := make([]int, 0, len(byslot))
		for si := range byslot {
			slotIdxs = append(slotIdxs, si)
		}
		sort.Ints(slotIdxs)

		cell := dto.GridCell{Free: false}
		for _, si := range slotIdxs {
			ps := byslot[si]
			ps.Layout = layoutFor(ps)
			cell.Slots = append(cell.Slots, *ps)
		}
		grid[key.block][key.day] = cell
	}

	return grid
}

// layoutFor 按左右两列占用情况确定槽位布局
func layoutFor(ps *dto.PlacedSlot) string {
	switch {
	case ps.Left != nil && len(ps.Right) > 0:
		return dto.LayoutSplit
	case ps.Left != nil:
		return dto.LayoutLeftOnly
	default:
		return dto.LayoutRightOnly
	}
}
