package service

import (
	"fmt"

	"gorm.io/gorm"
)

// PublicPerPage 是公开列表页的固定分页大小。
const PublicPerPage = 6

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// uniqueSlug 在指定表内为 base 找到未被占用的 slug。
// 冲突时依次追加数字后缀：hello-world、hello-world-2、hello-world-3。
func uniqueSlug(gdb *gorm.DB, table, base string, excludeID uint) (string, error) {
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		query := gdb.Table(table).Where("slug = ?", candidate)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
