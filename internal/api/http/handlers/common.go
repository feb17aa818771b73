package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/newsroom/internal/api/dto"
	"github.com/spec-kit/newsroom/internal/repository"
)

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

// parsePage reads limit/offset, falling back to page/page_size.
func parsePage(c *fiber.Ctx) (int, int) {
	if c.Query("page") != "" || c.Query("page_size") != "" {
		page := parseInt(c.Query("page"), 1)
		if page < 1 {
			page = 1
		}
		pageSize := parseInt(c.Query("page_size"), 0)
		limit, _ := repository.NormalizePage(pageSize, 0)
		return limit, (page - 1) * limit
	}
	return repository.NormalizePage(parseInt(c.Query("limit"), 0), parseInt(c.Query("offset"), 0))
}

func pageMeta(limit, offset, count int) dto.PageMeta {
	return dto.PageMeta{Limit: limit, Offset: offset, Count: count}
}
