package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// isoMillis matches the timestamp format of JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func nowISO() string {
	return time.Now().UTC().Format(isoMillis)
}

// parseID reads the :id route param. Non-numeric and non-positive values are rejected.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// splitDots turns "Math.Physics" into [Math Physics], dropping empty parts.
func splitDots(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ".") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
