package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/models"
	"inkwell/utils"
)

// PageView counts successful GETs on public content routes, one upsert per
// request aggregated by day and path. Counting happens after the handler so
// it never delays the response.
func PageView(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" || c.Writer.Status() != 200 {
			return
		}
		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/api/posts") {
			return
		}

		today := time.Now().Truncate(24 * time.Hour)
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
		}).Create(&models.PageView{Date: today, Path: path, Count: 1}).Error
		if err != nil {
			utils.Sugar.Warnw("page view upsert failed", "path", path, "err", err)
		}
	}
}
